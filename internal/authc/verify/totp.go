// Copyright (c) 2025 Justin Cranford
//
//

package verify

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/Autochartist/yosai/internal/authc/magic"
)

// VerifyTOTP validates a submitted 6-digit code against the stored
// base32 shared key, tolerating skewSteps periods of clock drift on
// either side of now. Any library-side error is surfaced as (false,
// err); the caller (the realm) maps that to IncorrectCredentials per
// spec §4.5.
func VerifyTOTP(code int, base32Secret string, skewSteps uint) (bool, error) {
	if base32Secret == "" {
		return false, fmt.Errorf("verify: missing totp secret")
	}

	valid, err := totp.ValidateCustom(
		fmt.Sprintf("%06d", code),
		base32Secret,
		time.Now().UTC(),
		totp.ValidateOpts{
			Period:    30,
			Skew:      skewSteps,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		},
	)
	if err != nil {
		return false, fmt.Errorf("verify: totp validation error: %w", err)
	}

	return valid, nil
}

// DefaultTOTPSkew is the package default passed by realms that don't
// need a custom tolerance.
const DefaultTOTPSkew = uint(magic.TOTPSkewSteps)
