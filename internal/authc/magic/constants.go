// Copyright (c) 2025 Justin Cranford
//
//

// Package magic collects the tuning constants used across the
// authentication engine so they are never duplicated or hand-copied
// between packages.
package magic

import "crypto/sha256"

const (
	// PBKDF2DefaultIterations is the iteration count used by
	// HashPassword when the caller doesn't override it.
	PBKDF2DefaultIterations = 600000

	// PBKDF2DefaultSaltBytes is the random salt length in bytes.
	PBKDF2DefaultSaltBytes = 16

	// PBKDF2DefaultHashBytes is the derived key length in bytes.
	PBKDF2DefaultHashBytes = 32

	// PBKDF2DefaultAlgorithm names the hash function embedded in the
	// stored hash string, e.g. "$pbkdf2-sha256$...".
	PBKDF2DefaultAlgorithm = "sha256"

	// BcryptCost is used only to recognize legacy bcrypt hashes; this
	// engine never mints new bcrypt hashes for passwords.
	BcryptCost = 12

	// TOTPDigits is the number of digits pquerna/otp validates against.
	TOTPDigits = 6

	// TOTPSkewSteps is the number of 30s steps of clock skew tolerated
	// on either side of "now" when validating a submitted TOTP code.
	TOTPSkewSteps = 1

	// RecoveryCodeLength is the number of random bytes backing each
	// generated recovery code before base32 encoding.
	RecoveryCodeLength = 10
)

// SHA256NewFunc is the concrete hash.Hash constructor used by pbkdf2.Key
// calls throughout the verify package. It is a var, not a direct
// reference to sha256.New, so tests can swap it out.
var SHA256NewFunc = sha256.New
