// Copyright (c) 2025 Justin Cranford
//
//

// Package verify implements the credential-comparison backends used by
// realm implementations: password hashing/verification and TOTP
// verification (spec §4.5). It is realm-internal tooling, not part of
// the Authenticator's own call graph.
package verify

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"

	"github.com/Autochartist/yosai/internal/authc/magic"
)

const pbkdf2Prefix = "$pbkdf2-sha256$"

// passwordHashFn and passwordVerifyFn are indirections over the
// package's own HashPassword/VerifyPassword internals, overridable in
// tests to exercise error paths without forging malformed hashes.
var (
	passwordHashFn   = hashPBKDF2
	passwordVerifyFn = verifyPBKDF2
)

// HashPassword derives a PBKDF2-SHA256 hash for plaintext using the
// package defaults and returns it in the self-describing
// "$pbkdf2-sha256$<iterations>$<salt-b64>$<hash-b64>" form.
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("verify: password cannot be empty")
	}

	return passwordHashFn(plaintext)
}

func hashPBKDF2(plaintext string) (string, error) {
	salt := make([]byte, magic.PBKDF2DefaultSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("verify: generating salt: %w", err)
	}

	derived := pbkdf2.Key([]byte(plaintext), salt, magic.PBKDF2DefaultIterations, magic.PBKDF2DefaultHashBytes, magic.SHA256NewFunc)

	return fmt.Sprintf("%s%d$%s$%s",
		pbkdf2Prefix,
		magic.PBKDF2DefaultIterations,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(derived),
	), nil
}

// HashType names the recognized stored-hash formats.
type HashType string

const (
	HashTypePBKDF2  HashType = "pbkdf2"
	HashTypeBcrypt  HashType = "bcrypt"
	HashTypeUnknown HashType = "unknown"
)

// DetectHashType inspects stored's prefix to decide which backend
// VerifyPassword should dispatch to.
func DetectHashType(stored string) HashType {
	switch {
	case strings.HasPrefix(stored, pbkdf2Prefix):
		return HashTypePBKDF2
	case strings.HasPrefix(stored, "$2a$"), strings.HasPrefix(stored, "$2b$"), strings.HasPrefix(stored, "$2y$"):
		return HashTypeBcrypt
	default:
		return HashTypeUnknown
	}
}

// VerifyPassword compares plaintext against stored, dispatching by
// hash format. needsUpgrade is true when stored is in a legacy format
// (bcrypt) that the realm should re-hash with HashPassword on next
// successful login.
func VerifyPassword(plaintext, stored string) (match bool, needsUpgrade bool, err error) {
	if plaintext == "" || stored == "" {
		return false, false, fmt.Errorf("verify: password and stored hash cannot be empty")
	}

	switch DetectHashType(stored) {
	case HashTypePBKDF2:
		match, err = passwordVerifyFn(plaintext, stored)
		return match, false, err
	case HashTypeBcrypt:
		cmpErr := bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext))
		if cmpErr != nil {
			if cmpErr == bcrypt.ErrMismatchedHashAndPassword { //nolint:errorlint // sentinel comparison matches teacher's style
				return false, true, nil
			}

			return false, true, fmt.Errorf("verify: legacy hash verification failed: %w", cmpErr)
		}

		return true, true, nil
	default:
		return false, false, fmt.Errorf("verify: unknown hash type for stored credential")
	}
}

func verifyPBKDF2(plaintext, stored string) (bool, error) {
	parts := strings.Split(strings.TrimPrefix(stored, pbkdf2Prefix), "$")
	if len(parts) != 3 {
		return false, fmt.Errorf("verify: malformed pbkdf2 hash")
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil {
		return false, fmt.Errorf("verify: malformed pbkdf2 iteration count: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("verify: malformed pbkdf2 salt: %w", err)
	}

	expected, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("verify: malformed pbkdf2 derived key: %w", err)
	}

	derived := pbkdf2.Key([]byte(plaintext), salt, iterations, len(expected), magic.SHA256NewFunc)

	return subtle.ConstantTimeCompare(derived, expected) == 1, nil
}
