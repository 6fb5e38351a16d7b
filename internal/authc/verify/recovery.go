// Copyright (c) 2025 Justin Cranford
//
//

package verify

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// normalizeRecoveryCode strips dashes/whitespace and lowercases a
// user-submitted recovery code so "AB12-CD34" and "ab12cd34" compare
// equal.
func normalizeRecoveryCode(code string) string {
	code = strings.ToLower(code)
	code = strings.ReplaceAll(code, "-", "")
	code = strings.ReplaceAll(code, " ", "")

	return code
}

// HashRecoveryCode hashes a freshly generated recovery code for
// at-rest storage.
func HashRecoveryCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(normalizeRecoveryCode(code)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyRecoveryCode compares submitted against each of storedHashes
// and returns the index of the first match. ok is false if none match.
func VerifyRecoveryCode(submitted string, storedHashes []string) (matchIndex int, ok bool) {
	normalized := normalizeRecoveryCode(submitted)

	for i, stored := range storedHashes {
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(normalized)) == nil {
			return i, true
		}
	}

	return -1, false
}
