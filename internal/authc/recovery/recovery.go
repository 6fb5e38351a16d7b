// Copyright (c) 2025 Justin Cranford
//
//

// Package recovery generates and manages one-time backup codes as an
// alternate second factor. It supplements spec.md's explicit scope
// (grounded in original_source's treatment of recovery codes alongside
// TOTP) and is consumed by a Realm that wants to offer them, not by
// the Authenticator core directly.
package recovery

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/Autochartist/yosai/internal/authc/magic"
	"github.com/Autochartist/yosai/internal/authc/verify"
)

// Code is one generated recovery code in both its plaintext (shown to
// the user once) and hashed-for-storage forms.
type Code struct {
	Plaintext string
	Hash      string
}

// Generate produces count unique recovery codes, each
// magic.RecoveryCodeLength random bytes encoded as base32 and
// hyphenated into two groups of readability, e.g. "ABCDE-FGHIJ".
func Generate(count int) ([]Code, error) {
	if count <= 0 {
		return nil, fmt.Errorf("recovery: count must be positive, got %d", count)
	}

	seen := make(map[string]struct{}, count)
	codes := make([]Code, 0, count)

	for len(codes) < count {
		raw := make([]byte, magic.RecoveryCodeLength)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("recovery: generating code: %w", err)
		}

		plaintext := format(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw))
		if _, dup := seen[plaintext]; dup {
			continue
		}

		seen[plaintext] = struct{}{}

		hash, err := verify.HashRecoveryCode(plaintext)
		if err != nil {
			return nil, fmt.Errorf("recovery: hashing code: %w", err)
		}

		codes = append(codes, Code{Plaintext: plaintext, Hash: hash})
	}

	return codes, nil
}

// format splits raw into hyphenated groups of 5 characters for
// readability.
func format(raw string) string {
	var b strings.Builder

	for i, r := range raw {
		if i > 0 && i%5 == 0 {
			b.WriteByte('-')
		}

		b.WriteRune(r)
	}

	return b.String()
}

// Hashes extracts just the storage-ready hashes from codes, the form a
// realm persists.
func Hashes(codes []Code) []string {
	hashes := make([]string, len(codes))
	for i, c := range codes {
		hashes[i] = c.Hash
	}

	return hashes
}
