// Copyright (c) 2025 Justin Cranford
//
//

// Package config holds the enumerated, typed configuration a host
// fills in before building an Authenticator (spec §6). Parsing the
// actual config file/env source stays external per spec.md's
// Non-goals; this package only defines the shape.
package config

// Settings is the engine's enumerated configuration.
type Settings struct {
	// AccountLockThreshold, if non-nil and positive, enables locking:
	// the (threshold+1)th failed attempt locks the account. Nil
	// disables locking.
	AccountLockThreshold *int

	// PreferredAlgorithm names the password hash scheme new hashes are
	// minted with (verify.HashPassword currently always uses PBKDF2;
	// this field documents host intent for future algorithm choices).
	PreferredAlgorithm string

	// PreferredAlgorithmContext carries algorithm-specific parameters,
	// e.g. {"iterations": 600000}.
	PreferredAlgorithmContext map[string]any
}

// LockingEnabled reports whether s configures a positive lock
// threshold.
func (s Settings) LockingEnabled() bool {
	return s.AccountLockThreshold != nil && *s.AccountLockThreshold > 0
}

// Threshold returns the configured lock threshold, or 0 if locking is
// disabled.
func (s Settings) Threshold() int {
	if !s.LockingEnabled() {
		return 0
	}

	return *s.AccountLockThreshold
}
