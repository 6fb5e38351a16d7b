// Copyright (c) 2025 Justin Cranford
//
//

// Package realm defines the credential-store contract every pluggable
// backend implements (spec §6) and provides an in-memory reference
// implementation for tests and demos.
package realm

import (
	"context"

	"github.com/Autochartist/yosai/internal/authc/account"
	"github.com/Autochartist/yosai/internal/authc/token"
)

// Realm is a pluggable credential store. Implementations are expected
// to do their own I/O (directory lookup, database read) and their own
// concurrency discipline around per-identifier failed-attempt counters.
type Realm interface {
	// Name uniquely identifies the realm within the engine.
	Name() string

	// SupportedTokenKinds lists the token kinds this realm can verify.
	SupportedTokenKinds() map[token.Kind]struct{}

	// Supports reports whether this realm can attempt to verify tok.
	Supports(tok *token.AuthenticationToken) bool

	// AuthenticateAccount verifies tok and returns the resulting
	// account, or nil if the realm has no opinion (e.g. unknown
	// identifier and the realm prefers silence over an error). It may
	// return autherr.IncorrectCredentials, autherr.LockedAccount,
	// autherr.AccountException, or any other error.
	AuthenticateAccount(ctx context.Context, tok *token.AuthenticationToken) (*account.Account, error)

	// ClearCachedAuthcInfo evicts any cached authc info for identifier,
	// in response to a SESSION.EXPIRE/SESSION.STOP event.
	ClearCachedAuthcInfo(ctx context.Context, identifier string) error
}

// LockingRealm is the optional capability a realm advertises by
// implementing LockAccount. The resolver treats the first configured
// realm satisfying this interface as the locking realm (spec §4.2).
type LockingRealm interface {
	Realm
	LockAccount(ctx context.Context, identifier string) error
}
