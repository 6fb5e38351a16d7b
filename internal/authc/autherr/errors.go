// Copyright (c) 2025 Justin Cranford
//
//

// Package autherr defines the engine's discriminated error taxonomy
// (spec §7). Every kind is a distinct exported type discriminable via
// errors.As and carries a stable Code for logging, mirroring the
// teacher's apperr package shape.
package autherr

import (
	"fmt"
	"time"

	"github.com/Autochartist/yosai/internal/authc/account"
)

// InvalidAuthenticationSequence means the token lacks an identifier
// and no prior identifier was supplied.
type InvalidAuthenticationSequence struct {
	Reason string
}

func (e *InvalidAuthenticationSequence) Error() string {
	return fmt.Sprintf("invalid authentication sequence: %s", e.Reason)
}

// Code returns a stable string code for this error kind.
func (e *InvalidAuthenticationSequence) Code() string { return "INVALID_AUTHENTICATION_SEQUENCE" }

// UnsupportedTokenKind means the token's kind is not registered, or no
// realm supports it.
type UnsupportedTokenKind struct {
	Kind string
}

func (e *UnsupportedTokenKind) Error() string {
	return fmt.Sprintf("unsupported token kind: %s", e.Kind)
}

// Code returns a stable string code for this error kind.
func (e *UnsupportedTokenKind) Code() string { return "UNSUPPORTED_TOKEN_KIND" }

// IncorrectCredentials means the verifier rejected the submitted
// credentials.
type IncorrectCredentials struct {
	Identifier string
	Cause      error

	// FailedAttempts is the realm's updated failed-attempt history for
	// this cred_type, including the attempt that produced this error,
	// if the realm chooses to report it. The engine reads this to
	// decide whether validate_locked should escalate (spec §4.6).
	FailedAttempts []time.Time
}

func (e *IncorrectCredentials) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("incorrect credentials for %q: %v", e.Identifier, e.Cause)
	}

	return fmt.Sprintf("incorrect credentials for %q", e.Identifier)
}

// Code returns a stable string code for this error kind.
func (e *IncorrectCredentials) Code() string { return "INCORRECT_CREDENTIALS" }

// Unwrap exposes the wrapped cause, if any.
func (e *IncorrectCredentials) Unwrap() error { return e.Cause }

// LockedAccount means the account is locked, either read back from a
// realm or just locked by validateLocked.
type LockedAccount struct {
	Identifier string
}

func (e *LockedAccount) Error() string {
	return fmt.Sprintf("account %q is locked", e.Identifier)
}

// Code returns a stable string code for this error kind.
func (e *LockedAccount) Code() string { return "LOCKED_ACCOUNT" }

// AccountException means realms returned no account, or a realm's
// stored credentials were missing for the submitted cred_type.
type AccountException struct {
	Reason string
}

func (e *AccountException) Error() string {
	return fmt.Sprintf("account exception: %s", e.Reason)
}

// Code returns a stable string code for this error kind.
func (e *AccountException) Code() string { return "ACCOUNT_EXCEPTION" }

// MultiRealmAuthentication bundles the per-realm errors raised when a
// strategy's realms disagree on outcome per spec §4.3.
type MultiRealmAuthentication struct {
	RealmErrors map[string]error
}

func (e *MultiRealmAuthentication) Error() string {
	return fmt.Sprintf("authentication failed across %d realm(s)", len(e.RealmErrors))
}

// Code returns a stable string code for this error kind.
func (e *MultiRealmAuthentication) Code() string { return "MULTI_REALM_AUTHENTICATION" }

// AdditionalAuthenticationRequired is not an error in the conventional
// sense: it's a control-flow signal carrying the partially
// authenticated identifier set so the caller can persist AccountID for
// the next MFA round.
type AdditionalAuthenticationRequired struct {
	AccountID account.IdentifierCollection
}

func (e *AdditionalAuthenticationRequired) Error() string {
	return "additional authentication required"
}

// Code returns a stable string code for this error kind.
func (e *AdditionalAuthenticationRequired) Code() string {
	return "ADDITIONAL_AUTHENTICATION_REQUIRED"
}
