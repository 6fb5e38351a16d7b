// Copyright (c) 2025 Justin Cranford
//
//

// Package strategy implements the three combination policies that fold
// per-realm verdicts into a single outcome (spec §4.3). Every strategy
// is pure with respect to the attempt: no hidden mutation of the token
// or realms outside what each policy explicitly documents.
package strategy

import (
	"context"

	"github.com/Autochartist/yosai/internal/authc/account"
	"github.com/Autochartist/yosai/internal/authc/autherr"
	"github.com/Autochartist/yosai/internal/authc/realm"
	"github.com/Autochartist/yosai/internal/authc/token"
)

// Attempt is an immutable pairing of a token with the set of realms a
// strategy must iterate.
type Attempt struct {
	Token  *token.AuthenticationToken
	Realms []realm.Realm
}

// Strategy folds an Attempt's per-realm verdicts into a single
// Account, or nil, or an error.
type Strategy interface {
	Execute(ctx context.Context, attempt Attempt) (*account.Account, error)
}

// accumulate folds a newly returned non-nil account into the running
// result, promoting to a CompositeAccount on the second success, per
// the identical accumulation rule shared by AllRealmsSuccessful and
// AtLeastOneRealmSuccessful.
func accumulate(result *account.Account, composite *account.CompositeAccount, realmName string, got *account.Account) (*account.Account, *account.CompositeAccount) {
	switch {
	case composite != nil:
		composite.AddSubAccount(realmName, got)
		return result, composite
	case result != nil:
		c := account.NewCompositeAccount(firstRealmName(result), result)
		c.AddSubAccount(realmName, got)

		return result, c
	default:
		return got, nil
	}
}

// firstRealmName recovers the realm name the first-accumulated account
// came from, so the composite's sub-account map can key it properly.
// The first account's own AccountID always carries exactly one realm
// entry (the realm that produced it) before any merge happens.
func firstRealmName(first *account.Account) string {
	if p, ok := first.AccountID.Primary(); ok {
		return p.RealmName
	}

	return ""
}

func finalAccount(result *account.Account, composite *account.CompositeAccount) *account.Account {
	if composite != nil {
		return &composite.Account
	}

	return result
}

// AllRealmsSuccessful requires every supporting realm to succeed. Any
// raised error aborts the strategy immediately; the error propagates
// and no later realm is visited (Design Note: short-circuit avoids
// unnecessary backend I/O).
type AllRealmsSuccessful struct{}

// Execute implements Strategy.
func (AllRealmsSuccessful) Execute(ctx context.Context, attempt Attempt) (*account.Account, error) {
	var (
		result    *account.Account
		composite *account.CompositeAccount
	)

	for _, r := range attempt.Realms {
		if !r.Supports(attempt.Token) {
			continue
		}

		got, err := r.AuthenticateAccount(ctx, attempt.Token)
		if err != nil {
			return nil, err
		}

		if got == nil {
			continue
		}

		result, composite = accumulate(result, composite, r.Name(), got)
	}

	return finalAccount(result, composite), nil
}

// AtLeastOneRealmSuccessful tolerates per-realm errors, aggregating
// them into a realm_errors map. On any realm success, outcomes
// accumulate like AllRealmsSuccessful. If none succeed, MultiRealm
// errors raise a MultiRealmAuthentication; otherwise nil.
type AtLeastOneRealmSuccessful struct{}

// Execute implements Strategy.
func (AtLeastOneRealmSuccessful) Execute(ctx context.Context, attempt Attempt) (*account.Account, error) {
	var (
		result      *account.Account
		composite   *account.CompositeAccount
		realmErrors = make(map[string]error)
	)

	for _, r := range attempt.Realms {
		if !r.Supports(attempt.Token) {
			continue
		}

		// AtLeastOne permits realms to mutate the token; dispatch a
		// defensive copy so one realm's mutation can't affect another's
		// view of the attempt (spec §4.3).
		got, err := r.AuthenticateAccount(ctx, attempt.Token.Clone())
		if err != nil {
			realmErrors[r.Name()] = err
			continue
		}

		if got == nil {
			continue
		}

		result, composite = accumulate(result, composite, r.Name(), got)
	}

	if final := finalAccount(result, composite); final != nil {
		return final, nil
	}

	if len(realmErrors) > 0 {
		return nil, &autherr.MultiRealmAuthentication{RealmErrors: realmErrors}
	}

	return nil, nil
}

// FirstRealmSuccessful returns immediately on the first realm that
// returns a non-nil account, discarding any earlier errors. If the
// loop exhausts without success: zero errors returns nil; exactly one
// error re-raises it (wrapped as IncorrectCredentials if it isn't
// already an authentication-kind error); more than one raises
// MultiRealmAuthentication.
type FirstRealmSuccessful struct{}

// Execute implements Strategy.
func (FirstRealmSuccessful) Execute(ctx context.Context, attempt Attempt) (*account.Account, error) {
	realmErrors := make(map[string]error)

	for _, r := range attempt.Realms {
		if !r.Supports(attempt.Token) {
			continue
		}

		got, err := r.AuthenticateAccount(ctx, attempt.Token)
		if err != nil {
			realmErrors[r.Name()] = err
			continue
		}

		if got != nil {
			return got, nil
		}
	}

	switch len(realmErrors) {
	case 0:
		return nil, nil
	case 1:
		for _, err := range realmErrors {
			if isAuthenticationKind(err) {
				return nil, err
			}

			return nil, &autherr.IncorrectCredentials{Identifier: attempt.Token.IdentifierValue(), Cause: err}
		}

		return nil, nil // unreachable
	default:
		return nil, &autherr.MultiRealmAuthentication{RealmErrors: realmErrors}
	}
}

// isAuthenticationKind reports whether err is already one of this
// package's recognized authentication-error kinds, in which case it is
// re-raised as-is rather than wrapped (Design Note 9).
func isAuthenticationKind(err error) bool {
	switch err.(type) {
	case *autherr.IncorrectCredentials, *autherr.LockedAccount, *autherr.AccountException, *autherr.UnsupportedTokenKind:
		return true
	default:
		return false
	}
}
