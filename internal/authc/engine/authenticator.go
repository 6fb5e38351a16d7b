// Copyright (c) 2025 Justin Cranford
//
//

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Autochartist/yosai/internal/authc/account"
	"github.com/Autochartist/yosai/internal/authc/autherr"
	"github.com/Autochartist/yosai/internal/authc/challenge"
	"github.com/Autochartist/yosai/internal/authc/events"
	"github.com/Autochartist/yosai/internal/authc/realm"
	"github.com/Autochartist/yosai/internal/authc/resolver"
	"github.com/Autochartist/yosai/internal/authc/strategy"
	"github.com/Autochartist/yosai/internal/authc/token"
)

// Authenticator is the process-lifetime coordination engine. Every
// field is set once by Builder.Build and treated as read-only
// afterward (spec §5).
type Authenticator struct {
	realms         []realm.Realm
	resolver       *resolver.Resolver
	lockingRealm   realm.LockingRealm
	lockThreshold  int
	lockingEnabled bool
	eventBus       events.Bus
	strategy       strategy.Strategy
	registry       *token.Registry
	mfaChallenger  challenge.MFAChallenger
	logger         *slog.Logger
}

// AuthenticateAccount is the public entry point (spec §4.4). priorIdentifiers
// is nil on a fresh login and the previously returned AccountID on an
// MFA follow-up round.
func (a *Authenticator) AuthenticateAccount(ctx context.Context, priorIdentifiers *account.IdentifierCollection, tok *token.AuthenticationToken) (account.IdentifierCollection, error) {
	// Step 1: sequence validation.
	if !tok.HasIdentifier() {
		if priorIdentifiers == nil || priorIdentifiers.IsEmpty() {
			return account.IdentifierCollection{}, &autherr.InvalidAuthenticationSequence{
				Reason: "token has no identifier and no prior identifiers were supplied",
			}
		}

		tok.SetIdentifier(priorIdentifiers.PrimaryIdentifier())
	}

	// Step 2: attach metadata.
	info, ok := a.registry.Lookup(tok.Kind)
	if !ok {
		return account.IdentifierCollection{}, &autherr.UnsupportedTokenKind{Kind: string(tok.Kind)}
	}

	tok.TokenInfo = info

	// Step 3: dispatch.
	acct, err := a.doAuthenticateAccount(ctx, tok)

	// Step 4: post-processing by outcome.
	return a.postProcess(ctx, tok, acct, err)
}

func (a *Authenticator) postProcess(ctx context.Context, tok *token.AuthenticationToken, acct *account.Account, err error) (account.IdentifierCollection, error) {
	switch e := err.(type) { //nolint:errorlint // discriminating our own sealed error taxonomy by concrete type
	case *autherr.AdditionalAuthenticationRequired:
		primary := e.AccountID.PrimaryIdentifier()
		a.publish(events.TopicProgress, primary)

		if a.mfaChallenger != nil {
			if sendErr := a.mfaChallenger.SendChallenge(primary); sendErr != nil {
				a.logger.Warn("mfa challenger failed to send challenge", slog.String("identifier", primary), slog.Any("error", sendErr))
			}
		}

		return account.IdentifierCollection{}, err

	case *autherr.LockedAccount:
		a.publish(events.TopicFailed, tok.IdentifierValue())
		a.publish(events.TopicAccountLocked, tok.IdentifierValue())

		return account.IdentifierCollection{}, err

	case *autherr.IncorrectCredentials:
		a.publish(events.TopicFailed, tok.IdentifierValue())

		if lockErr := a.validateLocked(ctx, tok.IdentifierValue(), e.FailedAttempts); lockErr != nil {
			return account.IdentifierCollection{}, lockErr
		}

		return account.IdentifierCollection{}, err

	case nil:
		if acct == nil {
			a.publish(events.TopicAccountNotFound, tok.IdentifierValue())
			return account.IdentifierCollection{}, &autherr.AccountException{
				Reason: fmt.Sprintf("no realm returned an account for %q", tok.IdentifierValue()),
			}
		}

		primary := acct.AccountID.PrimaryIdentifier()
		a.publish(events.TopicSucceeded, primary)

		return acct.AccountID, nil

	default:
		return account.IdentifierCollection{}, err
	}
}

// doAuthenticateAccount implements spec §4.4's do_authenticate_account.
func (a *Authenticator) doAuthenticateAccount(ctx context.Context, tok *token.AuthenticationToken) (*account.Account, error) {
	candidates := a.resolver.RealmsFor(tok.Kind)
	if len(candidates) == 0 {
		return nil, &autherr.UnsupportedTokenKind{Kind: string(tok.Kind)}
	}

	var (
		acct *account.Account
		err  error
	)

	// Single-realm fast path is gated on the total configured realm
	// count, not the candidate count, matching the reference behavior
	// preserved by spec Design Note 9.
	if len(a.realms) == 1 {
		acct, err = a.realms[0].AuthenticateAccount(ctx, tok)
	} else {
		attempt := strategy.Attempt{Token: tok, Realms: a.realms}
		acct, err = a.strategy.Execute(ctx, attempt)
	}

	if err != nil {
		return nil, err
	}

	if acct == nil {
		return nil, nil //nolint:nilnil // "no account found" is a valid, distinct outcome from "error"
	}

	failedAttempts := acct.FailedAttempts(tok.TokenInfo.CredType)
	if lockErr := a.validateLocked(ctx, tok.IdentifierValue(), failedAttempts); lockErr != nil {
		return nil, lockErr
	}

	if acct.MFADepth() > tok.TokenInfo.Tier {
		return nil, &autherr.AdditionalAuthenticationRequired{AccountID: acct.AccountID}
	}

	return acct, nil
}

// validateLocked implements spec §4.6. It returns a *autherr.LockedAccount
// when failedAttempts has crossed the threshold, or nil otherwise.
func (a *Authenticator) validateLocked(ctx context.Context, identifier string, failedAttempts []time.Time) error {
	if !a.lockingEnabled {
		return nil
	}

	if len(failedAttempts) <= a.lockThreshold {
		return nil
	}

	if a.lockingRealm != nil {
		if err := a.lockingRealm.LockAccount(ctx, identifier); err != nil {
			a.logger.Warn("locking realm failed to lock account", slog.String("identifier", identifier), slog.Any("error", err))
		}
	}

	a.publish(events.TopicAccountLocked, identifier)

	return &autherr.LockedAccount{Identifier: identifier}
}

// publish wraps eventBus.Publish, tolerating a nil bus per spec §4.7's
// "publication is a no-op, never fatal" rule.
func (a *Authenticator) publish(topic string, payload any) {
	if a.eventBus == nil {
		return
	}

	a.eventBus.Publish(topic, payload)
}
