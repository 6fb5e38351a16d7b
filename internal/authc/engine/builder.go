// Copyright (c) 2025 Justin Cranford
//
//

// Package engine implements the Authenticator core: sequencing, MFA
// progression, locking, and event publication (spec §4.4).
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Autochartist/yosai/internal/authc/challenge"
	"github.com/Autochartist/yosai/internal/authc/config"
	"github.com/Autochartist/yosai/internal/authc/events"
	"github.com/Autochartist/yosai/internal/authc/realm"
	"github.com/Autochartist/yosai/internal/authc/resolver"
	"github.com/Autochartist/yosai/internal/authc/strategy"
	"github.com/Autochartist/yosai/internal/authc/token"
)

// Builder collects settings, strategy, challenger, and event bus, then
// produces an immutable Authenticator. No field may be mutated after
// Build returns (spec Design Note 9's two-step builder).
type Builder struct {
	strategy   strategy.Strategy
	eventBus   events.Bus
	settings   config.Settings
	registry   *token.Registry
	challenger challenge.MFAChallenger
	logger     *slog.Logger
}

// NewBuilder returns a Builder seeded with the engine's defaults:
// AtLeastOneRealmSuccessful strategy, a no-op event bus, the default
// token registry, no MFA challenger, and slog.Default().
func NewBuilder() *Builder {
	return &Builder{
		strategy: strategy.AtLeastOneRealmSuccessful{},
		eventBus: events.NoopBus,
		registry: token.DefaultRegistry(),
		logger:   slog.Default(),
	}
}

// WithStrategy overrides the combination strategy.
func (b *Builder) WithStrategy(s strategy.Strategy) *Builder {
	b.strategy = s
	return b
}

// WithEventBus overrides the event bus. A nil bus is treated as
// events.NoopBus.
func (b *Builder) WithEventBus(bus events.Bus) *Builder {
	if bus == nil {
		bus = events.NoopBus
	}

	b.eventBus = bus

	return b
}

// WithSettings overrides the enumerated configuration (lock threshold,
// preferred algorithm).
func (b *Builder) WithSettings(s config.Settings) *Builder {
	b.settings = s
	return b
}

// WithMFAChallenger sets the optional second-factor delivery channel.
func (b *Builder) WithMFAChallenger(c challenge.MFAChallenger) *Builder {
	b.challenger = c
	return b
}

// WithRegistry overrides the token-kind registry, letting hosts
// register custom token kinds or isolate tests from the shared
// default (spec Design Note 9).
func (b *Builder) WithRegistry(r *token.Registry) *Builder {
	b.registry = r
	return b
}

// WithLogger overrides the structured logger.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build finalizes realms into the resolver and locking configuration
// and returns an immutable Authenticator (spec §4.4 init_realms).
func (b *Builder) Build(realms []realm.Realm) (*Authenticator, error) {
	if len(realms) == 0 {
		return nil, fmt.Errorf("engine: at least one realm is required")
	}

	res := resolver.New(realms)

	lockingRealm, hasLocking := resolver.FindLockingRealm(realms)
	if b.settings.LockingEnabled() && !hasLocking {
		return nil, fmt.Errorf("engine: account_lock_threshold is set but no realm implements LockingRealm")
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := b.registry
	if registry == nil {
		registry = token.DefaultRegistry()
	}

	strat := b.strategy
	if strat == nil {
		strat = strategy.AtLeastOneRealmSuccessful{}
	}

	a := &Authenticator{
		realms:        append([]realm.Realm(nil), realms...),
		resolver:      res,
		lockingRealm:  lockingRealm,
		lockThreshold: b.settings.Threshold(),
		lockingEnabled: b.settings.LockingEnabled(),
		eventBus:      b.eventBus,
		strategy:      strat,
		registry:      registry,
		mfaChallenger: b.challenger,
		logger:        logger,
	}

	a.eventBus.Subscribe(events.TopicSessionExpire, a.handleSessionEvent)
	a.eventBus.Subscribe(events.TopicSessionStop, a.handleSessionEvent)

	return a, nil
}

// handleSessionEvent clears cached authc info for every realm that
// contributed an identifier to the session's identifier collection
// (spec §4.7).
func (a *Authenticator) handleSessionEvent(payload any) {
	p, ok := payload.(events.SessionEventPayload)
	if !ok {
		a.logger.Warn("session event payload has unexpected type", slog.Any("payload", payload))
		return
	}

	for _, r := range a.realms {
		id, found := p.Identifiers.FromSource(r.Name())
		if !found {
			continue
		}

		if err := r.ClearCachedAuthcInfo(context.Background(), id); err != nil {
			a.logger.Warn("clearing cached authc info failed",
				slog.String("realm", r.Name()), slog.String("identifier", id), slog.Any("error", err))
		}
	}
}
