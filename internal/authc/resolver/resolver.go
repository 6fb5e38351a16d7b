// Copyright (c) 2025 Justin Cranford
//
//

// Package resolver builds the static token-kind -> realm dispatch map
// once at startup (spec §4.2).
package resolver

import (
	"github.com/Autochartist/yosai/internal/authc/realm"
	"github.com/Autochartist/yosai/internal/authc/token"
)

// Resolver is the immutable token kind -> realm dispatch map. Iteration
// order within a kind's realm list matches the order realms were
// supplied to New, since deterministic iteration is required for
// reproducible strategy outcomes.
type Resolver struct {
	byKind map[token.Kind][]realm.Realm
}

// New scans each realm's SupportedTokenKinds and builds the dispatch
// map, preserving realms's order.
func New(realms []realm.Realm) *Resolver {
	byKind := make(map[token.Kind][]realm.Realm)

	for _, r := range realms {
		for kind := range r.SupportedTokenKinds() {
			byKind[kind] = append(byKind[kind], r)
		}
	}

	return &Resolver{byKind: byKind}
}

// RealmsFor returns the realms supporting kind, in configuration order.
func (res *Resolver) RealmsFor(kind token.Kind) []realm.Realm {
	return res.byKind[kind]
}

// FindLockingRealm returns the first realm in realms implementing
// LockingRealm, or false if none do (spec §4.2: "a second scan finds
// the first realm exposing lock_account").
func FindLockingRealm(realms []realm.Realm) (realm.LockingRealm, bool) {
	for _, r := range realms {
		if lr, ok := r.(realm.LockingRealm); ok {
			return lr, true
		}
	}

	return nil, false
}
