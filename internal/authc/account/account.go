// Copyright (c) 2025 Justin Cranford
//
//

// Package account models the realm verdict record produced by
// authentication: identity, stored credentials, and failure history,
// plus the ordered identifier collection carried between MFA rounds.
package account

import "time"

// Identifier pairs a realm name with that realm's notion of the
// account's identifier.
type Identifier struct {
	RealmName string
	ID        string
}

// IdentifierCollection is an ordered, append-only set of (realm,
// identifier) pairs with a stable Primary (first-inserted). It carries
// partial identity between MFA rounds — callers persist only this
// value across rounds, never credentials.
type IdentifierCollection struct {
	entries []Identifier
}

// NewIdentifierCollection builds a collection seeded with the given
// entries, preserving their order.
func NewIdentifierCollection(entries ...Identifier) IdentifierCollection {
	return IdentifierCollection{entries: append([]Identifier(nil), entries...)}
}

// Add appends a new (realm, id) pair. It is a no-op if that exact pair
// is already present.
func (c *IdentifierCollection) Add(realmName, id string) {
	for _, e := range c.entries {
		if e.RealmName == realmName && e.ID == id {
			return
		}
	}

	c.entries = append(c.entries, Identifier{RealmName: realmName, ID: id})
}

// Primary returns the first-inserted identifier and true, or the zero
// Identifier and false if the collection is empty.
func (c IdentifierCollection) Primary() (Identifier, bool) {
	if len(c.entries) == 0 {
		return Identifier{}, false
	}

	return c.entries[0], true
}

// PrimaryIdentifier returns just the ID string of Primary(), or "" if
// the collection is empty.
func (c IdentifierCollection) PrimaryIdentifier() string {
	p, ok := c.Primary()
	if !ok {
		return ""
	}

	return p.ID
}

// FromSource returns the identifier contributed by realmName, or false
// if that realm never contributed one.
func (c IdentifierCollection) FromSource(realmName string) (string, bool) {
	for _, e := range c.entries {
		if e.RealmName == realmName {
			return e.ID, true
		}
	}

	return "", false
}

// All returns the collection's entries in insertion order. The
// returned slice is a copy; mutating it does not affect the collection.
func (c IdentifierCollection) All() []Identifier {
	return append([]Identifier(nil), c.entries...)
}

// IsEmpty reports whether the collection has no entries.
func (c IdentifierCollection) IsEmpty() bool {
	return len(c.entries) == 0
}

// AuthcInfoEntry is the stored-credential record for one cred_type.
type AuthcInfoEntry struct {
	// Credential is the stored form: a password hash string, a base32
	// TOTP secret, or a slice of hashed recovery codes, depending on
	// cred_type.
	Credential any

	// FailedAttempts records the timestamps of prior failed
	// verifications against this cred_type, oldest first.
	FailedAttempts []time.Time
}

// Account is a realm's verdict record for one token: identity, stored
// credentials, and failure history. The number of AuthcInfo entries is
// the account's MFA depth.
type Account struct {
	AccountID IdentifierCollection
	AuthcInfo map[string]AuthcInfoEntry
}

// NewAccount builds an Account with an initialized AuthcInfo map.
func NewAccount(id IdentifierCollection) *Account {
	return &Account{AccountID: id, AuthcInfo: make(map[string]AuthcInfoEntry)}
}

// MFADepth returns the number of authc_info entries, i.e. the number
// of factors this account is configured with.
func (a *Account) MFADepth() int {
	return len(a.AuthcInfo)
}

// FailedAttempts returns the failed-attempt history for credType, or
// an empty slice if credType has no entry (spec §4.4 step 3).
func (a *Account) FailedAttempts(credType string) []time.Time {
	entry, ok := a.AuthcInfo[credType]
	if !ok {
		return nil
	}

	return entry.FailedAttempts
}

// CompositeAccount is materialized when >=2 realms return accounts for
// the same token. Invariant: a CompositeAccount exists iff >=2 realm
// verdicts succeeded, and |SubAccounts| >= 2 with distinct realm names.
type CompositeAccount struct {
	Account

	// SubAccounts holds each contributing realm's own Account, keyed
	// by realm name.
	SubAccounts map[string]*Account
}

// NewCompositeAccount seeds a composite from the first contributing
// realm's account.
func NewCompositeAccount(realmName string, first *Account) *CompositeAccount {
	c := &CompositeAccount{
		Account:     Account{AccountID: NewIdentifierCollection(), AuthcInfo: make(map[string]AuthcInfoEntry)},
		SubAccounts: make(map[string]*Account),
	}
	c.merge(realmName, first)

	return c
}

// AddSubAccount folds another contributing realm's account into the
// composite. Per DESIGN.md's resolution of the merge-rule open
// question, later realms win on AuthcInfo cred_type collisions, and
// the realm's identifiers are appended to AccountID.
func (c *CompositeAccount) AddSubAccount(realmName string, acct *Account) {
	c.merge(realmName, acct)
}

func (c *CompositeAccount) merge(realmName string, acct *Account) {
	c.SubAccounts[realmName] = acct

	for _, id := range acct.AccountID.All() {
		c.AccountID.Add(id.RealmName, id.ID)
	}
	// The contributing realm may not have stamped its own name onto
	// every identifier it returned; ensure at least one entry is
	// attributed to it so FromSource(realmName) works.
	if _, ok := c.AccountID.FromSource(realmName); !ok {
		if p, ok := acct.AccountID.Primary(); ok {
			c.AccountID.Add(realmName, p.ID)
		}
	}

	for credType, entry := range acct.AuthcInfo {
		c.AuthcInfo[credType] = entry
	}
}
