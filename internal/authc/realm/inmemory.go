// Copyright (c) 2025 Justin Cranford
//
//

package realm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Autochartist/yosai/internal/authc/account"
	"github.com/Autochartist/yosai/internal/authc/autherr"
	"github.com/Autochartist/yosai/internal/authc/token"
	"github.com/Autochartist/yosai/internal/authc/verify"
)

// UserRecord is one user's credential state in an InMemoryRealm.
type UserRecord struct {
	ID                 string
	Username           string
	PasswordHash       string
	TOTPSecret         string
	RecoveryCodeHashes []string
	Enabled            bool
	Locked             bool

	mu             sync.Mutex
	failedAttempts map[string][]time.Time
}

func newUserRecord(username string) *UserRecord {
	return &UserRecord{
		ID:             uuid.Must(uuid.NewV7()).String(),
		Username:       username,
		Enabled:        true,
		failedAttempts: make(map[string][]time.Time),
	}
}

func (u *UserRecord) recordFailure(credType string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.failedAttempts[credType] = append(u.failedAttempts[credType], time.Now().UTC())
}

func (u *UserRecord) failures(credType string) []time.Time {
	u.mu.Lock()
	defer u.mu.Unlock()

	return append([]time.Time(nil), u.failedAttempts[credType]...)
}

// SeedFailedAttempts pre-populates u's failure history for credType,
// useful for tests that start a user already partway to the lock
// threshold.
func (u *UserRecord) SeedFailedAttempts(credType string, attempts []time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.failedAttempts[credType] = append([]time.Time(nil), attempts...)
}

func (u *UserRecord) clearFailures() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.failedAttempts = make(map[string][]time.Time)
}

// InMemoryRealm is a reference Realm implementation backed by a map,
// grounded in the teacher's file-backed realm (named users, enable
// flags, PBKDF2 password hashes) but reshaped for multi-factor,
// multi-realm dispatch rather than single-lookup RBAC.
type InMemoryRealm struct {
	name           string
	supportedKinds map[token.Kind]struct{}

	mu    sync.RWMutex
	users map[string]*UserRecord
}

// NewInMemoryRealm creates an empty realm supporting the given token
// kinds.
func NewInMemoryRealm(name string, kinds ...token.Kind) *InMemoryRealm {
	supported := make(map[token.Kind]struct{}, len(kinds))
	for _, k := range kinds {
		supported[k] = struct{}{}
	}

	return &InMemoryRealm{
		name:           name,
		supportedKinds: supported,
		users:          make(map[string]*UserRecord),
	}
}

// AddUser registers username with its stored credential material.
// Any zero-value field (PasswordHash, TOTPSecret, RecoveryCodeHashes)
// is simply never matched against.
func (r *InMemoryRealm) AddUser(username string, configure func(*UserRecord)) *UserRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := newUserRecord(username)
	if configure != nil {
		configure(u)
	}

	r.users[username] = u

	return u
}

// Name implements Realm.
func (r *InMemoryRealm) Name() string { return r.name }

// SupportedTokenKinds implements Realm.
func (r *InMemoryRealm) SupportedTokenKinds() map[token.Kind]struct{} {
	return r.supportedKinds
}

// Supports implements Realm.
func (r *InMemoryRealm) Supports(tok *token.AuthenticationToken) bool {
	_, ok := r.supportedKinds[tok.Kind]

	return ok
}

// AuthenticateAccount implements Realm.
func (r *InMemoryRealm) AuthenticateAccount(_ context.Context, tok *token.AuthenticationToken) (*account.Account, error) {
	r.mu.RLock()
	user, ok := r.users[tok.IdentifierValue()]
	r.mu.RUnlock()

	if !ok {
		return nil, nil //nolint:nilnil // "no opinion" is a valid realm verdict per the Realm contract
	}

	user.mu.Lock()
	locked := user.Locked
	user.mu.Unlock()

	if locked {
		return nil, &autherr.LockedAccount{Identifier: tok.IdentifierValue()}
	}

	if !user.Enabled {
		return nil, &autherr.AccountException{Reason: fmt.Sprintf("user %q is disabled", tok.IdentifierValue())}
	}

	switch tok.Kind {
	case token.KindPassword:
		return r.authenticatePassword(user, tok)
	case token.KindTOTP:
		return r.authenticateTOTP(user, tok)
	case token.KindRecoveryCode:
		return r.authenticateRecoveryCode(user, tok)
	default:
		return nil, &autherr.UnsupportedTokenKind{Kind: string(tok.Kind)}
	}
}

func (r *InMemoryRealm) authenticatePassword(user *UserRecord, tok *token.AuthenticationToken) (*account.Account, error) {
	if user.PasswordHash == "" {
		return nil, &autherr.AccountException{Reason: "no password credential on file"}
	}

	match, _, err := verify.VerifyPassword(string(tok.Secret), user.PasswordHash)
	if err != nil {
		return nil, &autherr.AccountException{Reason: err.Error()}
	}

	if !match {
		user.recordFailure(token.CredTypePassword)
		return nil, &autherr.IncorrectCredentials{Identifier: tok.IdentifierValue(), FailedAttempts: user.failures(token.CredTypePassword)}
	}

	return r.buildAccount(user), nil
}

func (r *InMemoryRealm) authenticateTOTP(user *UserRecord, tok *token.AuthenticationToken) (*account.Account, error) {
	if user.TOTPSecret == "" {
		return nil, &autherr.AccountException{Reason: "no totp credential on file"}
	}

	valid, err := verify.VerifyTOTP(tok.Code, user.TOTPSecret, verify.DefaultTOTPSkew)
	if err != nil || !valid {
		user.recordFailure(token.CredTypeTOTP)
		return nil, &autherr.IncorrectCredentials{Identifier: tok.IdentifierValue(), Cause: err, FailedAttempts: user.failures(token.CredTypeTOTP)}
	}

	return r.buildAccount(user), nil
}

func (r *InMemoryRealm) authenticateRecoveryCode(user *UserRecord, tok *token.AuthenticationToken) (*account.Account, error) {
	if len(user.RecoveryCodeHashes) == 0 {
		return nil, &autherr.AccountException{Reason: "no recovery codes on file"}
	}

	idx, ok := verify.VerifyRecoveryCode(tok.RecoveryCode, user.RecoveryCodeHashes)
	if !ok {
		user.recordFailure(token.CredTypeRecoveryCodes)
		return nil, &autherr.IncorrectCredentials{Identifier: tok.IdentifierValue(), FailedAttempts: user.failures(token.CredTypeRecoveryCodes)}
	}

	r.mu.Lock()
	user.RecoveryCodeHashes = append(user.RecoveryCodeHashes[:idx], user.RecoveryCodeHashes[idx+1:]...)
	r.mu.Unlock()

	return r.buildAccount(user), nil
}

func (r *InMemoryRealm) buildAccount(user *UserRecord) *account.Account {
	ids := account.NewIdentifierCollection()
	ids.Add(r.name, user.Username)

	acct := account.NewAccount(ids)

	if user.PasswordHash != "" {
		acct.AuthcInfo[token.CredTypePassword] = account.AuthcInfoEntry{
			Credential:     user.PasswordHash,
			FailedAttempts: user.failures(token.CredTypePassword),
		}
	}

	if user.TOTPSecret != "" {
		acct.AuthcInfo[token.CredTypeTOTP] = account.AuthcInfoEntry{
			Credential:     user.TOTPSecret,
			FailedAttempts: user.failures(token.CredTypeTOTP),
		}
	}

	if len(user.RecoveryCodeHashes) > 0 {
		acct.AuthcInfo[token.CredTypeRecoveryCodes] = account.AuthcInfoEntry{
			Credential:     user.RecoveryCodeHashes,
			FailedAttempts: user.failures(token.CredTypeRecoveryCodes),
		}
	}

	return acct
}

// ClearCachedAuthcInfo implements Realm.
func (r *InMemoryRealm) ClearCachedAuthcInfo(_ context.Context, identifier string) error {
	r.mu.RLock()
	user, ok := r.users[identifier]
	r.mu.RUnlock()

	if !ok {
		return nil
	}

	user.clearFailures()

	return nil
}

// LockAccount implements LockingRealm.
func (r *InMemoryRealm) LockAccount(_ context.Context, identifier string) error {
	r.mu.RLock()
	user, ok := r.users[identifier]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("realm %q: cannot lock unknown identifier %q", r.name, identifier)
	}

	user.mu.Lock()
	user.Locked = true
	user.mu.Unlock()

	return nil
}

var _ LockingRealm = (*InMemoryRealm)(nil)
