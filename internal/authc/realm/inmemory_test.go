// Copyright (c) 2025 Justin Cranford
//
//

package realm_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	yosaiAuthcAutherr "github.com/Autochartist/yosai/internal/authc/autherr"
	yosaiAuthcRealm "github.com/Autochartist/yosai/internal/authc/realm"
	yosaiAuthcToken "github.com/Autochartist/yosai/internal/authc/token"
	yosaiAuthcVerify "github.com/Autochartist/yosai/internal/authc/verify"
)

func TestInMemoryRealm_AuthenticatePassword(t *testing.T) {
	t.Parallel()

	r := yosaiAuthcRealm.NewInMemoryRealm("primary", yosaiAuthcToken.KindPassword)

	hash, err := yosaiAuthcVerify.HashPassword("hunter2")
	require.NoError(t, err)

	r.AddUser("alice", func(u *yosaiAuthcRealm.UserRecord) {
		u.PasswordHash = hash
	})

	tok, err := yosaiAuthcToken.NewPasswordToken("alice", "hunter2", false, "")
	require.NoError(t, err)

	acct, err := r.AuthenticateAccount(context.Background(), tok)
	require.NoError(t, err)
	require.NotNil(t, acct)
	require.Equal(t, 1, acct.MFADepth())
}

func TestInMemoryRealm_AuthenticatePassword_WrongPasswordRecordsFailure(t *testing.T) {
	t.Parallel()

	r := yosaiAuthcRealm.NewInMemoryRealm("primary", yosaiAuthcToken.KindPassword)

	hash, err := yosaiAuthcVerify.HashPassword("hunter2")
	require.NoError(t, err)

	r.AddUser("alice", func(u *yosaiAuthcRealm.UserRecord) {
		u.PasswordHash = hash
	})

	tok, err := yosaiAuthcToken.NewPasswordToken("alice", "wrong", false, "")
	require.NoError(t, err)

	_, err = r.AuthenticateAccount(context.Background(), tok)

	var incorrect *yosaiAuthcAutherr.IncorrectCredentials
	require.ErrorAs(t, err, &incorrect)
	require.Len(t, incorrect.FailedAttempts, 1)
}

func TestInMemoryRealm_UnknownUserReturnsNilNil(t *testing.T) {
	t.Parallel()

	r := yosaiAuthcRealm.NewInMemoryRealm("primary", yosaiAuthcToken.KindPassword)

	tok, err := yosaiAuthcToken.NewPasswordToken("ghost", "whatever", false, "")
	require.NoError(t, err)

	acct, err := r.AuthenticateAccount(context.Background(), tok)
	require.NoError(t, err)
	require.Nil(t, acct)
}

func TestInMemoryRealm_LockedAccountRejected(t *testing.T) {
	t.Parallel()

	r := yosaiAuthcRealm.NewInMemoryRealm("primary", yosaiAuthcToken.KindPassword)

	hash, err := yosaiAuthcVerify.HashPassword("hunter2")
	require.NoError(t, err)

	r.AddUser("alice", func(u *yosaiAuthcRealm.UserRecord) {
		u.PasswordHash = hash
	})

	require.NoError(t, r.LockAccount(context.Background(), "alice"))

	tok, err := yosaiAuthcToken.NewPasswordToken("alice", "hunter2", false, "")
	require.NoError(t, err)

	_, err = r.AuthenticateAccount(context.Background(), tok)

	var locked *yosaiAuthcAutherr.LockedAccount
	require.ErrorAs(t, err, &locked)
}

func TestInMemoryRealm_AuthenticateTOTP(t *testing.T) {
	t.Parallel()

	const secret = "JBSWY3DPEHPK3PXP" // cspell:disable-line

	r := yosaiAuthcRealm.NewInMemoryRealm("mfa", yosaiAuthcToken.KindTOTP)
	r.AddUser("alice", func(u *yosaiAuthcRealm.UserRecord) {
		u.TOTPSecret = secret
	})

	code, err := totp.GenerateCode(secret, time.Now().UTC())
	require.NoError(t, err)

	codeInt, err := strconv.Atoi(code)
	require.NoError(t, err)

	tok, err := yosaiAuthcToken.NewTOTPToken("alice", codeInt, false, "")
	require.NoError(t, err)

	acct, err := r.AuthenticateAccount(context.Background(), tok)
	require.NoError(t, err)
	require.NotNil(t, acct)
}

func TestInMemoryRealm_AuthenticateRecoveryCode_OneTimeUse(t *testing.T) {
	t.Parallel()

	hash, err := yosaiAuthcVerify.HashRecoveryCode("ABCDE-FGHIJ")
	require.NoError(t, err)

	r := yosaiAuthcRealm.NewInMemoryRealm("mfa", yosaiAuthcToken.KindRecoveryCode)
	r.AddUser("alice", func(u *yosaiAuthcRealm.UserRecord) {
		u.RecoveryCodeHashes = []string{hash}
	})

	tok, err := yosaiAuthcToken.NewRecoveryCodeToken("alice", "ABCDE-FGHIJ", "")
	require.NoError(t, err)

	acct, err := r.AuthenticateAccount(context.Background(), tok)
	require.NoError(t, err)
	require.NotNil(t, acct)

	// Second use of the same code must fail: it was consumed.
	tok2, err := yosaiAuthcToken.NewRecoveryCodeToken("alice", "ABCDE-FGHIJ", "")
	require.NoError(t, err)

	_, err = r.AuthenticateAccount(context.Background(), tok2)
	require.Error(t, err)
}

func TestInMemoryRealm_ClearCachedAuthcInfo(t *testing.T) {
	t.Parallel()

	r := yosaiAuthcRealm.NewInMemoryRealm("primary", yosaiAuthcToken.KindPassword)

	hash, err := yosaiAuthcVerify.HashPassword("hunter2")
	require.NoError(t, err)

	user := r.AddUser("alice", func(u *yosaiAuthcRealm.UserRecord) {
		u.PasswordHash = hash
	})

	user.SeedFailedAttempts(yosaiAuthcToken.CredTypePassword, []time.Time{time.Now().UTC()})

	require.NoError(t, r.ClearCachedAuthcInfo(context.Background(), "alice"))

	tok, err := yosaiAuthcToken.NewPasswordToken("alice", "hunter2", false, "")
	require.NoError(t, err)

	acct, err := r.AuthenticateAccount(context.Background(), tok)
	require.NoError(t, err)
	require.Empty(t, acct.FailedAttempts(yosaiAuthcToken.CredTypePassword))
}
