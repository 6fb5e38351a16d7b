// Copyright (c) 2025 Justin Cranford
//
//

// Package demo wires a two-factor Authenticator and drives it from
// the command line, the way cmd/identity-demo exercises its own
// subsystem end to end.
package demo

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/pquerna/otp/totp"

	yosaiAuthcAutherr "github.com/Autochartist/yosai/internal/authc/autherr"
	yosaiAuthcEngine "github.com/Autochartist/yosai/internal/authc/engine"
	yosaiAuthcEvents "github.com/Autochartist/yosai/internal/authc/events"
	yosaiAuthcRealm "github.com/Autochartist/yosai/internal/authc/realm"
	yosaiAuthcToken "github.com/Autochartist/yosai/internal/authc/token"
	yosaiAuthcVerify "github.com/Autochartist/yosai/internal/authc/verify"
)

// Exit codes, mirroring the teacher's cmd demo convention.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

const (
	demoUsername = "alice"
	demoPassword = "correct horse battery staple"
	demoRealm    = "primary"
	// cspell:disable-next-line
	demoTOTPSecret = "JBSWY3DPEHPK3PXP"
)

// Demo wires an in-memory realm supporting password and TOTP, builds
// an Authenticator with locking enabled, and runs a two-round login
// (password, then TOTP) printing the outcome of each round to stdout.
// It returns ExitSuccess if the full MFA sequence completes.
func Demo(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("authcdemo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	code := fs.String("code", "", "TOTP code to submit instead of one generated on the fly")
	if err := fs.Parse(args); err != nil {
		return ExitFailure
	}

	logger := slog.New(slog.NewTextHandler(stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	realm := buildRealm()
	bus := yosaiAuthcEvents.NewInMemoryBus()

	for _, topic := range []string{yosaiAuthcEvents.TopicSucceeded, yosaiAuthcEvents.TopicProgress, yosaiAuthcEvents.TopicFailed} {
		t := topic
		bus.Subscribe(t, func(payload any) {
			fmt.Fprintf(stdout, "event: %s payload=%v\n", t, payload)
		})
	}

	authenticator, err := yosaiAuthcEngine.NewBuilder().
		WithEventBus(bus).
		WithLogger(logger).
		Build([]yosaiAuthcRealm.Realm{realm})
	if err != nil {
		fmt.Fprintf(stderr, "building authenticator: %v\n", err)
		return ExitFailure
	}

	ctx := context.Background()

	passTok, err := yosaiAuthcToken.NewPasswordToken(demoUsername, demoPassword, false, "127.0.0.1")
	if err != nil {
		fmt.Fprintf(stderr, "building password token: %v\n", err)
		return ExitFailure
	}

	_, err = authenticator.AuthenticateAccount(ctx, nil, passTok)

	var progress *yosaiAuthcAutherr.AdditionalAuthenticationRequired
	if !errors.As(err, &progress) {
		fmt.Fprintf(stderr, "expected an MFA challenge after password round, got: %v\n", err)
		return ExitFailure
	}

	fmt.Fprintf(stdout, "password round ok, awaiting second factor for %s\n", progress.AccountID.PrimaryIdentifier())

	var totpCode int

	if *code == "" {
		totpCode, err = generateDemoCode()
		if err != nil {
			fmt.Fprintf(stderr, "generating totp code: %v\n", err)
			return ExitFailure
		}
	} else {
		totpCode, err = strconv.Atoi(*code)
		if err != nil {
			fmt.Fprintf(stderr, "parsing --code: %v\n", err)
			return ExitFailure
		}
	}

	totpTok, err := yosaiAuthcToken.NewTOTPToken("", totpCode, false, "127.0.0.1")
	if err != nil {
		fmt.Fprintf(stderr, "building totp token: %v\n", err)
		return ExitFailure
	}

	prior := progress.AccountID

	ids, err := authenticator.AuthenticateAccount(ctx, &prior, totpTok)
	if err != nil {
		fmt.Fprintf(stderr, "second factor rejected: %v\n", err)
		return ExitFailure
	}

	fmt.Fprintf(stdout, "authenticated as %s\n", ids.PrimaryIdentifier())

	return ExitSuccess
}

func buildRealm() *yosaiAuthcRealm.InMemoryRealm {
	hash, err := yosaiAuthcVerify.HashPassword(demoPassword)
	if err != nil {
		panic(fmt.Sprintf("authcdemo: hashing demo password: %v", err))
	}

	r := yosaiAuthcRealm.NewInMemoryRealm(demoRealm, yosaiAuthcToken.KindPassword, yosaiAuthcToken.KindTOTP)
	r.AddUser(demoUsername, func(u *yosaiAuthcRealm.UserRecord) {
		u.PasswordHash = hash
		u.TOTPSecret = demoTOTPSecret
	})

	return r
}

func generateDemoCode() (int, error) {
	code, err := totp.GenerateCode(demoTOTPSecret, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(code)
}
