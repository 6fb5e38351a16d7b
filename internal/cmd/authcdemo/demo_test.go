// Copyright (c) 2025 Justin Cranford
//
//

package demo

import (
	"bytes"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestDemo_CompletesFullMFASequence(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	code, err := totp.GenerateCode(demoTOTPSecret, time.Now().UTC())
	require.NoError(t, err)

	exitCode := Demo([]string{"--code", code}, &stdout, &stderr)
	require.Equal(t, ExitSuccess, exitCode)
	require.Empty(t, stderr.String())
	require.Contains(t, stdout.String(), "authenticated as alice")
}

func TestDemo_RejectsUnparseableFlags(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	exitCode := Demo([]string{"--not-a-real-flag"}, &stdout, &stderr)
	require.Equal(t, ExitFailure, exitCode)
}
