// Copyright (c) 2025 Justin Cranford
//
//

package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	yosaiAuthcConfig "github.com/Autochartist/yosai/internal/authc/config"
)

func TestSettings_LockingEnabled(t *testing.T) {
	t.Parallel()

	var zero yosaiAuthcConfig.Settings
	require.False(t, zero.LockingEnabled())
	require.Equal(t, 0, zero.Threshold())

	zeroThreshold := 0
	disabled := yosaiAuthcConfig.Settings{AccountLockThreshold: &zeroThreshold}
	require.False(t, disabled.LockingEnabled())

	threshold := 3
	enabled := yosaiAuthcConfig.Settings{AccountLockThreshold: &threshold}
	require.True(t, enabled.LockingEnabled())
	require.Equal(t, 3, enabled.Threshold())
}
