// Copyright (c) 2025 Justin Cranford
//
//

package events_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	yosaiAuthcEvents "github.com/Autochartist/yosai/internal/authc/events"
)

func TestInMemoryBus_PublishRunsSubscribedHandlers(t *testing.T) {
	t.Parallel()

	bus := yosaiAuthcEvents.NewInMemoryBus()

	var received []any

	bus.Subscribe(yosaiAuthcEvents.TopicSucceeded, func(payload any) {
		received = append(received, payload)
	})
	bus.Subscribe(yosaiAuthcEvents.TopicSucceeded, func(payload any) {
		received = append(received, payload)
	})

	bus.Publish(yosaiAuthcEvents.TopicSucceeded, "alice")

	require.Equal(t, []any{"alice", "alice"}, received)
}

func TestInMemoryBus_PublishIgnoresOtherTopics(t *testing.T) {
	t.Parallel()

	bus := yosaiAuthcEvents.NewInMemoryBus()

	called := false
	bus.Subscribe(yosaiAuthcEvents.TopicFailed, func(any) { called = true })

	bus.Publish(yosaiAuthcEvents.TopicSucceeded, "alice")

	require.False(t, called)
}

func TestNoopBus_DoesNothing(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() {
		yosaiAuthcEvents.NoopBus.Subscribe(yosaiAuthcEvents.TopicSucceeded, func(any) {
			t.Fatal("noop bus must not invoke handlers")
		})
		yosaiAuthcEvents.NoopBus.Publish(yosaiAuthcEvents.TopicSucceeded, "alice")
	})
}
