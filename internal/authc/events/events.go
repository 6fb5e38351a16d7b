// Copyright (c) 2025 Justin Cranford
//
//

// Package events defines the publish/subscribe contract the
// Authenticator uses to announce lifecycle events (spec §4.7, §6) and
// provides a transport-agnostic in-memory bus for hosts that haven't
// wired a real one yet. The actual transport (NATS, Kafka, ...) is an
// external collaborator per spec.md's Non-goals.
package events

import (
	"sync"

	"github.com/Autochartist/yosai/internal/authc/account"
)

// Topics published by the engine.
const (
	TopicProgress          = "AUTHENTICATION.PROGRESS"
	TopicSucceeded         = "AUTHENTICATION.SUCCEEDED"
	TopicFailed            = "AUTHENTICATION.FAILED"
	TopicAccountNotFound   = "AUTHENTICATION.ACCOUNT_NOT_FOUND"
	TopicAccountLocked     = "AUTHENTICATION.ACCOUNT_LOCKED"
)

// Topics consumed by the engine.
const (
	TopicSessionExpire = "SESSION.EXPIRE"
	TopicSessionStop   = "SESSION.STOP"
)

// Handler receives a published payload. The payload's concrete type is
// topic-dependent; session handlers expect a SessionEventPayload.
type Handler func(payload any)

// Bus is the publish/subscribe contract the Authenticator depends on.
type Bus interface {
	Subscribe(topic string, handler Handler)
	Publish(topic string, payload any)
}

// InMemoryBus is a mutex-guarded, in-process Bus suitable for tests and
// for hosts that haven't wired a real transport.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewInMemoryBus returns an empty bus.
func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[string][]Handler)}
}

// Subscribe implements Bus.
func (b *InMemoryBus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish implements Bus. Handlers run synchronously, in subscription
// order, on the publishing goroutine.
func (b *InMemoryBus) Publish(topic string, payload any) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[topic]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}

// noopBus is the degrade-gracefully default: publish does nothing,
// subscribe is dropped. The Authenticator logs a warning the first
// time it falls back to this (spec §4.7: "publication is a no-op with
// a warning, never fatal").
type noopBus struct{}

// NoopBus is the zero-configuration Bus used when a host hasn't wired
// one yet.
var NoopBus Bus = noopBus{}

func (noopBus) Subscribe(string, Handler) {}
func (noopBus) Publish(string, any)       {}

// SessionEventPayload is the payload carried by TopicSessionExpire and
// TopicSessionStop: the identifier set whose cached authc info should
// be evicted from every contributing realm.
type SessionEventPayload struct {
	Identifiers account.IdentifierCollection
}
