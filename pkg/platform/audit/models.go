package audit

import (
	"context"
	"time"

	id "legado/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	UserID    id.UserID
	Subject   string
	Action    string
	Reason    string
	RequestID string
}

// Action names recorded by the service.
const (
	EventLoginSucceeded = "login_succeeded"
	EventLoginFailed    = "login_failed"
	EventLogout         = "logout"

	EventEstateCreated = "estate_created"
	EventEstateUpdated = "estate_updated"
	EventEstateDeleted = "estate_deleted"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher is the write side handed to services. The worker decouples
// request handling from whatever sink is behind the Store.
type Publisher interface {
	Publish(event Event)
}

// ChannelPublisher buffers events onto a channel drained by the worker.
// Publish never blocks the request path: when the buffer is full the event
// is dropped, matching the policy that audit must not take the service down.
type ChannelPublisher struct {
	ch chan Event
}

// NewChannelPublisher creates a publisher with the given buffer size.
func NewChannelPublisher(buffer int) *ChannelPublisher {
	return &ChannelPublisher{ch: make(chan Event, buffer)}
}

func (p *ChannelPublisher) Publish(event Event) {
	select {
	case p.ch <- event:
	default:
	}
}

// Events exposes the read side for the worker.
func (p *ChannelPublisher) Events() <-chan Event { return p.ch }

// NopPublisher discards events; used when auditing is disabled in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
