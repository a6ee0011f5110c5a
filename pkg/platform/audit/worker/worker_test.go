package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "legado/pkg/domain"
	audit "legado/pkg/platform/audit"
	"legado/pkg/platform/audit/store/memory"
)

func TestWorkerDrainsPublishedEvents(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := audit.NewChannelPublisher(16)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(store, pub.Events(), logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	userID := id.NewUserID()
	pub.Publish(audit.Event{
		Timestamp: time.Now(),
		UserID:    userID,
		Action:    audit.EventEstateCreated,
		Subject:   "estate-1",
	})
	pub.Publish(audit.Event{
		Timestamp: time.Now(),
		UserID:    userID,
		Action:    audit.EventEstateDeleted,
		Subject:   "estate-1",
	})

	require.Eventually(t, func() bool {
		events, err := store.ListByUser(context.Background(), userID)
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	events, err := store.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, audit.EventEstateCreated, events[0].Action)
	assert.Equal(t, audit.EventEstateDeleted, events[1].Action)
}

func TestWorkerStopsOnCancel(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := audit.NewChannelPublisher(1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	w := New(store, pub.Events(), logger)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}

func TestPublishNeverBlocksWhenBufferFull(t *testing.T) {
	pub := audit.NewChannelPublisher(1)
	pub.Publish(audit.Event{Action: audit.EventLogout})

	done := make(chan struct{})
	go func() {
		defer close(done)
		pub.Publish(audit.Event{Action: audit.EventLogout}) // buffer full, dropped
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on full buffer")
	}
}
