package worker

import (
	"context"
	"log/slog"

	audit "legado/pkg/platform/audit"
)

// Worker drains audit events from the publisher channel into the store.
// A store failure is logged, not fatal: losing one audit write must not stop
// the drain loop or the service.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func New(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run processes events until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.Error("audit append failed",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}
