// internal/tracking/tracker.go
package tracking

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"portfolio-backend/internal/metrics"
)

// Incrementer is the part of the store that bumps engagement counters.
// Both methods run a single server-side increment.
type Incrementer interface {
	IncrementViewCount(ctx context.Context, id uuid.UUID) (int64, error)
	IncrementClickCount(ctx context.Context, id uuid.UUID) (int64, error)
}

// Tracker records project views and clicks. Tracking is best-effort: a
// failed increment is logged and counted, never returned to the visitor.
type Tracker struct {
	store  Incrementer
	logger *slog.Logger
}

func NewTracker(store Incrementer, logger *slog.Logger) *Tracker {
	return &Tracker{store: store, logger: logger}
}

// TrackView adds one to the project's view_count.
func (t *Tracker) TrackView(ctx context.Context, projectID uuid.UUID) {
	_, err := t.store.IncrementViewCount(ctx, projectID)
	t.record("view", projectID, err)
}

// TrackClick adds one to the project's click_count.
func (t *Tracker) TrackClick(ctx context.Context, projectID uuid.UUID) {
	_, err := t.store.IncrementClickCount(ctx, projectID)
	t.record("click", projectID, err)
}

func (t *Tracker) record(event string, projectID uuid.UUID, err error) {
	metrics.TrackingEvents.WithLabelValues(event, strconv.FormatBool(err == nil)).Inc()
	if err != nil {
		t.logger.Warn("Failed to track project event", "event", event, "project_id", projectID, "error", err)
	}
}
