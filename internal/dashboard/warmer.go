package dashboard

import (
	"context"
	"log/slog"
	"time"
)

// Warmer recomputes the four dashboard views on a periodic interval so the
// first admin request after an invalidation doesn't pay the full fan-out.
// It is stateless: each tick goes through the same read-through path as a
// live request, so a still-valid cache entry makes the tick a no-op.
type Warmer struct {
	interval time.Duration
	svc      *Service
}

func NewWarmer(interval time.Duration, svc *Service) *Warmer {
	return &Warmer{interval: interval, svc: svc}
}

// Start begins periodic warming. Runs until context is cancelled.
func (w *Warmer) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("[Warmer] Starting dashboard cache warmer", "interval", w.interval)

	// Warm once at startup so the views are ready before the first tick.
	w.warm(ctx)

	for {
		select {
		case <-ticker.C:
			w.warm(ctx)
		case <-ctx.Done():
			slog.Info("[Warmer] Stopping (context cancelled)")
			return nil
		}
	}
}

func (w *Warmer) warm(ctx context.Context) {
	views := []struct {
		name string
		load func(context.Context) error
	}{
		{"stats", func(ctx context.Context) error { _, err := w.svc.Stats(ctx); return err }},
		{"pie", func(ctx context.Context) error { _, err := w.svc.Pie(ctx); return err }},
		{"bar", func(ctx context.Context) error { _, err := w.svc.Bar(ctx); return err }},
		{"line", func(ctx context.Context) error { _, err := w.svc.Line(ctx); return err }},
	}

	for _, view := range views {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if err := view.load(ctx); err != nil {
			slog.Warn("[Warmer] Failed to warm view", "view", view.name, "error", err)
		}
	}
}
