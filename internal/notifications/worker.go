package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

// SMSSender dispatches a single reminder message.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) DispatchResult
}

// WorkerMetrics records worker runs.
type WorkerMetrics interface {
	ObserveReminder(outcome string)
}

// Worker drains due post-procedure reminders and dispatches them. It is the
// consumer the original journal never had.
type Worker struct {
	store   *Store
	sender  SMSSender
	metrics WorkerMetrics
	logger  *logging.Logger
}

// NewWorker creates a reminder dispatch worker.
func NewWorker(store *Store, sender SMSSender, metrics WorkerMetrics, logger *logging.Logger) *Worker {
	if logger == nil {
		logger = logging.Default()
	}
	return &Worker{store: store, sender: sender, metrics: metrics, logger: logger}
}

// ProcessDue finds all pending reminders that are due and dispatches them.
// Returns the number of reminders delivered.
func (w *Worker) ProcessDue(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	due, err := w.store.ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("notifications worker: list due: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	w.logger.Info("notifications worker: processing due reminders", "count", len(due))

	sent := 0
	for i := range due {
		n := &due[i]
		if err := w.processOne(ctx, n); err != nil {
			w.logger.Error("notifications worker: reminder failed", "id", n.ID, "error", err)
			w.observe("failed")
			continue
		}
		w.observe("sent")
		sent++
	}
	return sent, nil
}

func (w *Worker) processOne(ctx context.Context, n *ScheduledNotification) error {
	result := w.sender.SendSMS(ctx, n.Phone, n.Message)
	if !result.Success {
		if err := w.store.MarkFailed(ctx, n.ID, result.Error); err != nil {
			w.logger.Error("notifications worker: mark failed errored", "id", n.ID, "error", err)
		}
		return fmt.Errorf("dispatch: %s", result.Error)
	}
	if err := w.store.MarkSent(ctx, n.ID); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	w.logger.Info("notifications worker: reminder sent",
		"id", n.ID, "appointment_id", n.AppointmentID, "type", n.Type)
	return nil
}

// Run polls for due reminders until the context is cancelled.
func (w *Worker) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("notifications worker: started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notifications worker: stopped")
			return
		case <-ticker.C:
			if _, err := w.ProcessDue(ctx); err != nil {
				w.logger.Error("notifications worker: run failed", "error", err)
			}
		}
	}
}

func (w *Worker) observe(outcome string) {
	if w.metrics != nil {
		w.metrics.ObserveReminder(outcome)
	}
}
