package outbox

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/metrics"
)

const (
	pollTimeout = time.Second
	sendTimeout = 30 * time.Second
)

// Worker drains a Queue into a mailer.Sender with a fixed pool of goroutines.
type Worker struct {
	queue    Queue
	sender   mailer.Sender
	recorder metrics.Recorder
	size     int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorker(queue Queue, sender mailer.Sender, recorder metrics.Recorder, size int) *Worker {
	if size <= 0 {
		size = 1
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Worker{queue: queue, sender: sender, recorder: recorder, size: size}
}

func (w *Worker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	for i := 0; i < w.size; i++ {
		w.wg.Add(1)
		go w.run(ctx, i)
	}
	slog.Info("outbox workers started", "workers", w.size)
}

// Stop halts polling and waits for in-flight sends to finish.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	slog.Info("outbox workers stopped")
}

func (w *Worker) run(ctx context.Context, id int) {
	defer w.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}

		e, err := w.queue.Dequeue(ctx, pollTimeout)
		switch {
		case err == nil:
			w.deliver(e)
		case errors.Is(err, ErrEmpty):
		case ctx.Err() != nil:
			return
		default:
			slog.Error("outbox dequeue failed", "worker", id, "error", err)
			select {
			case <-time.After(pollTimeout):
			case <-ctx.Done():
				return
			}
		}
	}
}

// deliver uses its own deadline so a shutdown does not cut a send in half.
func (w *Worker) deliver(e mailer.Email) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := w.sender.Send(ctx, e); err != nil {
		w.recorder.RecordEmailFailed("send")
		slog.Error("email delivery failed", "to", e.To, "subject", e.Subject, "error", err)
		return
	}
	w.recorder.RecordEmailSent()
}
