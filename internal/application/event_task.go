package application

import (
	"context"
	"fmt"
	"time"

	"tg-config-bot/internal/domain/model"
	"tg-config-bot/internal/infra/logging"
	"tg-config-bot/internal/infra/metrics"
	"tg-config-bot/internal/infra/worker"
)

// Dispatcher handles one inbound event.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev model.Event) error
}

// EventTask wraps the handling of ev as a pool task with its own deadline
// and trace id.
func EventTask(d Dispatcher, ev model.Event, timeout time.Duration) worker.Task {
	return func(ctx context.Context) error {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		ctx = logging.WithTraceID(ctx, logging.NewTraceID())
		ctx = logging.WithEvent(ctx, ev.Kind.String())
		if id := ev.SenderID(); id != 0 {
			ctx = logging.WithTgID(ctx, id)
		}

		start := time.Now()
		err := d.Dispatch(ctx, ev)
		metrics.ObserveHandler(ev.Kind.String(), time.Since(start), err == nil)
		if err != nil {
			return fmt.Errorf("%s update %d: %w", ev.Kind, ev.UpdateID, err)
		}
		return nil
	}
}
