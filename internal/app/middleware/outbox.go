package middleware

import (
	"context"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/outbox"
)

// OutboxFlush pushes the events a handler staged once the dispatch
// succeeds. A failed command never reaches the flush, so its events
// stay out of the stream.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := forward(next)
		return dispatchFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
