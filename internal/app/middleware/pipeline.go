package middleware

import (
	"context"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/queries"
)

// CommandMiddleware decorates a command bus. The booking write path runs
// Idempotency, then Transaction, then OutboxFlush around every dispatch.
type CommandMiddleware func(next commands.Bus) commands.Bus

// QueryMiddleware decorates a query bus.
type QueryMiddleware func(next queries.Bus) queries.Bus

// ChainCommands applies the middleware around base, first listed outermost.
func ChainCommands(base commands.Bus, mws ...CommandMiddleware) commands.Bus {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	return wrapped
}

// ChainQueries applies the middleware around base, first listed outermost.
func ChainQueries(base queries.Bus, mws ...QueryMiddleware) queries.Bus {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	return wrapped
}

// dispatchFunc lets a closure act as a command bus, sparing each
// middleware its own wrapper struct.
type dispatchFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f dispatchFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

func forward(next commands.Bus) dispatchFunc {
	return func(ctx context.Context, cmd commands.Command) (any, error) {
		return next.Dispatch(ctx, cmd)
	}
}

type askFunc func(ctx context.Context, query queries.Query) (any, error)

func (f askFunc) Ask(ctx context.Context, q queries.Query) (any, error) {
	return f(ctx, q)
}

func forwardQuery(next queries.Bus) askFunc {
	return func(ctx context.Context, q queries.Query) (any, error) {
		return next.Ask(ctx, q)
	}
}
