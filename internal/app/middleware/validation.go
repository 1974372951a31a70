package middleware

import (
	"context"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/queries"
)

// Validator checks a command or query before its handler runs.
type Validator interface {
	Validate(ctx context.Context, message any) error
}

// Validation rejects invalid commands before any unit of work opens.
func Validation(v Validator) CommandMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := forward(next)
		return dispatchFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := v.Validate(ctx, cmd); err != nil {
				return nil, err
			}
			return nextFn(ctx, cmd)
		})
	}
}

// QueryValidation is the read-side counterpart of Validation.
func QueryValidation(v Validator) QueryMiddleware {
	if v == nil {
		panic("middleware: validator required")
	}
	return func(next queries.Bus) queries.Bus {
		nextFn := forwardQuery(next)
		return askFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := v.Validate(ctx, q); err != nil {
				return nil, err
			}
			return nextFn(ctx, q)
		})
	}
}
