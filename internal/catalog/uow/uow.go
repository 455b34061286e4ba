// Package uow runs catalog writes as single units of work and classifies
// their failures into fault kinds.
package uow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/metrics"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
)

// Coordinator wraps each write in exactly one transaction. It never retries:
// a failing write fails the same way when reissued.
type Coordinator struct {
	Store   store.Store
	Metrics *metrics.Metrics
}

// Do runs fn inside one transaction and commits it when fn succeeds and ctx is
// still live. Every failure rolls the transaction back and comes out as a
// *fault.Error. op names the write in logs and metrics.
func (c *Coordinator) Do(ctx context.Context, op string, fn func(tx store.Tx) error) error {
	err := c.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		// A request cancelled mid-write must not commit.
		return ctx.Err()
	})
	if err == nil {
		c.Metrics.Write(op, metrics.OutcomeOK)
		return nil
	}

	f := Classify(ctx, err)
	c.Metrics.Write(op, f.Kind.String())
	slogx.FromContext(ctx).Debug("write rolled back",
		slog.String("op", op),
		slog.String("outcome", f.Kind.String()),
	)
	return f
}

// Run is Do for writes that produce a value. The zero T is returned on failure.
func Run[T any](ctx context.Context, c *Coordinator, op string, fn func(tx store.Tx) (T, error)) (T, error) {
	var out T
	err := c.Do(ctx, op, func(tx store.Tx) error {
		v, err := fn(tx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Classify translates err into a fault. Existing faults pass through, store
// violations resolve through the constraint registry and missing rows become
// RowNotFound. Anything else is unclassified and logged with its cause.
func Classify(ctx context.Context, err error) *fault.Error {
	if f, ok := fault.As(err); ok {
		return f
	}

	var v *store.Violation
	if errors.As(err, &v) {
		c := store.ResolveConstraint(v)
		switch v.Kind {
		case store.ViolationUnique:
			return fault.UniqueViolation(c.Field)
		case store.ViolationForeignKey:
			return fault.ForeignKeyViolation(c.Entity)
		}
	}

	var missing *store.MissingError
	if errors.As(err, &missing) {
		return fault.NotFound(missing.Entity, missing.Key)
	}

	l := slogx.FromContext(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		l.Warn("write abandoned", slog.Any("error", err))
	} else {
		l.Error("unclassified storage error", slog.Any("error", err))
	}
	return fault.Unclassified(err)
}
