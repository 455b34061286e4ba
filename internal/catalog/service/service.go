// Package service holds the catalog use cases. Reads go straight to the
// store; writes go through a uow.Coordinator. Every error returned from this
// package is a *fault.Error.
package service

import (
	"context"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/uow"
)

// classify turns a store error from a read into a fault.
func classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	return uow.Classify(ctx, err)
}
