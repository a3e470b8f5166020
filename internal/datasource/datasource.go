// Package datasource loads bar series from local storage. Loaders return the
// full series in memory; the engine does its own period clipping.
package datasource

import (
	"context"

	"github.com/quantor-lab/quantor/internal/types"
)

// Loader reads the bar series of one symbol from a backing store.
type Loader interface {
	// Load returns all bars in time order.
	Load(ctx context.Context) (types.Series, error)
	// Close releases any resources held by the loader.
	Close() error
}
