package db

import (
	"context"
	"time"
)

// Store is the database facade every driver implements.
type Store interface {
	Pinger
	RecordFinder
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides FT index lifecycle operations for drivers that need
// a secondary index before they can answer queries.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}
