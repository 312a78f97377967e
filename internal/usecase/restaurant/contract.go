package restaurant

import (
	"context"

	domrest "github.com/kailas-cloud/restodex/internal/domain/restaurant"
)

// Finder loads a single restaurant by its external id.
type Finder interface {
	GetByExternalID(ctx context.Context, id string) (domrest.Record, error)
}

// FailureCounter records failures absorbed into "not found".
type FailureCounter interface {
	Inc()
}
