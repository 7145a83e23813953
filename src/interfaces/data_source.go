package interfaces

import (
	"context"

	"live-indices/src/models"
)

// -----------------------------------------------------------------------------
// IDataSource fetches one backend feed.
// -----------------------------------------------------------------------------

type IDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// Kind returns which feed this source reads
	Kind() models.MSourceKind

	// -----------------------------------------------------------------------------

	// Fetch performs one poll. entity is only used by per-entity feeds (chart).
	// Any failure (transport, status, body, success=false) is returned as an error;
	// the caller drops the tick.
	Fetch(ctx context.Context, entity string) (*models.MSourceUpdate, error)
}
