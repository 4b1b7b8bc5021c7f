package ports

import (
	"context"
	"errors"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

// ErrCatalogUnavailable indicates the catalogue search could not be completed.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// CatalogSearcher runs a recommendation's parameter set against the music catalogue.
type CatalogSearcher interface {
	SearchTracks(ctx context.Context, params domain.APIParams) ([]domain.Track, error)
}
