package ports

import (
	"context"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

// WeatherLookup fetches current conditions from a remote weather service.
// Implementations must honour ctx cancellation; the resolver bounds each call.
type WeatherLookup interface {
	ByCoordinates(ctx context.Context, lat, lon float64) (domain.Observation, error)
	ByCity(ctx context.Context, city string) (domain.Observation, error)
}
