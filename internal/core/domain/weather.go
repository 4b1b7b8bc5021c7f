package domain

// Provenance tells which resolver stage produced a weather classification.
type Provenance string

const (
	ProvenanceGPS              Provenance = "gps"
	ProvenanceBackupCity       Provenance = "backup-city"
	ProvenanceSeasonalFallback Provenance = "seasonal-fallback"
	// ProvenanceCaller marks weather supplied with the request, not resolved.
	ProvenanceCaller Provenance = "caller"
)

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherQuery is the raw input to weather resolution. Both fields are optional.
type WeatherQuery struct {
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	City        string       `json:"city,omitempty"`
}

// Observation is a current-conditions reading from a remote weather service.
type Observation struct {
	Description  string
	TemperatureC float64
	Area         string
	Country      string
}

// WeatherReport is the resolved weather together with where it came from.
type WeatherReport struct {
	Weather     Weather    `json:"weather"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Provenance  Provenance `json:"provenance"`
}
