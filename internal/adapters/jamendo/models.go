package jamendo

import "github.com/ewilliams-labs/cadence/internal/core/domain"

type tracksResponse struct {
	Headers responseHeaders `json:"headers"`
	Results []trackResult   `json:"results"`
}

type responseHeaders struct {
	Status       string `json:"status"`
	Code         int    `json:"code"`
	ErrorMessage string `json:"error_message"`
	ResultsCount int    `json:"results_count"`
}

type trackResult struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ArtistName string `json:"artist_name"`
	AlbumName  string `json:"album_name"`
	Duration   int    `json:"duration"`
	Audio      string `json:"audio"`
}

func (t trackResult) toDomain() domain.Track {
	return domain.Track{
		ID:          t.ID,
		Name:        t.Name,
		Artist:      t.ArtistName,
		Album:       t.AlbumName,
		DurationSec: t.Duration,
		AudioURL:    t.Audio,
	}
}
