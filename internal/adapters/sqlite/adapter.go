// Package sqlite provides a SQLite-backed implementation of the history port.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/cadence/internal/core/domain"
	"github.com/ewilliams-labs/cadence/internal/core/ports"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Adapter implements the history repository port for SQLite
type Adapter struct {
	db *sql.DB
}

// compile-time interface assertion
var _ ports.HistoryRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// SaveRecommendation stores rec and the weather it was built for. A missing
// id is filled in.
func (a *Adapter) SaveRecommendation(ctx context.Context, rec domain.MusicRecommendation, weather domain.WeatherReport) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	params, err := json.Marshal(rec.APIParams)
	if err != nil {
		return fmt.Errorf("failed to encode api params: %w", err)
	}
	explanation, err := json.Marshal(rec.Explanation)
	if err != nil {
		return fmt.Errorf("failed to encode explanation: %w", err)
	}
	breakdown, err := json.Marshal(rec.RatioBreakdown)
	if err != nil {
		return fmt.Errorf("failed to encode ratio breakdown: %w", err)
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO recommendations (
			id, emotion, activity, weather, time_of_day,
			weather_provenance, weather_description, weather_location,
			confidence, api_params, explanation, ratio_breakdown, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			confidence=excluded.confidence,
			api_params=excluded.api_params,
			explanation=excluded.explanation,
			ratio_breakdown=excluded.ratio_breakdown
	`,
		rec.ID,
		rec.Emotion.String(),
		rec.Activity.String(),
		rec.Weather.String(),
		rec.TimeOfDay.String(),
		string(weather.Provenance),
		weather.Description,
		weather.Location,
		rec.Confidence,
		string(params),
		string(explanation),
		string(breakdown),
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save recommendation %s: %w", rec.ID, err)
	}
	return nil
}

const recommendationColumns = `
	id, emotion, activity, weather, time_of_day,
	confidence, api_params, explanation, ratio_breakdown, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(row rowScanner) (domain.MusicRecommendation, error) {
	var (
		rec                                domain.MusicRecommendation
		emotion, activity, weather, tod    string
		params, explanation, breakdown, ts string
	)
	if err := row.Scan(&rec.ID, &emotion, &activity, &weather, &tod,
		&rec.Confidence, &params, &explanation, &breakdown, &ts); err != nil {
		return domain.MusicRecommendation{}, err
	}

	var err error
	if rec.Emotion, err = domain.ParseEmotion(emotion); err != nil {
		return domain.MusicRecommendation{}, err
	}
	if rec.Activity, err = domain.ParseActivity(activity); err != nil {
		return domain.MusicRecommendation{}, err
	}
	if rec.Weather, err = domain.ParseWeather(weather); err != nil {
		return domain.MusicRecommendation{}, err
	}
	if rec.TimeOfDay, err = domain.ParseTimeOfDay(tod); err != nil {
		return domain.MusicRecommendation{}, err
	}
	if err := json.Unmarshal([]byte(params), &rec.APIParams); err != nil {
		return domain.MusicRecommendation{}, fmt.Errorf("decode api params: %w", err)
	}
	if err := json.Unmarshal([]byte(explanation), &rec.Explanation); err != nil {
		return domain.MusicRecommendation{}, fmt.Errorf("decode explanation: %w", err)
	}
	if err := json.Unmarshal([]byte(breakdown), &rec.RatioBreakdown); err != nil {
		return domain.MusicRecommendation{}, fmt.Errorf("decode ratio breakdown: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(timeLayout, ts); err != nil {
		return domain.MusicRecommendation{}, fmt.Errorf("decode created_at: %w", err)
	}
	return rec, nil
}

func (a *Adapter) GetRecommendation(ctx context.Context, id string) (domain.MusicRecommendation, error) {
	row := a.db.QueryRowContext(ctx, "SELECT"+recommendationColumns+" FROM recommendations WHERE id = ?", id)
	rec, err := scanRecommendation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MusicRecommendation{}, ports.ErrNotFound
		}
		return domain.MusicRecommendation{}, fmt.Errorf("failed to load recommendation: %w", err)
	}
	return rec, nil
}

// ListRecommendations returns up to limit recommendations, newest first.
func (a *Adapter) ListRecommendations(ctx context.Context, limit int) ([]domain.MusicRecommendation, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT"+recommendationColumns+" FROM recommendations ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	recs := []domain.MusicRecommendation{}
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}
	return recs, nil
}

// SaveTrackEnergy records a track's measured energy against a recommendation.
func (a *Adapter) SaveTrackEnergy(ctx context.Context, recommendationID string, track domain.Track) error {
	res, err := a.db.ExecContext(ctx, `
		INSERT INTO track_energy (recommendation_id, track_id, name, artist, audio_url, energy, measured_at)
		SELECT ?, ?, ?, ?, ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM recommendations WHERE id = ?)
		ON CONFLICT(recommendation_id, track_id) DO UPDATE SET
			energy=excluded.energy,
			measured_at=excluded.measured_at
	`,
		recommendationID, track.ID, track.Name, track.Artist, track.AudioURL, track.Energy,
		time.Now().UTC().Format(timeLayout),
		recommendationID,
	)
	if err != nil {
		return fmt.Errorf("failed to save energy for track %s: %w", track.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("recommendation %s: %w", recommendationID, ports.ErrNotFound)
	}
	return nil
}

// AnalysedTracks lists the measured tracks of a recommendation.
func (a *Adapter) AnalysedTracks(ctx context.Context, recommendationID string) ([]domain.Track, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT track_id, name, artist, audio_url, energy
		FROM track_energy
		WHERE recommendation_id = ?
		ORDER BY measured_at ASC, rowid ASC
	`, recommendationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load analysed tracks: %w", err)
	}
	defer rows.Close()

	tracks := []domain.Track{}
	for rows.Next() {
		var (
			t                   domain.Track
			name, artist, audio sql.NullString
		)
		if err := rows.Scan(&t.ID, &name, &artist, &audio, &t.Energy); err != nil {
			return nil, fmt.Errorf("failed to scan analysed track: %w", err)
		}
		t.Name, t.Artist, t.AudioURL = name.String, artist.String, audio.String
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analysed tracks: %w", err)
	}
	return tracks, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS recommendations (
		id TEXT PRIMARY KEY,
		emotion TEXT NOT NULL,
		activity TEXT NOT NULL,
		weather TEXT NOT NULL,
		time_of_day TEXT NOT NULL,
		weather_provenance TEXT,
		weather_description TEXT,
		weather_location TEXT,
		confidence REAL NOT NULL,
		api_params TEXT NOT NULL,
		explanation TEXT NOT NULL,
		ratio_breakdown TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_recommendations_created_at ON recommendations(created_at);

	CREATE TABLE IF NOT EXISTS track_energy (
		recommendation_id TEXT NOT NULL,
		track_id TEXT NOT NULL,
		name TEXT,
		artist TEXT,
		audio_url TEXT,
		energy REAL NOT NULL,
		measured_at TEXT NOT NULL,
		PRIMARY KEY (recommendation_id, track_id),
		FOREIGN KEY(recommendation_id) REFERENCES recommendations(id) ON DELETE CASCADE
	);
	`
	_, err := a.db.Exec(query)
	return err
}
