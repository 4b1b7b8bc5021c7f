package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
	"github.com/ewilliams-labs/cadence/internal/core/ports"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func sampleRecommendation(id string, at time.Time) domain.MusicRecommendation {
	return domain.MusicRecommendation{
		ID:        id,
		Emotion:   domain.Happy,
		Activity:  domain.Exercise,
		Weather:   domain.Sunny,
		TimeOfDay: domain.Morning,
		APIParams: domain.APIParams{
			domain.ParamTags:  "uplifting+energetic",
			domain.ParamSpeed: "high",
		},
		Explanation: []domain.RecommendationScore{
			{Parameter: "speed", Value: "high", FinalScore: 0.7, Reasoning: "speed: ..."},
		},
		RatioBreakdown: []domain.RatioBreakdown{
			{Parameter: "speed", EmotionContribution: 0.35, WeatherContribution: 0.21, TimeContribution: 0.12, FinalValue: "high"},
		},
		Confidence: 95,
		CreatedAt:  at,
	}
}

var sunnyReport = domain.WeatherReport{
	Weather:     domain.Sunny,
	Description: "Sunny, 21°C",
	Location:    "Seoul, South Korea",
	Provenance:  domain.ProvenanceGPS,
}

func TestAdapter_GetRecommendation(t *testing.T) {
	base := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		setup   func(t *testing.T, a *Adapter) string
		wantErr error
	}{
		{
			name: "not found",
			setup: func(t *testing.T, a *Adapter) string {
				return "missing"
			},
			wantErr: ports.ErrNotFound,
		},
		{
			name: "round trips a recommendation",
			setup: func(t *testing.T, a *Adapter) string {
				if err := a.SaveRecommendation(context.Background(), sampleRecommendation("rec-1", base), sunnyReport); err != nil {
					t.Fatalf("save: %v", err)
				}
				return "rec-1"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t)
			id := tt.setup(t, a)

			got, err := a.GetRecommendation(context.Background(), id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := sampleRecommendation(id, base)
			if got.ID != want.ID || got.Emotion != want.Emotion || got.Activity != want.Activity ||
				got.Weather != want.Weather || got.TimeOfDay != want.TimeOfDay {
				t.Errorf("enums: got %+v", got)
			}
			if got.Confidence != want.Confidence {
				t.Errorf("confidence: got %v, want %v", got.Confidence, want.Confidence)
			}
			if got.APIParams[domain.ParamTags] != "uplifting+energetic" {
				t.Errorf("api params: got %v", got.APIParams)
			}
			if len(got.Explanation) != 1 || got.Explanation[0].Reasoning != "speed: ..." {
				t.Errorf("explanation: got %+v", got.Explanation)
			}
			if len(got.RatioBreakdown) != 1 || got.RatioBreakdown[0].WeatherContribution != 0.21 {
				t.Errorf("breakdown: got %+v", got.RatioBreakdown)
			}
			if !got.CreatedAt.Equal(base) {
				t.Errorf("created at: got %v, want %v", got.CreatedAt, base)
			}
		})
	}
}

func TestAdapter_ListRecommendations(t *testing.T) {
	a := newTestAdapter(t)
	base := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		// sub-second offsets exercise the fixed-width timestamp ordering
		at := base.Add(time.Duration(i) * 500 * time.Millisecond)
		if err := a.SaveRecommendation(context.Background(), sampleRecommendation(id, at), sunnyReport); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	tests := []struct {
		name    string
		limit   int
		wantIDs []string
	}{
		{"all newest first", 10, []string{"new", "mid", "old"}},
		{"limited", 2, []string{"new", "mid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.ListRecommendations(context.Background(), tt.limit)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestAdapter_SaveRecommendation_AssignsID(t *testing.T) {
	a := newTestAdapter(t)
	rec := sampleRecommendation("", time.Time{})
	if err := a.SaveRecommendation(context.Background(), rec, sunnyReport); err != nil {
		t.Fatalf("save: %v", err)
	}
	recs, err := a.ListRecommendations(context.Background(), 1)
	if err != nil || len(recs) != 1 {
		t.Fatalf("list: %v %v", recs, err)
	}
	if len(recs[0].ID) != 36 {
		t.Errorf("expected a generated uuid, got %q", recs[0].ID)
	}
}

func TestAdapter_TrackEnergy(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	if err := a.SaveRecommendation(ctx, sampleRecommendation("rec-1", time.Now()), sunnyReport); err != nil {
		t.Fatalf("save: %v", err)
	}

	track := domain.Track{ID: "t1", Name: "Sunrise", Artist: "Band", AudioURL: "https://cdn/t1.mp3", Energy: 0.4}
	if err := a.SaveTrackEnergy(ctx, "rec-1", track); err != nil {
		t.Fatalf("save energy: %v", err)
	}
	track.Energy = 0.55
	if err := a.SaveTrackEnergy(ctx, "rec-1", track); err != nil {
		t.Fatalf("update energy: %v", err)
	}

	got, err := a.AnalysedTracks(ctx, "rec-1")
	if err != nil {
		t.Fatalf("analysed tracks: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d tracks, want 1", len(got))
	}
	if got[0].Energy != 0.55 || got[0].Name != "Sunrise" || got[0].AudioURL != "https://cdn/t1.mp3" {
		t.Errorf("unexpected track %+v", got[0])
	}

	if err := a.SaveTrackEnergy(ctx, "missing", track); !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown recommendation, got %v", err)
	}

	empty, err := a.AnalysedTracks(ctx, "missing")
	if err != nil || len(empty) != 0 {
		t.Errorf("expected no tracks, got %v %v", empty, err)
	}
}

func TestNewAdapter_ReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cadence.db")
	ctx := context.Background()

	first, err := NewAdapter(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.SaveRecommendation(ctx, sampleRecommendation("rec-1", time.Now()), sunnyReport); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := NewAdapter(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })

	got, err := second.GetRecommendation(ctx, "rec-1")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.APIParams[domain.ParamSpeed] != "high" {
		t.Errorf("params = %v", got.APIParams)
	}
}
