package services

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

const (
	canonicalLimit  = "20"
	shuffleLimit    = "50"
	maxRandomOffset = 500
)

// speedLevels maps quantised levels 0..2 to catalogue labels.
var speedLevels = [...]string{"medium", "high", "veryhigh"}

// randomOrders are the catalogue sort orders a randomised request picks from.
var randomOrders = [...]string{
	"releasedate", "popularity_week", "popularity_month", "popularity_total",
	"downloads_week", "downloads_month", "downloads_total",
	"listens_week", "listens_month", "listens_total",
	"name", "artist_name", "album_name", "duration", "buzzrate", "relevance",
}

// randIntN is the process-wide random source. Tests may replace it.
var randIntN = rand.IntN

// RandomExtras records the randomised paging choices of one request.
type RandomExtras struct {
	Order  string `json:"order"`
	Offset int    `json:"offset"`
	// Limit is the enlarged page size used while shuffling client-side.
	Limit string `json:"limit"`
}

// RandomOrders lists the sort orders used by randomisation.
func RandomOrders() []string {
	return append([]string(nil), randomOrders[:]...)
}

// QuantizeSpeed maps a [0,1] speed score onto level 0..2 and its label.
// Halves round to even.
func QuantizeSpeed(score float64) (int, string) {
	level := int(math.RoundToEven(score * 2))
	if level < 0 {
		level = 0
	}
	if level > len(speedLevels)-1 {
		level = len(speedLevels) - 1
	}
	return level, speedLevels[level]
}

// Assemble converts scores and selected tags into catalogue parameters. With
// randomize set it adds a random sort order and offset; the returned extras are
// nil otherwise.
func Assemble(ch Characteristics, selected []TagScore, randomize bool) (domain.APIParams, *RandomExtras) {
	names := make([]string, 0, len(selected))
	for _, ts := range selected {
		names = append(names, ts.Tag)
	}
	_, speed := QuantizeSpeed(ch.Speed.Final)

	params := domain.APIParams{
		domain.ParamTags:    strings.Join(names, "+"),
		domain.ParamSpeed:   speed,
		domain.ParamVocal:   string(ch.Vocal),
		domain.ParamLimit:   canonicalLimit,
		domain.ParamInclude: "musicinfo",
		domain.ParamFormat:  "json",
	}
	if !randomize {
		return params, nil
	}

	extras := &RandomExtras{
		Order:  randomOrders[randIntN(len(randomOrders))],
		Offset: randIntN(maxRandomOffset + 1),
		Limit:  shuffleLimit,
	}
	params[domain.ParamOrder] = extras.Order
	params[domain.ParamOffset] = strconv.Itoa(extras.Offset)
	// The enlarged page size only travels in extras; the advertised cap stays
	// canonical and callers truncate their shuffled page to it.
	return params, extras
}
