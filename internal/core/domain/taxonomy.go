package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput indicates a value that is not a member of a fixed enumeration.
var ErrInvalidInput = errors.New("domain: invalid input")

// InvalidInputError names the field and the rejected value.
type InvalidInputError struct {
	Field string
	Value string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("domain: invalid %s %q", e.Field, e.Value)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Emotion is the listener's emotional state.
type Emotion uint8

const (
	Happy Emotion = iota
	Sad
	Calm
	Energetic
	Romantic
	Stressed
	Melancholic
	Peaceful
	Uplifting
	Dramatic
)

var emotionNames = [...]string{
	Happy:       "happy",
	Sad:         "sad",
	Calm:        "calm",
	Energetic:   "energetic",
	Romantic:    "romantic",
	Stressed:    "stressed",
	Melancholic: "melancholic",
	Peaceful:    "peaceful",
	Uplifting:   "uplifting",
	Dramatic:    "dramatic",
}

// Activity is what the listener is doing.
type Activity uint8

const (
	Work Activity = iota
	Study
	Exercise
	Relaxation
	Party
	Meditation
	Commute
	Sleep
	Focus
	Social
)

var activityNames = [...]string{
	Work:       "work",
	Study:      "study",
	Exercise:   "exercise",
	Relaxation: "relaxation",
	Party:      "party",
	Meditation: "meditation",
	Commute:    "commute",
	Sleep:      "sleep",
	Focus:      "focus",
	Social:     "social",
}

// Weather is one of the five ambient weather categories.
type Weather uint8

const (
	Sunny Weather = iota
	Cloudy
	Rainy
	Snowy
	Windy
)

var weatherNames = [...]string{
	Sunny:  "sunny",
	Cloudy: "cloudy",
	Rainy:  "rainy",
	Snowy:  "snowy",
	Windy:  "windy",
}

// TimeOfDay buckets the clock hour.
type TimeOfDay uint8

const (
	Dawn TimeOfDay = iota
	Morning
	Afternoon
	Evening
	Night
)

var timeOfDayNames = [...]string{
	Dawn:      "dawn",
	Morning:   "morning",
	Afternoon: "afternoon",
	Evening:   "evening",
	Night:     "night",
}

// TimeOfDayForHour maps an hour of day to its bucket:
// dawn 4-6, morning 7-11, afternoon 12-17, evening 18-21, night 22-3.
func TimeOfDayForHour(hour int) TimeOfDay {
	hour %= 24
	if hour < 0 {
		hour += 24
	}
	switch {
	case hour >= 4 && hour < 7:
		return Dawn
	case hour >= 7 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	case hour >= 18 && hour < 22:
		return Evening
	default:
		return Night
	}
}

func (e Emotion) String() string   { return enumName(emotionNames[:], int(e)) }
func (a Activity) String() string  { return enumName(activityNames[:], int(a)) }
func (w Weather) String() string   { return enumName(weatherNames[:], int(w)) }
func (t TimeOfDay) String() string { return enumName(timeOfDayNames[:], int(t)) }

// Valid reports whether e is a declared emotion.
func (e Emotion) Valid() bool   { return int(e) < len(emotionNames) }
func (a Activity) Valid() bool  { return int(a) < len(activityNames) }
func (w Weather) Valid() bool   { return int(w) < len(weatherNames) }
func (t TimeOfDay) Valid() bool { return int(t) < len(timeOfDayNames) }

// ParseEmotion converts a case-insensitive name into an Emotion.
func ParseEmotion(s string) (Emotion, error) {
	i, ok := lookupName(emotionNames[:], s)
	if !ok {
		return 0, &InvalidInputError{Field: "emotion", Value: s}
	}
	return Emotion(i), nil
}

// ParseActivity converts a case-insensitive name into an Activity.
func ParseActivity(s string) (Activity, error) {
	i, ok := lookupName(activityNames[:], s)
	if !ok {
		return 0, &InvalidInputError{Field: "activity", Value: s}
	}
	return Activity(i), nil
}

// ParseWeather converts a case-insensitive name into a Weather.
func ParseWeather(s string) (Weather, error) {
	i, ok := lookupName(weatherNames[:], s)
	if !ok {
		return 0, &InvalidInputError{Field: "weather", Value: s}
	}
	return Weather(i), nil
}

// ParseTimeOfDay converts a case-insensitive name into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	i, ok := lookupName(timeOfDayNames[:], s)
	if !ok {
		return 0, &InvalidInputError{Field: "time_of_day", Value: s}
	}
	return TimeOfDay(i), nil
}

// AllEmotions lists emotions in declaration order.
func AllEmotions() []Emotion {
	out := make([]Emotion, len(emotionNames))
	for i := range out {
		out[i] = Emotion(i)
	}
	return out
}

func AllActivities() []Activity {
	out := make([]Activity, len(activityNames))
	for i := range out {
		out[i] = Activity(i)
	}
	return out
}

func AllWeathers() []Weather {
	out := make([]Weather, len(weatherNames))
	for i := range out {
		out[i] = Weather(i)
	}
	return out
}

func AllTimesOfDay() []TimeOfDay {
	out := make([]TimeOfDay, len(timeOfDayNames))
	for i := range out {
		out[i] = TimeOfDay(i)
	}
	return out
}

func (e Emotion) MarshalText() ([]byte, error)   { return marshalEnum(e.Valid(), e.String()) }
func (a Activity) MarshalText() ([]byte, error)  { return marshalEnum(a.Valid(), a.String()) }
func (w Weather) MarshalText() ([]byte, error)   { return marshalEnum(w.Valid(), w.String()) }
func (t TimeOfDay) MarshalText() ([]byte, error) { return marshalEnum(t.Valid(), t.String()) }

func (e *Emotion) UnmarshalText(b []byte) error {
	v, err := ParseEmotion(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func (a *Activity) UnmarshalText(b []byte) error {
	v, err := ParseActivity(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (w *Weather) UnmarshalText(b []byte) error {
	v, err := ParseWeather(string(b))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

func lookupName(names []string, s string) (int, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == needle {
			return i, true
		}
	}
	return 0, false
}

func marshalEnum(valid bool, name string) ([]byte, error) {
	if !valid {
		return nil, fmt.Errorf("domain: cannot marshal %s", name)
	}
	return []byte(name), nil
}
