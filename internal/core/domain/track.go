package domain

// Track is a catalogue search result.
type Track struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Artist      string  `json:"artist"`
	Album       string  `json:"album,omitempty"`
	DurationSec int     `json:"duration_sec"`
	AudioURL    string  `json:"audio"`
	Energy      float64 `json:"energy,omitempty"` // measured from the audio preview, 0 until analysed
}
