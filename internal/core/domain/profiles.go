package domain

import "fmt"

// Attribute names a numeric trait carried by the characteristic tables.
type Attribute uint8

const (
	AttrEnergy Attribute = iota
	AttrValence
	AttrSpeed
	AttrArousal
)

var attributeNames = [...]string{
	AttrEnergy:  "energy",
	AttrValence: "valence",
	AttrSpeed:   "speed",
	AttrArousal: "arousal",
}

func (a Attribute) String() string { return enumName(attributeNames[:], int(a)) }

// VocalMode is the catalogue's vocal/instrumental filter.
type VocalMode string

const (
	Instrumental VocalMode = "instrumental"
	Vocal        VocalMode = "vocal"
)

// CharacteristicProfile holds an emotion's normalised traits and candidate tags.
type CharacteristicProfile struct {
	Energy  float64
	Valence float64
	Arousal float64
	Speed   float64
	Tags    []string
}

// Trait returns the value for attr.
func (p CharacteristicProfile) Trait(attr Attribute) float64 {
	switch attr {
	case AttrEnergy:
		return p.Energy
	case AttrValence:
		return p.Valence
	case AttrArousal:
		return p.Arousal
	case AttrSpeed:
		return p.Speed
	}
	panic(fmt.Sprintf("domain: emotion profile has no attribute %s", attr))
}

// Influence is a weather or time-of-day trait row. It has no arousal.
type Influence struct {
	Energy  float64
	Valence float64
	Speed   float64
}

// Trait returns the value for attr.
func (in Influence) Trait(attr Attribute) float64 {
	switch attr {
	case AttrEnergy:
		return in.Energy
	case AttrValence:
		return in.Valence
	case AttrSpeed:
		return in.Speed
	}
	panic(fmt.Sprintf("domain: influence table has no attribute %s", attr))
}

// ActivityAdjustment nudges energy and speed and fixes the vocal mode.
type ActivityAdjustment struct {
	Energy float64
	Speed  float64
	Vocal  VocalMode
}

// Delta returns the signed adjustment for attr; attributes without one yield 0.
func (a ActivityAdjustment) Delta(attr Attribute) float64 {
	switch attr {
	case AttrEnergy:
		return a.Energy
	case AttrSpeed:
		return a.Speed
	}
	return 0
}

var emotionProfiles = [...]CharacteristicProfile{
	Happy:       {Energy: 0.7, Valence: 0.8, Arousal: 0.6, Speed: 0.7, Tags: []string{"happy", "uplifting", "energetic", "pop"}},
	Sad:         {Energy: 0.3, Valence: 0.2, Arousal: 0.3, Speed: 0.3, Tags: []string{"melancholic", "emotional", "peaceful", "classical"}},
	Calm:        {Energy: 0.2, Valence: 0.6, Arousal: 0.2, Speed: 0.3, Tags: []string{"peaceful", "relaxing", "ambient", "meditation"}},
	Energetic:   {Energy: 0.9, Valence: 0.7, Arousal: 0.9, Speed: 0.8, Tags: []string{"energetic", "electronic", "rock", "motivational"}},
	Romantic:    {Energy: 0.4, Valence: 0.7, Arousal: 0.5, Speed: 0.4, Tags: []string{"romantic", "jazz", "acoustic", "soft"}},
	Stressed:    {Energy: 0.1, Valence: 0.3, Arousal: 0.7, Speed: 0.2, Tags: []string{"peaceful", "ambient", "relaxing", "healing"}},
	Melancholic: {Energy: 0.3, Valence: 0.2, Arousal: 0.4, Speed: 0.3, Tags: []string{"melancholic", "classical", "emotional", "ambient"}},
	Peaceful:    {Energy: 0.2, Valence: 0.6, Arousal: 0.1, Speed: 0.3, Tags: []string{"peaceful", "ambient", "meditation", "nature"}},
	Uplifting:   {Energy: 0.6, Valence: 0.8, Arousal: 0.6, Speed: 0.6, Tags: []string{"uplifting", "motivational", "pop", "electronic"}},
	Dramatic:    {Energy: 0.8, Valence: 0.5, Arousal: 0.8, Speed: 0.7, Tags: []string{"cinematic", "orchestral", "classical", "soundtrack"}},
}

var activityAdjustments = [...]ActivityAdjustment{
	Work:       {Energy: -0.1, Speed: 0.0, Vocal: Instrumental},
	Study:      {Energy: -0.2, Speed: -0.1, Vocal: Instrumental},
	Exercise:   {Energy: 0.2, Speed: 0.2, Vocal: Vocal},
	Relaxation: {Energy: -0.3, Speed: -0.2, Vocal: Instrumental},
	Party:      {Energy: 0.3, Speed: 0.3, Vocal: Vocal},
	Meditation: {Energy: -0.4, Speed: -0.3, Vocal: Instrumental},
	Commute:    {Energy: 0.0, Speed: 0.1, Vocal: Vocal},
	Sleep:      {Energy: -0.4, Speed: -0.4, Vocal: Instrumental},
	Focus:      {Energy: -0.1, Speed: 0.0, Vocal: Instrumental},
	Social:     {Energy: 0.1, Speed: 0.1, Vocal: Vocal},
}

var weatherInfluences = [...]Influence{
	Sunny:  {Energy: 0.8, Valence: 0.9, Speed: 0.7},
	Cloudy: {Energy: 0.5, Valence: 0.5, Speed: 0.5},
	Rainy:  {Energy: 0.3, Valence: 0.4, Speed: 0.3},
	Snowy:  {Energy: 0.4, Valence: 0.6, Speed: 0.4},
	Windy:  {Energy: 0.7, Valence: 0.6, Speed: 0.6},
}

var timeInfluences = [...]Influence{
	Dawn:      {Energy: 0.2, Valence: 0.5, Speed: 0.2},
	Morning:   {Energy: 0.7, Valence: 0.8, Speed: 0.6},
	Afternoon: {Energy: 0.6, Valence: 0.6, Speed: 0.6},
	Evening:   {Energy: 0.4, Valence: 0.6, Speed: 0.4},
	Night:     {Energy: 0.3, Valence: 0.5, Speed: 0.3},
}

// DefaultTagFit is used for (value, tag) pairs absent from the fit tables.
const DefaultTagFit = 0.5

var weatherTagFit = [...]map[string]float64{
	Sunny: {"uplifting": 0.9, "happy": 0.9, "energetic": 0.8, "pop": 0.8,
		"electronic": 0.7, "motivational": 0.8, "melancholic": 0.2},
	Rainy: {"peaceful": 0.9, "ambient": 0.8, "melancholic": 0.8, "romantic": 0.7,
		"classical": 0.7, "jazz": 0.8, "energetic": 0.3, "rock": 0.2},
	Cloudy: {"ambient": 0.7, "peaceful": 0.7, "jazz": 0.6, "classical": 0.6,
		"electronic": 0.4, "rock": 0.4},
	Snowy: {"peaceful": 0.9, "ambient": 0.8, "classical": 0.8, "meditation": 0.8,
		"jazz": 0.7, "energetic": 0.3, "rock": 0.3},
	Windy: {"electronic": 0.8, "energetic": 0.7, "rock": 0.8, "cinematic": 0.7,
		"peaceful": 0.4, "ambient": 0.3},
}

var timeTagFit = [...]map[string]float64{
	Dawn: {"peaceful": 1.0, "ambient": 0.9, "meditation": 0.9, "nature": 0.8,
		"classical": 0.8, "energetic": 0.1, "rock": 0.1, "electronic": 0.2},
	Morning: {"energetic": 0.9, "uplifting": 0.9, "motivational": 0.8, "pop": 0.8,
		"electronic": 0.7, "jazz": 0.6, "melancholic": 0.3},
	Afternoon: {"pop": 0.8, "rock": 0.7, "energetic": 0.6, "electronic": 0.6,
		"jazz": 0.6, "ambient": 0.5, "cinematic": 0.4},
	Evening: {"romantic": 0.9, "jazz": 0.8, "classical": 0.7, "ambient": 0.7,
		"acoustic": 0.8, "soft": 0.7, "energetic": 0.4, "rock": 0.3},
	Night: {"peaceful": 0.9, "ambient": 0.9, "meditation": 0.8, "classical": 0.8,
		"jazz": 0.7, "healing": 0.9, "energetic": 0.2, "rock": 0.2},
}

// Profile returns the emotion's static characteristic profile.
// The returned Tags slice is a copy.
func (e Emotion) Profile() CharacteristicProfile {
	p := emotionProfiles[e]
	p.Tags = append([]string(nil), p.Tags...)
	return p
}

// Adjustment returns the activity's static adjustment.
func (a Activity) Adjustment() ActivityAdjustment {
	return activityAdjustments[a]
}

// Influence returns the weather's static trait row.
func (w Weather) Influence() Influence {
	return weatherInfluences[w]
}

// Influence returns the time-of-day's static trait row.
func (t TimeOfDay) Influence() Influence {
	return timeInfluences[t]
}

// TagFit returns how well tag suits the weather, defaulting to DefaultTagFit.
func (w Weather) TagFit(tag string) float64 {
	if fit, ok := weatherTagFit[w][tag]; ok {
		return fit
	}
	return DefaultTagFit
}

// TagFit returns how well tag suits the time of day, defaulting to DefaultTagFit.
func (t TimeOfDay) TagFit(tag string) float64 {
	if fit, ok := timeTagFit[t][tag]; ok {
		return fit
	}
	return DefaultTagFit
}
