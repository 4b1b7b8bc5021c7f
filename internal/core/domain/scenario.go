package domain

import (
	"cmp"
	"errors"
	"slices"
	"strconv"
	"strings"
)

// Scenario is a named emotion+activity situation a listener can pick from.
type Scenario struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Emotion     Emotion  `json:"emotion"`
	Activity    Activity `json:"activity"`
	Keywords    []string `json:"keywords"`
}

var scenarios = []Scenario{
	{1, "Focused work", "Stressed but need to concentrate on the job", Stressed, Focus, []string{"work", "job", "concentrate", "task"}},
	{2, "Easy study session", "Learning with a settled mind", Calm, Study, []string{"study", "learn", "reading"}},
	{3, "Working late", "Worn out but the work is not done", Stressed, Work, []string{"overtime", "late", "tired"}},
	{4, "Hard workout", "Full of energy and ready to train", Energetic, Exercise, []string{"workout", "gym", "fitness", "pumped"}},
	{5, "Happy morning jog", "Light exercise on a good morning", Happy, Exercise, []string{"jog", "morning", "run"}},
	{6, "Sweat out the stress", "Working off frustration with exercise", Stressed, Exercise, []string{"stress", "angry", "frustrated"}},
	{7, "Need some healing", "Rest that brings peace of mind", Peaceful, Relaxation, []string{"healing", "recover", "peace", "rest"}},
	{8, "Meditate and reset", "Deep reflection and meditation", Calm, Meditation, []string{"meditate", "yoga", "reflect"}},
	{9, "Alone with the blues", "Sitting with a sad feeling", Melancholic, Relaxation, []string{"blue", "alone", "sad"}},
	{10, "Party with friends", "Loud and excited party mood", Happy, Party, []string{"party", "friends", "gathering", "festival"}},
	{11, "Romantic date", "Sweet time with a partner", Romantic, Social, []string{"date", "partner", "romantic"}},
	{12, "Stylish dinner", "A grown-up evening get-together", Dramatic, Social, []string{"dinner", "evening", "atmosphere"}},
	{13, "Morning commute boost", "Motivation for a new day", Uplifting, Commute, []string{"commute", "office", "morning drive"}},
	{14, "Unwinding on the way home", "Easing the day's fatigue", Peaceful, Commute, []string{"home", "after work", "fatigue"}},
	{15, "Winding down for sleep", "Settling into a calm bedtime", Peaceful, Sleep, []string{"sleep", "bedtime", "night"}},
	{16, "Can't sleep", "Stress keeps you awake", Stressed, Sleep, []string{"insomnia", "awake", "worry"}},
	{17, "Moved and inspired", "Wanting a deep, lingering feeling", Dramatic, Relaxation, []string{"moving", "inspired", "special"}},
	{18, "Recharge", "Getting motivation back", Energetic, Focus, []string{"motivation", "drive", "recharge"}},
	{19, "Too good a mood to sit still", "Happy and wanting to get something done", Happy, Work, []string{"good mood", "active", "productive"}},
}

// Scenarios returns the scenario catalogue in display order.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// ScenarioByID looks up a scenario by its 1-based id.
func ScenarioByID(id int) (Scenario, error) {
	if id < 1 || id > len(scenarios) {
		return Scenario{}, &InvalidInputError{Field: "scenario", Value: strconv.Itoa(id)}
	}
	return scenarios[id-1], nil
}

// MatchScenarios returns the scenarios whose keywords appear in text, in catalogue order.
func MatchScenarios(text string) []Scenario {
	lower := strings.ToLower(text)
	var out []Scenario
	for _, s := range scenarios {
		for _, kw := range s.Keywords {
			if strings.Contains(lower, kw) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// CombineScenarios reduces several scenarios to one emotion and activity by
// majority. Repeated ids count once and scenarios are weighed in ascending id
// order, so a tie goes to the value of the lowest id.
func CombineScenarios(selected []Scenario) (Emotion, Activity, error) {
	if len(selected) == 0 {
		return 0, 0, errors.Join(ErrInvalidInput, errors.New("domain: at least one scenario is required"))
	}
	selected = uniqueByID(selected)
	if len(selected) == 1 {
		return selected[0].Emotion, selected[0].Activity, nil
	}

	emotionCounts := map[Emotion]int{}
	activityCounts := map[Activity]int{}
	var emotionOrder []Emotion
	var activityOrder []Activity
	for _, s := range selected {
		if emotionCounts[s.Emotion] == 0 {
			emotionOrder = append(emotionOrder, s.Emotion)
		}
		emotionCounts[s.Emotion]++
		if activityCounts[s.Activity] == 0 {
			activityOrder = append(activityOrder, s.Activity)
		}
		activityCounts[s.Activity]++
	}

	bestEmotion := emotionOrder[0]
	for _, e := range emotionOrder[1:] {
		if emotionCounts[e] > emotionCounts[bestEmotion] {
			bestEmotion = e
		}
	}
	bestActivity := activityOrder[0]
	for _, a := range activityOrder[1:] {
		if activityCounts[a] > activityCounts[bestActivity] {
			bestActivity = a
		}
	}
	return bestEmotion, bestActivity, nil
}

func uniqueByID(selected []Scenario) []Scenario {
	seen := make(map[int]struct{}, len(selected))
	out := make([]Scenario, 0, len(selected))
	for _, s := range selected {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Scenario) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
