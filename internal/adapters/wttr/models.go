package wttr

// wttr.in format=j1 payload, reduced to the fields we read.
type j1Response struct {
	CurrentCondition []currentCondition `json:"current_condition"`
	NearestArea      []nearestArea      `json:"nearest_area"`
}

type currentCondition struct {
	TempC       string      `json:"temp_C"`
	WeatherDesc []textValue `json:"weatherDesc"`
}

type nearestArea struct {
	AreaName []textValue `json:"areaName"`
	Country  []textValue `json:"country"`
}

type textValue struct {
	Value string `json:"value"`
}

func firstValue(vs []textValue) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0].Value
}
