package models

// MDisplayRecord is the arbitrated detail panel content for one entity.
type MDisplayRecord struct {
	Entity        string      `json:"entity"`
	Value         float64     `json:"value"`
	Change        float64     `json:"change"`
	PercentChange float64     `json:"percent_change"`
	Open          float64     `json:"open"`
	High          float64     `json:"high"`
	Low           float64     `json:"low"`
	ValueSource   MSourceKind `json:"value_source"`
	Live          bool        `json:"live"` // fast source was fresh
}

// MCardRecord is the arbitrated summary row entry for one entity.
type MCardRecord struct {
	Entity        string      `json:"entity"`
	Value         float64     `json:"value"`
	Change        float64     `json:"change"`
	PercentChange float64     `json:"percent_change"`
	ValueSource   MSourceKind `json:"value_source"`
	Live          bool        `json:"live"`
}

// MSeries is the chart series for the selected entity.
type MSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Len returns the number of points.
func (s MSeries) Len() int {
	return len(s.Labels)
}
