package models

// MDayOHLC is the full trading day shape derived from the slow chart series.
type MDayOHLC struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// MBaseChartCache is the last non-empty slow series, ready for splicing.
// Labels are "HH:MM" and parallel to Values.
type MBaseChartCache struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Len returns the number of points in the cache.
func (c *MBaseChartCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Labels)
}
