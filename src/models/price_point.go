package models

// MPricePoint is one fast-source history entry.
// Timestamp is an IST wall-clock reading formatted "YYYY-MM-DD HH:MM:SS".
type MPricePoint struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// MChartPoint is one slow-source chart sample.
// EpochMillis encodes IST wall-clock as if it were UTC.
type MChartPoint struct {
	EpochMillis int64
	Price       float64
}
