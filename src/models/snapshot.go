package models

import "time"

// MSourceKind tags which feed produced a snapshot.
type MSourceKind string

const (
	SourceFast   MSourceKind = "fast"   // /api/live-indices, session scoped
	SourceQuotes MSourceKind = "quotes" // /api/nse-indices, authoritative change & OHLC
	SourceChart  MSourceKind = "chart"  // /api/nse-chart/{key}, full-day series
	SourceFlows  MSourceKind = "flows"  // /api/live-fii-dii, institutional net flows
)

// MFastSnapshot is the session-scoped view of one entity.
type MFastSnapshot struct {
	Entity        string        `json:"entity"`
	Value         float64       `json:"value"`
	Change        float64       `json:"change"`
	PercentChange float64       `json:"percent_change"`
	Open          *float64      `json:"open,omitempty"`
	High          *float64      `json:"high,omitempty"`
	Low           *float64      `json:"low,omitempty"`
	History       []MPricePoint `json:"history"`
	CapturedAt    time.Time     `json:"captured_at"`
}

// MIndexQuote is the authoritative quote of one entity.
type MIndexQuote struct {
	Entity        string    `json:"entity"`
	Value         float64   `json:"value"`
	Change        float64   `json:"change"`
	PercentChange float64   `json:"percent_change"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	PreviousClose float64   `json:"previous_close"`
	CapturedAt    time.Time `json:"captured_at"`
}

// MChartSnapshot is the full trading day series of one entity.
// OHLC fields are nil when the feed did not provide them.
type MChartSnapshot struct {
	Entity     string        `json:"entity"`
	Series     []MChartPoint `json:"-"`
	Open       *float64      `json:"open,omitempty"`
	High       *float64      `json:"high,omitempty"`
	Low        *float64      `json:"low,omitempty"`
	Close      *float64      `json:"close,omitempty"`
	Percent    *float64      `json:"percent,omitempty"`
	CapturedAt time.Time     `json:"captured_at"`
}

// MFlowSnapshot is the day's FII and DII net buying, in crores.
type MFlowSnapshot struct {
	FIINet     float64   `json:"fii_net"`
	DIINet     float64   `json:"dii_net"`
	TotalNet   float64   `json:"total_net"`
	CapturedAt time.Time `json:"captured_at"`
}

// -----------------------------------------------------------------------------

// MSourceUpdate is one completed poll, carrying exactly one payload shape.
type MSourceUpdate struct {
	Kind   MSourceKind
	Entity string // chart updates only
	Seq    uint64 // issue order within the source
	Epoch  uint64 // poller run the fetch belonged to

	Fast   map[string]MFastSnapshot
	Quotes map[string]MIndexQuote
	Chart  *MChartSnapshot
	Flows  *MFlowSnapshot

	ReceivedAt time.Time
}
