package models

// -----------------------------------------------------------------------------
// Wire shapes of the dashboard backend feeds
// -----------------------------------------------------------------------------

// MLiveIndicesResponse is the body of GET /api/live-indices (fast source).
type MLiveIndicesResponse struct {
	Success   bool                       `json:"success"`
	Message   string                     `json:"message,omitempty"`
	Timestamp string                     `json:"timestamp,omitempty"`
	Indices   map[string]MLiveIndexEntry `json:"indices"`
}

type MLiveIndexEntry struct {
	Value         *float64      `json:"value"`
	Change        *float64      `json:"change"`
	PercentChange *float64      `json:"percentChange"`
	Open          *float64      `json:"open,omitempty"`
	High          *float64      `json:"high,omitempty"`
	Low           *float64      `json:"low,omitempty"`
	PreviousClose *float64      `json:"previousClose,omitempty"`
	History       []MPricePoint `json:"history"`
}

// -----------------------------------------------------------------------------

// MNSEIndicesResponse is the body of GET /api/nse-indices.
type MNSEIndicesResponse struct {
	Success bool                      `json:"success"`
	Indices map[string]MNSEIndexEntry `json:"indices"`
}

type MNSEIndexEntry struct {
	Value         *float64 `json:"value"`
	Change        *float64 `json:"change"`
	PercentChange *float64 `json:"percentChange"`
	Open          *float64 `json:"open"`
	High          *float64 `json:"high"`
	Low           *float64 `json:"low"`
	PreviousClose *float64 `json:"previousClose,omitempty"`
}

// -----------------------------------------------------------------------------

// MNSEChartResponse is the body of GET /api/nse-chart/{key}.
// Series items are [epochMillis, price] pairs.
type MNSEChartResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Series  [][]float64 `json:"series"`
	Open    *float64    `json:"open"`
	High    *float64    `json:"high"`
	Low     *float64    `json:"low"`
	Close   *float64    `json:"close"`
	Change  *float64    `json:"change,omitempty"`
	Percent *float64    `json:"percent"`
}

// -----------------------------------------------------------------------------

// MFIIDIIResponse is the body of GET /api/live-fii-dii. A successful body
// omits the success key; a failed one carries success=false and a message.
type MFIIDIIResponse struct {
	Success  *bool    `json:"success,omitempty"`
	Message  string   `json:"message,omitempty"`
	FIINet   *float64 `json:"fii_net"`
	DIINet   *float64 `json:"dii_net"`
	TotalNet *float64 `json:"total_net,omitempty"`
}
