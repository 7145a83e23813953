package models

// -----------------------------------------------------------------------------
// Server-held view document (what the browser page renders)
// -----------------------------------------------------------------------------

type MViewState struct {
	Type       string                `json:"type"` // "INITIAL" or "UPDATE"
	Selected   string                `json:"selected"`
	Cards      map[string]*MCardView `json:"cards,omitempty"`
	Detail     *MDetailView          `json:"detail,omitempty"`
	Chart      *MChartView           `json:"chart,omitempty"`
	Flows      *MFlowView            `json:"flows,omitempty"`
	MarketOpen bool                  `json:"market_open"`
	Running    bool                  `json:"running"`
	Timestamp  int64                 `json:"timestamp"`
}

type MCardView struct {
	Label      string  `json:"label"`
	Value      string  `json:"value"`
	Change     string  `json:"change"`
	Class      string  `json:"class"` // "up" or "down"
	Arrow      string  `json:"arrow"`
	Live       bool    `json:"live"`
	RawValue   float64 `json:"raw_value"`
	RawPercent float64 `json:"raw_percent"`
}

type MDetailView struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Change string `json:"change"`
	Class  string `json:"class"`
	Arrow  string `json:"arrow"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Live   bool   `json:"live"`
}

type MChartView struct {
	ID            string    `json:"id"`
	Entity        string    `json:"entity"`
	Labels        []string  `json:"labels"`
	Values        []float64 `json:"values"`
	LineColor     string    `json:"line_color"`
	GradientStart string    `json:"gradient_start"`
	GradientEnd   string    `json:"gradient_end"`
}

// MFlowView is the institutional flows strip.
type MFlowView struct {
	FII        string `json:"fii"`
	DII        string `json:"dii"`
	Total      string `json:"total"`
	FIIClass   string `json:"fii_class"`
	DIIClass   string `json:"dii_class"`
	TotalClass string `json:"total_class"`
}

// Clone returns a deep copy safe to hand to another goroutine.
func (v *MViewState) Clone() *MViewState {
	if v == nil {
		return nil
	}
	out := *v
	if v.Cards != nil {
		out.Cards = make(map[string]*MCardView, len(v.Cards))
		for k, c := range v.Cards {
			if c == nil {
				out.Cards[k] = nil
				continue
			}
			cc := *c
			out.Cards[k] = &cc
		}
	}
	if v.Detail != nil {
		d := *v.Detail
		out.Detail = &d
	}
	if v.Chart != nil {
		ch := *v.Chart
		ch.Labels = append([]string(nil), v.Chart.Labels...)
		ch.Values = append([]float64(nil), v.Chart.Values...)
		out.Chart = &ch
	}
	if v.Flows != nil {
		f := *v.Flows
		out.Flows = &f
	}
	return &out
}

// -----------------------------------------------------------------------------
// MClientCommand for client messages
// -----------------------------------------------------------------------------

type MClientCommand struct {
	Command string `json:"command"` // "select" or "visibility"
	Entity  string `json:"entity,omitempty"`
	Visible *bool  `json:"visible,omitempty"`
}
