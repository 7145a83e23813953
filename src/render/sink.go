package render

import (
	"live-indices/src/interfaces"
	"live-indices/src/models"
)

// Sink writes arbitrated records and series onto the page widgets.
// Widgets missing from the page are skipped silently.
type Sink struct {
	target interfaces.IRenderTarget
	labels map[string]string
}

// -----------------------------------------------------------------------------

func NewSink(target interfaces.IRenderTarget, entities []models.MEntity) *Sink {
	labels := make(map[string]string, len(entities))
	for _, e := range entities {
		labels[e.Key] = e.Label
	}
	return &Sink{target: target, labels: labels}
}

// -----------------------------------------------------------------------------

// RenderCard updates the summary card of rec.Entity.
func (s *Sink) RenderCard(rec models.MCardRecord) bool {
	card := s.target.Card(rec.Entity)
	if card == nil {
		return false
	}

	card.Class, card.Arrow = Direction(rec.Change, rec.PercentChange)
	card.Value = FormatNumber(rec.Value)
	card.Change = ChangeText(rec.Change, rec.PercentChange)
	card.Live = rec.Live
	card.RawValue = round2(rec.Value)
	card.RawPercent = round2(rec.PercentChange)
	if card.Label == "" {
		card.Label = s.label(rec.Entity)
	}
	return true
}

// -----------------------------------------------------------------------------

// RenderDetail updates the selected entity panel.
func (s *Sink) RenderDetail(rec models.MDisplayRecord) bool {
	detail := s.target.Detail()
	if detail == nil {
		return false
	}

	detail.Name = s.label(rec.Entity)
	detail.Class, detail.Arrow = Direction(rec.Change, rec.PercentChange)
	detail.Value = FormatNumber(rec.Value)
	detail.Change = ChangeText(rec.Change, rec.PercentChange)
	detail.Open = FormatNumber(rec.Open)
	detail.High = FormatNumber(rec.High)
	detail.Low = FormatNumber(rec.Low)
	detail.Live = rec.Live
	return true
}

// -----------------------------------------------------------------------------

// RenderChart replaces the chart series. An empty series leaves the chart as it was.
func (s *Sink) RenderChart(chartID, entity string, series models.MSeries, change float64) bool {
	if series.Len() == 0 || chartID == "" {
		return false
	}
	chart := s.target.Chart(chartID)
	if chart == nil {
		return false
	}

	chart.Entity = entity
	chart.Labels = append(chart.Labels[:0], series.Labels...)
	chart.Values = append(chart.Values[:0], series.Values...)
	chart.LineColor, chart.GradientStart, chart.GradientEnd = ChartColors(change)
	return true
}

// -----------------------------------------------------------------------------

// RenderFlows updates the institutional flows strip, amounts in crores.
func (s *Sink) RenderFlows(flows models.MFlowSnapshot) bool {
	view := s.target.Flows()
	if view == nil {
		return false
	}

	view.FII, view.FIIClass = FormatFlow(flows.FIINet)
	view.DII, view.DIIClass = FormatFlow(flows.DIINet)
	view.Total, view.TotalClass = FormatFlow(flows.TotalNet)
	return true
}

// -----------------------------------------------------------------------------

func (s *Sink) label(entity string) string {
	if l, ok := s.labels[entity]; ok && l != "" {
		return l
	}
	return entity
}
