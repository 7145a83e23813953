package render

import (
	"testing"

	"live-indices/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entities = []models.MEntity{
	{Key: "nifty50", Label: "NIFTY 50"},
	{Key: "banknifty", Label: "BANK NIFTY"},
}

func fullPage() models.MPageConfig {
	return models.MPageConfig{Cards: true, Detail: true, ChartID: "indexChart"}
}

func TestSinkRendersAllWidgets(t *testing.T) {
	doc := NewDocument(fullPage(), entities)
	sink := NewSink(doc, entities)

	assert.True(t, sink.RenderCard(models.MCardRecord{Entity: "nifty50", Value: 22100, Change: 98.4, PercentChange: 0.45, Live: true}))
	assert.True(t, sink.RenderDetail(models.MDisplayRecord{Entity: "nifty50", Value: 22100, Change: -10, PercentChange: -0.05, Open: 22000, High: 22200, Low: 21900}))
	assert.True(t, sink.RenderChart("indexChart", "nifty50", models.MSeries{Labels: []string{"09:15"}, Values: []float64{22000}}, -10))

	view := doc.View()
	card := view.Cards["nifty50"]
	assert.Equal(t, "NIFTY 50", card.Label)
	assert.Equal(t, "22,100.00", card.Value)
	assert.Equal(t, ClassUp, card.Class)
	assert.True(t, card.Live)
	assert.Equal(t, 0.45, card.RawPercent)

	require.NotNil(t, view.Detail)
	assert.Equal(t, "NIFTY 50", view.Detail.Name)
	assert.Equal(t, ClassDown, view.Detail.Class)
	assert.Equal(t, "22,000.00", view.Detail.Open)

	require.NotNil(t, view.Chart)
	assert.Equal(t, "nifty50", view.Chart.Entity)
	assert.Equal(t, downLine, view.Chart.LineColor)
}

func TestSinkSkipsMissingWidgets(t *testing.T) {
	doc := NewDocument(models.MPageConfig{}, entities)
	sink := NewSink(doc, entities)

	assert.NotPanics(t, func() {
		assert.False(t, sink.RenderCard(models.MCardRecord{Entity: "nifty50", Value: 1}))
		assert.False(t, sink.RenderDetail(models.MDisplayRecord{Entity: "nifty50", Value: 1}))
		assert.False(t, sink.RenderChart("indexChart", "nifty50", models.MSeries{Labels: []string{"09:15"}, Values: []float64{1}}, 0))
	})

	assert.Nil(t, doc.View().Cards)
	assert.Nil(t, doc.View().Detail)
	assert.Nil(t, doc.View().Chart)
}

func TestSinkSkipsUnknownCardAndOtherChart(t *testing.T) {
	doc := NewDocument(fullPage(), entities)
	sink := NewSink(doc, entities)

	assert.False(t, sink.RenderCard(models.MCardRecord{Entity: "sensex", Value: 1}))
	assert.False(t, sink.RenderChart("otherChart", "nifty50", models.MSeries{Labels: []string{"09:15"}, Values: []float64{1}}, 0))
}

func TestSinkEmptySeriesKeepsChart(t *testing.T) {
	doc := NewDocument(fullPage(), entities)
	sink := NewSink(doc, entities)

	require.True(t, sink.RenderChart("indexChart", "nifty50", models.MSeries{Labels: []string{"09:15", "09:16"}, Values: []float64{1, 2}}, 1))
	assert.False(t, sink.RenderChart("indexChart", "nifty50", models.MSeries{}, 1))

	assert.Equal(t, []string{"09:15", "09:16"}, doc.View().Chart.Labels)
}

func TestSinkRendersFlows(t *testing.T) {
	page := fullPage()
	page.Flows = true
	doc := NewDocument(page, entities)
	sink := NewSink(doc, entities)

	require.True(t, sink.RenderFlows(models.MFlowSnapshot{FIINet: -1250.5, DIINet: 980.25, TotalNet: -270.25}))

	flows := doc.View().Flows
	require.NotNil(t, flows)
	assert.Equal(t, "-1,250.50 Cr", flows.FII)
	assert.Equal(t, ClassDown, flows.FIIClass)
	assert.Equal(t, "+980.25 Cr", flows.DII)
	assert.Equal(t, ClassUp, flows.DIIClass)
	assert.Equal(t, ClassDown, flows.TotalClass)

	clone := doc.View().Clone()
	clone.Flows.FII = "changed"
	assert.Equal(t, "-1,250.50 Cr", doc.View().Flows.FII)
}

func TestSinkSkipsFlowsMissingFromPage(t *testing.T) {
	doc := NewDocument(fullPage(), entities)
	sink := NewSink(doc, entities)

	assert.False(t, sink.RenderFlows(models.MFlowSnapshot{FIINet: 1}))
	assert.Nil(t, doc.View().Flows)
}
