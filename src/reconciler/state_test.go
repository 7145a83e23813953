package reconciler

import (
	"testing"

	"live-indices/src/models"
	"live-indices/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartUpdate(seq uint64, entity string, prices ...float64) *models.MSourceUpdate {
	chart := &models.MChartSnapshot{Entity: entity}
	for i, p := range prices {
		chart.Series = append(chart.Series, models.MChartPoint{EpochMillis: chartMillis(9, 15+i), Price: p})
	}
	return &models.MSourceUpdate{Kind: models.SourceChart, Entity: entity, Seq: seq, Chart: chart}
}

func fastUpdate(seq uint64, snaps ...*models.MFastSnapshot) *models.MSourceUpdate {
	u := &models.MSourceUpdate{Kind: models.SourceFast, Seq: seq, Fast: map[string]models.MFastSnapshot{}}
	for _, s := range snaps {
		u.Fast[s.Entity] = *s
	}
	return u
}

func TestStateDropsOutOfOrderCompletions(t *testing.T) {
	s := NewState(utils.DefaultSessionWindow())

	newer := &models.MSourceUpdate{Kind: models.SourceQuotes, Seq: 2, Quotes: map[string]models.MIndexQuote{"nifty50": {Value: 200}}}
	older := &models.MSourceUpdate{Kind: models.SourceQuotes, Seq: 1, Quotes: map[string]models.MIndexQuote{"nifty50": {Value: 100}}}

	assert.True(t, s.Apply(newer))
	assert.False(t, s.Apply(older))
	assert.Equal(t, 200.0, s.Slow("nifty50").Quote.Value)

	m := s.Metrics()
	assert.Equal(t, uint64(1), m.AppliedUpdates)
	assert.Equal(t, uint64(1), m.DroppedOutOfOrder)
}

func TestStateSequencesChartsPerEntity(t *testing.T) {
	s := NewState(utils.DefaultSessionWindow())

	assert.True(t, s.Apply(chartUpdate(5, "nifty50", 1, 2)))
	assert.True(t, s.Apply(chartUpdate(4, "banknifty", 3, 4)))
	assert.False(t, s.Apply(chartUpdate(3, "nifty50", 9)))

	assert.Equal(t, []float64{1, 2}, s.Base("nifty50").Values)
	assert.Equal(t, []float64{3, 4}, s.Base("banknifty").Values)
}

func TestStateKeepsBaseAcrossEmptyChart(t *testing.T) {
	s := NewState(utils.DefaultSessionWindow())

	require.True(t, s.Apply(chartUpdate(1, "nifty50", 10, 11)))
	require.True(t, s.Apply(chartUpdate(2, "nifty50")))

	assert.NotNil(t, s.Base("nifty50"))
	assert.Equal(t, []float64{10, 11}, s.Base("nifty50").Values)
	assert.Equal(t, 11.0, s.Slow("nifty50").OHLC.Close)
}

func TestStateSeriesSplicesFreshFast(t *testing.T) {
	s := NewState(utils.DefaultSessionWindow())
	require.True(t, s.Apply(chartUpdate(1, "nifty50", 10, 11, 12)))

	fast := freshFast()
	fast.History = []models.MPricePoint{
		{Timestamp: "2024-03-15 09:16:20", Value: 20},
		{Timestamp: "2024-03-15 09:16:50", Value: 21},
		{Timestamp: "2024-03-15 09:18:05", Value: 22},
	}
	require.True(t, s.Apply(fastUpdate(1, fast)))

	series := s.Series("nifty50", today)
	assert.Equal(t, []string{"09:15", "09:16", "09:18"}, series.Labels)
	assert.Equal(t, []float64{10, 21, 22}, series.Values)

	stale := s.Series("nifty50", "2024-03-16")
	assert.Equal(t, []string{"09:15", "09:16", "09:17"}, stale.Labels)
}

func TestStateUnknownKindRejected(t *testing.T) {
	s := NewState(utils.DefaultSessionWindow())
	assert.False(t, s.Apply(&models.MSourceUpdate{Kind: "bogus", Seq: 1}))
	assert.False(t, s.Apply(nil))
	assert.Zero(t, s.Metrics().AppliedUpdates)
}

func TestStateBankniftyWithoutFastData(t *testing.T) {
	s := NewState(utils.DefaultSessionWindow())
	require.True(t, s.Apply(fastUpdate(1, freshFast())))
	require.True(t, s.Apply(chartUpdate(1, "banknifty", 47000, 47100)))
	require.True(t, s.Apply(&models.MSourceUpdate{
		Kind: models.SourceQuotes, Seq: 1,
		Quotes: map[string]models.MIndexQuote{"banknifty": {Value: 47100, Change: 250, PercentChange: 0.53}},
	}))

	assert.Nil(t, s.Fast("banknifty"))

	rec, ok := s.Detail("banknifty", today)
	require.True(t, ok)
	assert.Equal(t, 47100.0, rec.Value)
	assert.Equal(t, models.SourceQuotes, rec.ValueSource)
	assert.Equal(t, 47000.0, rec.Open)

	series := s.Series("banknifty", today)
	assert.Equal(t, []string{"09:15", "09:16"}, series.Labels)
}

func TestStateEmptyFastPayloadClearsSnapshots(t *testing.T) {
	s := NewState(utils.DefaultSessionWindow())

	fast := freshFast()
	fast.Entity = "banknifty"
	fast.Value = 47000
	require.True(t, s.Apply(fastUpdate(1, fast)))
	require.True(t, s.Apply(fastUpdate(2)))
	assert.Nil(t, s.Fast("banknifty"))

	quotes := &models.MSourceUpdate{Kind: models.SourceQuotes, Seq: 3, Quotes: map[string]models.MIndexQuote{"banknifty": {Value: 48500}}}
	require.True(t, s.Apply(quotes))

	card, ok := s.Card("banknifty", today)
	require.True(t, ok)
	assert.Equal(t, 48500.0, card.Value)
	assert.Equal(t, models.SourceQuotes, card.ValueSource)
}

func TestStateQuotesReplacedWholesale(t *testing.T) {
	s := NewState(utils.DefaultSessionWindow())

	require.True(t, s.Apply(&models.MSourceUpdate{Kind: models.SourceQuotes, Seq: 1, Quotes: map[string]models.MIndexQuote{"nifty50": {Value: 22000}, "sensex": {Value: 73000}}}))
	require.True(t, s.Apply(&models.MSourceUpdate{Kind: models.SourceQuotes, Seq: 2, Quotes: map[string]models.MIndexQuote{"nifty50": {Value: 22010}}}))

	assert.Equal(t, 22010.0, s.Slow("nifty50").Quote.Value)
	assert.Nil(t, s.Slow("sensex").Quote)
}

func TestStateSeriesIgnoresYesterdayTail(t *testing.T) {
	s := NewState(utils.DefaultSessionWindow())
	require.True(t, s.Apply(chartUpdate(1, "nifty50", 1, 2, 3)))

	fast := freshFast()
	fast.History = []models.MPricePoint{
		{Timestamp: "2024-03-14 15:29:00", Value: 90},
		{Timestamp: "2024-03-15 xx:yy", Value: 100},
	}
	require.True(t, s.Apply(fastUpdate(1, fast)))

	series := s.Series("nifty50", today)
	assert.Equal(t, []string{"09:15", "09:16", "09:17"}, series.Labels)
	assert.Equal(t, []float64{1, 2, 3}, series.Values)

	card, ok := s.Card("nifty50", today)
	require.True(t, ok)
	assert.False(t, card.Live)
	assert.Equal(t, models.SourceChart, card.ValueSource)
	assert.Equal(t, 3.0, card.Value)
}

func TestStateFlowsSequenceGated(t *testing.T) {
	s := NewState(utils.DefaultSessionWindow())
	assert.Nil(t, s.Flows())

	require.True(t, s.Apply(&models.MSourceUpdate{Kind: models.SourceFlows, Seq: 2, Flows: &models.MFlowSnapshot{FIINet: 10, DIINet: 5, TotalNet: 15}}))
	assert.False(t, s.Apply(&models.MSourceUpdate{Kind: models.SourceFlows, Seq: 1, Flows: &models.MFlowSnapshot{FIINet: 99}}))

	flows := s.Flows()
	require.NotNil(t, flows)
	assert.Equal(t, 15.0, flows.TotalNet)
	assert.Equal(t, uint64(1), s.Metrics().DroppedOutOfOrder)
}
