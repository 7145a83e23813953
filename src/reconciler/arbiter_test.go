package reconciler

import (
	"testing"

	"live-indices/src/models"

	"github.com/stretchr/testify/assert"
)

const today = "2024-03-15"

func ptr(v float64) *float64 { return &v }

func freshFast() *models.MFastSnapshot {
	return &models.MFastSnapshot{
		Entity:        "nifty50",
		Value:         22100,
		Change:        15,
		PercentChange: 0.07,
		Open:          ptr(22080),
		High:          ptr(22110),
		Low:           ptr(22070),
		History:       history("2024-03-15 12:05:01", "2024-03-15 12:05:59"),
	}
}

func staleFast() *models.MFastSnapshot {
	f := freshFast()
	f.History = history("2024-03-14 15:29:59")
	return f
}

func quote() *models.MIndexQuote {
	return &models.MIndexQuote{
		Entity:        "nifty50",
		Value:         22050,
		Change:        98.4,
		PercentChange: 0.45,
		Open:          21990,
		High:          22150,
		Low:           21950,
	}
}

func dayOHLC() *models.MDayOHLC {
	return &models.MDayOHLC{Open: 21995, High: 22160, Low: 21940, Close: 22040}
}

func TestArbitrateDetailFieldIndependence(t *testing.T) {
	rec, ok := ArbitrateDetail("nifty50", freshFast(), SlowView{Quote: quote(), OHLC: dayOHLC()}, today)

	assert.True(t, ok)
	assert.True(t, rec.Live)
	assert.Equal(t, models.SourceFast, rec.ValueSource)
	assert.Equal(t, 22100.0, rec.Value)
	assert.Equal(t, 98.4, rec.Change)
	assert.Equal(t, 0.45, rec.PercentChange)
	assert.Equal(t, 21995.0, rec.Open)
	assert.Equal(t, 22160.0, rec.High)
	assert.Equal(t, 21940.0, rec.Low)
}

func TestArbitrateDetailQuoteFillsMissingOHLC(t *testing.T) {
	rec, ok := ArbitrateDetail("nifty50", freshFast(), SlowView{Quote: quote()}, today)

	assert.True(t, ok)
	assert.Equal(t, 22100.0, rec.Value)
	assert.Equal(t, 21990.0, rec.Open)
	assert.Equal(t, 22150.0, rec.High)
	assert.Equal(t, 21950.0, rec.Low)
}

func TestArbitrateDetailFallsBackToFast(t *testing.T) {
	rec, ok := ArbitrateDetail("nifty50", freshFast(), SlowView{}, today)

	assert.True(t, ok)
	assert.Equal(t, 22100.0, rec.Value)
	assert.Equal(t, 15.0, rec.Change)
	assert.Equal(t, 0.07, rec.PercentChange)
	assert.Equal(t, 22080.0, rec.Open)
	assert.Equal(t, 22110.0, rec.High)
	assert.Equal(t, 22070.0, rec.Low)
}

func TestArbitrateDetailFastWithoutOHLC(t *testing.T) {
	f := freshFast()
	f.Open, f.High, f.Low = nil, nil, nil

	rec, ok := ArbitrateDetail("nifty50", f, SlowView{}, today)
	assert.True(t, ok)
	assert.Zero(t, rec.Open)
	assert.Zero(t, rec.High)
	assert.Zero(t, rec.Low)
}

func TestArbitrateDetailFastWithChartPercent(t *testing.T) {
	rec, ok := ArbitrateDetail("nifty50", freshFast(), SlowView{ChartPercent: ptr(1)}, today)

	assert.True(t, ok)
	assert.Equal(t, 22100.0, rec.Value)
	assert.Equal(t, 1.0, rec.PercentChange)
	assert.InDelta(t, 218.81, rec.Change, 0.01)
}

func TestArbitrateDetailStaleFastIgnored(t *testing.T) {
	rec, ok := ArbitrateDetail("nifty50", staleFast(), SlowView{Quote: quote(), OHLC: dayOHLC()}, today)

	assert.True(t, ok)
	assert.False(t, rec.Live)
	assert.Equal(t, models.SourceQuotes, rec.ValueSource)
	assert.Equal(t, 22050.0, rec.Value)
	assert.Equal(t, 98.4, rec.Change)
	assert.Equal(t, 0.45, rec.PercentChange)
	assert.Equal(t, 21995.0, rec.Open)
	assert.Equal(t, 22160.0, rec.High)
	assert.Equal(t, 21940.0, rec.Low)
}

func TestArbitrateDetailChartOnly(t *testing.T) {
	rec, ok := ArbitrateDetail("banknifty", nil, SlowView{OHLC: dayOHLC(), ChartPercent: ptr(1)}, today)

	assert.True(t, ok)
	assert.Equal(t, models.SourceChart, rec.ValueSource)
	assert.Equal(t, 22040.0, rec.Value)
	assert.Equal(t, 1.0, rec.PercentChange)
	assert.InDelta(t, 218.22, rec.Change, 0.01)
}

func TestArbitrateDetailNothing(t *testing.T) {
	_, ok := ArbitrateDetail("nifty50", nil, SlowView{}, today)
	assert.False(t, ok)

	_, ok = ArbitrateDetail("nifty50", staleFast(), SlowView{}, today)
	assert.False(t, ok)
}

func TestArbitrateCard(t *testing.T) {
	card, ok := ArbitrateCard("nifty50", freshFast(), SlowView{Quote: quote()}, today)
	assert.True(t, ok)
	assert.True(t, card.Live)
	assert.Equal(t, 22100.0, card.Value)
	assert.Equal(t, 0.07, card.PercentChange)

	card, ok = ArbitrateCard("nifty50", staleFast(), SlowView{Quote: quote()}, today)
	assert.True(t, ok)
	assert.False(t, card.Live)
	assert.Equal(t, 22050.0, card.Value)
	assert.Equal(t, 0.45, card.PercentChange)

	card, ok = ArbitrateCard("nifty50", nil, SlowView{OHLC: dayOHLC()}, today)
	assert.True(t, ok)
	assert.Equal(t, models.SourceChart, card.ValueSource)
	assert.Equal(t, 22040.0, card.Value)

	_, ok = ArbitrateCard("nifty50", staleFast(), SlowView{}, today)
	assert.False(t, ok)
}
