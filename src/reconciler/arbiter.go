package reconciler

import "live-indices/src/models"

// SlowView is everything the authoritative feeds know about one entity.
// Any field may be nil when that feed has not delivered yet.
type SlowView struct {
	Quote        *models.MIndexQuote // /api/nse-indices
	OHLC         *models.MDayOHLC    // derived from the last non-empty chart
	ChartPercent *float64            // percent field of the last chart payload
}

// -----------------------------------------------------------------------------

// ArbitrateDetail assembles the detail panel record for one entity.
//
// With fresh fast data the fast feed supplies the value, while open, high and
// low come from the day OHLC (then the quote) and change and percent come
// from the quote, each falling back to the fast value on its own. Without
// fresh fast data the slow feeds supply every field and the fast snapshot is
// ignored. ok is false when there is nothing to show.
func ArbitrateDetail(entity string, fast *models.MFastSnapshot, slow SlowView, today string) (models.MDisplayRecord, bool) {
	rec := models.MDisplayRecord{Entity: entity}

	if fast != nil && IsFresh(fast.History, today) {
		rec.Value = fast.Value
		rec.ValueSource = models.SourceFast
		rec.Live = true

		open, high, low := slow.dayRange()
		rec.Open = firstPositive(open, deref(fast.Open))
		rec.High = firstPositive(high, deref(fast.High))
		rec.Low = firstPositive(low, deref(fast.Low))

		if slow.Quote != nil {
			rec.Change = slow.Quote.Change
			rec.PercentChange = slow.Quote.PercentChange
		} else if slow.ChartPercent != nil {
			rec.PercentChange = *slow.ChartPercent
			rec.Change = changeFromPercent(fast.Value, *slow.ChartPercent)
		} else {
			rec.Change = fast.Change
			rec.PercentChange = fast.PercentChange
		}
		return rec, true
	}

	switch {
	case slow.Quote != nil:
		q := slow.Quote
		rec.Value = q.Value
		rec.Change = q.Change
		rec.PercentChange = q.PercentChange
		rec.ValueSource = models.SourceQuotes
		rec.Open, rec.High, rec.Low = slow.dayRange()
		if rec.Value == 0 && slow.OHLC != nil {
			rec.Value = slow.OHLC.Close
		}
		return rec, true

	case slow.OHLC != nil:
		o := slow.OHLC
		rec.Value = o.Close
		rec.Open, rec.High, rec.Low = o.Open, o.High, o.Low
		rec.ValueSource = models.SourceChart
		if slow.ChartPercent != nil {
			rec.PercentChange = *slow.ChartPercent
			rec.Change = changeFromPercent(o.Close, *slow.ChartPercent)
		}
		return rec, true
	}

	return rec, false
}

// -----------------------------------------------------------------------------

// ArbitrateCard assembles the summary card for one entity. Fresh fast data
// wins value, change and percent; otherwise the quote, then the chart close.
func ArbitrateCard(entity string, fast *models.MFastSnapshot, slow SlowView, today string) (models.MCardRecord, bool) {
	card := models.MCardRecord{Entity: entity}

	switch {
	case fast != nil && IsFresh(fast.History, today):
		card.Value = fast.Value
		card.Change = fast.Change
		card.PercentChange = fast.PercentChange
		card.ValueSource = models.SourceFast
		card.Live = true

	case slow.Quote != nil:
		card.Value = slow.Quote.Value
		card.Change = slow.Quote.Change
		card.PercentChange = slow.Quote.PercentChange
		card.ValueSource = models.SourceQuotes

	case slow.OHLC != nil:
		card.Value = slow.OHLC.Close
		card.ValueSource = models.SourceChart
		if slow.ChartPercent != nil {
			card.PercentChange = *slow.ChartPercent
			card.Change = changeFromPercent(slow.OHLC.Close, *slow.ChartPercent)
		}

	default:
		return card, false
	}

	return card, true
}

// -----------------------------------------------------------------------------

// changeFromPercent recovers the absolute change from a close and its percent move.
func changeFromPercent(last, percent float64) float64 {
	base := 1 + percent/100
	if base == 0 {
		return 0
	}
	return last - last/base
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// dayRange picks open, high and low from the day OHLC, then the quote.
func (s SlowView) dayRange() (open, high, low float64) {
	if s.OHLC != nil {
		open, high, low = s.OHLC.Open, s.OHLC.High, s.OHLC.Low
	}
	if s.Quote != nil {
		open = firstPositive(open, s.Quote.Open)
		high = firstPositive(high, s.Quote.High)
		low = firstPositive(low, s.Quote.Low)
	}
	return open, high, low
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
