package reconciler

import (
	"sort"

	"live-indices/src/models"
	"live-indices/src/utils"
)

// BuildBase turns a full-day chart payload into the base series and day OHLC.
// Samples are read as pseudo-UTC wall clock, filtered to the session window
// and ordered chronologically. Provided OHLC fields win over derived extrema.
// ok is false when no sample survives the window.
func BuildBase(chart *models.MChartSnapshot, window utils.SessionWindow) (models.MBaseChartCache, models.MDayOHLC, bool) {
	var base models.MBaseChartCache
	var ohlc models.MDayOHLC

	if chart == nil || len(chart.Series) == 0 {
		return base, ohlc, false
	}

	points := make([]models.MChartPoint, len(chart.Series))
	copy(points, chart.Series)
	sort.SliceStable(points, func(i, j int) bool { return points[i].EpochMillis < points[j].EpochMillis })

	for _, p := range points {
		n := utils.NaiveFromPseudoUTCMillis(p.EpochMillis)
		if !window.Contains(n) {
			continue
		}
		base.Labels = append(base.Labels, n.MinuteLabel())
		base.Values = append(base.Values, p.Price)
	}
	if base.Len() == 0 {
		return base, ohlc, false
	}

	high, low := base.Values[0], base.Values[0]
	for _, v := range base.Values[1:] {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}

	ohlc.Open = providedOr(chart.Open, base.Values[0])
	ohlc.High = providedOr(chart.High, high)
	ohlc.Low = providedOr(chart.Low, low)
	ohlc.Close = providedOr(chart.Close, base.Values[base.Len()-1])

	return base, ohlc, true
}

// -----------------------------------------------------------------------------

// DedupMinutes collapses per-second fast history into one point per HH:MM,
// keeping the latest reading of each minute. Only points dated session are
// kept (the date of the last parsable point when session is empty); malformed
// timestamps are skipped. Output is in label order.
func DedupMinutes(history []models.MPricePoint, session string) models.MSeries {
	type reading struct {
		at    utils.NaiveTime
		value float64
	}

	readings := make([]reading, 0, len(history))
	for _, p := range history {
		n, err := utils.ParseNaive(p.Timestamp)
		if err != nil {
			continue
		}
		readings = append(readings, reading{at: n, value: p.Value})
	}
	if len(readings) == 0 {
		return models.MSeries{}
	}

	if session == "" {
		session = readings[len(readings)-1].at.DateString()
	}

	sort.SliceStable(readings, func(i, j int) bool { return readings[i].at.Before(readings[j].at) })

	var out models.MSeries
	for _, r := range readings {
		if r.at.DateString() != session {
			continue
		}
		label := r.at.MinuteLabel()
		if n := out.Len(); n > 0 && out.Labels[n-1] == label {
			out.Values[n-1] = r.value
			continue
		}
		out.Labels = append(out.Labels, label)
		out.Values = append(out.Values, r.value)
	}
	return out
}

// -----------------------------------------------------------------------------

// Splice prepends the base points that precede the first live minute.
// With no base the live series is returned as is; with no live points the
// base is returned.
func Splice(base *models.MBaseChartCache, live models.MSeries) models.MSeries {
	if live.Len() == 0 {
		if base.Len() == 0 {
			return models.MSeries{}
		}
		return models.MSeries{
			Labels: append([]string(nil), base.Labels...),
			Values: append([]float64(nil), base.Values...),
		}
	}

	first := live.Labels[0]
	out := models.MSeries{
		Labels: make([]string, 0, base.Len()+live.Len()),
		Values: make([]float64, 0, base.Len()+live.Len()),
	}
	for i := 0; i < base.Len(); i++ {
		if base.Labels[i] >= first {
			break
		}
		out.Labels = append(out.Labels, base.Labels[i])
		out.Values = append(out.Values, base.Values[i])
	}
	out.Labels = append(out.Labels, live.Labels...)
	out.Values = append(out.Values, live.Values...)
	return out
}

// -----------------------------------------------------------------------------

func providedOr(v *float64, derived float64) float64 {
	if v != nil && *v > 0 {
		return *v
	}
	return derived
}
