package reconciler

import (
	"time"

	"live-indices/src/models"
	"live-indices/src/utils"
)

type slot struct {
	kind   models.MSourceKind
	entity string
}

// State holds the caches shared by the poll pipelines.
// It is not safe for concurrent use; the owner serialises access.
type State struct {
	window utils.SessionWindow

	fast   map[string]models.MFastSnapshot
	quotes map[string]models.MIndexQuote
	charts map[string]*models.MChartSnapshot
	bases  map[string]models.MBaseChartCache
	ohlc   map[string]models.MDayOHLC
	flows  *models.MFlowSnapshot

	lastSeq map[slot]uint64
	metrics models.MPipelineMetrics
}

// -----------------------------------------------------------------------------

func NewState(window utils.SessionWindow) *State {
	return &State{
		window:  window,
		fast:    make(map[string]models.MFastSnapshot),
		quotes:  make(map[string]models.MIndexQuote),
		charts:  make(map[string]*models.MChartSnapshot),
		bases:   make(map[string]models.MBaseChartCache),
		ohlc:    make(map[string]models.MDayOHLC),
		lastSeq: make(map[slot]uint64),
	}
}

// -----------------------------------------------------------------------------

// Apply stores one poll completion. It returns false, storing nothing, when
// a later fetch of the same source and entity has already been applied.
// Seq 0 is never ordered against other completions.
func (s *State) Apply(u *models.MSourceUpdate) bool {
	if u == nil {
		return false
	}

	key := slot{kind: u.Kind, entity: u.Entity}
	if u.Seq != 0 {
		if last, ok := s.lastSeq[key]; ok && u.Seq <= last {
			s.metrics.DroppedOutOfOrder++
			return false
		}
		s.lastSeq[key] = u.Seq
	}

	switch u.Kind {
	case models.SourceFast:
		// each payload replaces the previous one; absent entities have no fast data
		s.fast = make(map[string]models.MFastSnapshot, len(u.Fast))
		for k, snap := range u.Fast {
			s.fast[k] = snap
		}
	case models.SourceQuotes:
		s.quotes = make(map[string]models.MIndexQuote, len(u.Quotes))
		for k, q := range u.Quotes {
			s.quotes[k] = q
		}
	case models.SourceChart:
		s.applyChart(u.Chart)
	case models.SourceFlows:
		if u.Flows != nil {
			f := *u.Flows
			s.flows = &f
		}
	default:
		return false
	}

	s.metrics.AppliedUpdates++
	at := u.ReceivedAt
	if at.IsZero() {
		at = time.Now()
	}
	s.metrics.LastApplied = at.UnixMilli()
	return true
}

// -----------------------------------------------------------------------------

func (s *State) applyChart(chart *models.MChartSnapshot) {
	if chart == nil || chart.Entity == "" {
		return
	}
	s.charts[chart.Entity] = chart

	// base and OHLC survive empty or out-of-session payloads
	base, ohlc, ok := BuildBase(chart, s.window)
	if !ok {
		return
	}
	s.bases[chart.Entity] = base
	s.ohlc[chart.Entity] = ohlc
}

// -----------------------------------------------------------------------------

// NoteDroppedAfterStop counts a completion discarded because its poller run ended.
func (s *State) NoteDroppedAfterStop() {
	s.metrics.DroppedAfterStop++
}

// Metrics returns a copy of the pipeline counters.
func (s *State) Metrics() models.MPipelineMetrics {
	return s.metrics
}

// -----------------------------------------------------------------------------

// Fast returns the last fast snapshot of an entity, or nil.
func (s *State) Fast(entity string) *models.MFastSnapshot {
	snap, ok := s.fast[entity]
	if !ok {
		return nil
	}
	return &snap
}

// Flows returns the last institutional flows, or nil before the first poll.
func (s *State) Flows() *models.MFlowSnapshot {
	if s.flows == nil {
		return nil
	}
	f := *s.flows
	return &f
}

// Slow gathers what the authoritative feeds know about an entity.
func (s *State) Slow(entity string) SlowView {
	var view SlowView
	if q, ok := s.quotes[entity]; ok {
		view.Quote = &q
	}
	if o, ok := s.ohlc[entity]; ok {
		view.OHLC = &o
	}
	if c, ok := s.charts[entity]; ok && c.Percent != nil {
		p := *c.Percent
		view.ChartPercent = &p
	}
	return view
}

// Base returns the cached base series of an entity, or nil.
func (s *State) Base(entity string) *models.MBaseChartCache {
	b, ok := s.bases[entity]
	if !ok {
		return nil
	}
	return &b
}

// -----------------------------------------------------------------------------

// Detail arbitrates the detail panel for an entity.
func (s *State) Detail(entity, today string) (models.MDisplayRecord, bool) {
	return ArbitrateDetail(entity, s.Fast(entity), s.Slow(entity), today)
}

// Card arbitrates the summary card for an entity.
func (s *State) Card(entity, today string) (models.MCardRecord, bool) {
	return ArbitrateCard(entity, s.Fast(entity), s.Slow(entity), today)
}

// Series builds the chart series for an entity: the base spliced with the
// minute-bucketed live tail when fast data is fresh, the base alone otherwise.
func (s *State) Series(entity, today string) models.MSeries {
	base := s.Base(entity)
	fast := s.Fast(entity)
	if fast == nil || !IsFresh(fast.History, today) {
		return Splice(base, models.MSeries{})
	}
	return Splice(base, DedupMinutes(fast.History, today))
}
