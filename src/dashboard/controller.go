package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"live-indices/src/config"
	"live-indices/src/helpers"
	"live-indices/src/interfaces"
	"live-indices/src/logger"
	"live-indices/src/models"
	"live-indices/src/observability"
	"live-indices/src/reconciler"
	"live-indices/src/render"
	"live-indices/src/utils"
)

// Controller owns the reconciliation state, the selection and the page
// document. Poll completions, selection changes and visibility changes are
// applied one at a time under mu.
type Controller struct {
	Config    *config.Config
	Logger    *logger.Logger
	Metrics   *observability.Metrics
	Scheduler *utils.MarketScheduler

	poller     interfaces.IPoller
	exchangers []interfaces.IDataExchanger
	publisher  interfaces.IRecordPublisher

	mu    sync.Mutex
	state *reconciler.State
	doc   *render.Document
	sink  *render.Sink

	selMu    sync.RWMutex
	selected string

	baseCtx  context.Context
	entities []models.MEntity
	known    map[string]struct{}
	loc      *time.Location
	now      func() time.Time
}

// -----------------------------------------------------------------------------

func NewController(cfg *config.Config, log *logger.Logger) (*Controller, error) {
	window, err := utils.ParseSessionWindow(cfg.Session.Start, cfg.Session.End)
	if err != nil {
		return nil, helpers.NewValidationError("session window", err)
	}
	loc, err := time.LoadLocation(cfg.Session.Timezone)
	if err != nil {
		return nil, helpers.NewValidationError("session timezone", err)
	}

	doc := render.NewDocument(cfg.Page, cfg.Entities)
	known := make(map[string]struct{}, len(cfg.Entities))
	for _, e := range cfg.Entities {
		known[e.Key] = struct{}{}
	}

	return &Controller{
		Config:   cfg,
		Logger:   log,
		state:    reconciler.NewState(window),
		doc:      doc,
		sink:     render.NewSink(doc, cfg.Entities),
		selected: cfg.DefaultEntity,
		baseCtx:  context.Background(),
		entities: append([]models.MEntity(nil), cfg.Entities...),
		known:    known,
		loc:      loc,
		now:      time.Now,
	}, nil
}

// -----------------------------------------------------------------------------

// AttachPoller sets the poller driven by Start/Stop/SetVisible/Select.
func (c *Controller) AttachPoller(p interfaces.IPoller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poller = p
}

// AddExchanger registers a receiver of every view broadcast.
func (c *Controller) AddExchanger(ex interfaces.IDataExchanger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exchangers = append(c.exchangers, ex)
}

// SetPublisher registers the record publisher (NATS).
func (c *Controller) SetPublisher(pub interfaces.IRecordPublisher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publisher = pub
}

// SetClock overrides the clock used for "today", for tests.
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// -----------------------------------------------------------------------------

// Start begins polling under ctx. Calling it while running is a no-op.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.baseCtx = ctx
	p := c.poller
	c.mu.Unlock()

	if p != nil && p.Start(ctx) {
		c.Logger.Info("Polling started")
		c.broadcast()
	}
}

// Stop ends polling. Calling it while stopped is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	p := c.poller
	c.mu.Unlock()

	if p != nil && p.Stop() {
		c.Logger.Info("Polling stopped")
		c.broadcast()
	}
}

// SetVisible maps page visibility onto the two-state poll lifecycle.
func (c *Controller) SetVisible(visible bool) {
	if visible {
		c.mu.Lock()
		ctx := c.baseCtx
		c.mu.Unlock()
		c.Start(ctx)
		return
	}
	c.Stop()
}

// Running reports whether polling is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	p := c.poller
	c.mu.Unlock()
	return p != nil && p.Running()
}

// -----------------------------------------------------------------------------

// Selected returns the selected entity key.
func (c *Controller) Selected() string {
	c.selMu.RLock()
	defer c.selMu.RUnlock()
	return c.selected
}

// Entities returns the tracked entities in display order.
func (c *Controller) Entities() []models.MEntity {
	return append([]models.MEntity(nil), c.entities...)
}

// Select switches the detail panel and chart to entity, re-fetches its
// full-day series and re-renders immediately from cached data.
func (c *Controller) Select(entity string) error {
	if _, ok := c.known[entity]; !ok {
		return helpers.NewValidationError(fmt.Sprintf("select %q", entity), helpers.ErrUnknownEntity)
	}

	c.selMu.Lock()
	c.selected = entity
	c.selMu.Unlock()

	c.Metrics.RecordSelection(entity)

	c.mu.Lock()
	p := c.poller
	c.mu.Unlock()
	if p != nil {
		p.RefreshChart(entity)
	}

	c.mu.Lock()
	c.renderSelected(entity, c.today())
	c.mu.Unlock()

	c.Logger.Debug("Selected %s", entity)
	c.broadcast()
	return nil
}

// -----------------------------------------------------------------------------

// Run applies poll completions until ctx is done or updates is closed.
func (c *Controller) Run(ctx context.Context, updates <-chan *models.MSourceUpdate) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			c.Apply(u)
		}
	}
}

// -----------------------------------------------------------------------------

// Apply runs one completion through the pipeline: stale-run check, sequence
// check, state update, arbitration, render, publish, broadcast.
func (c *Controller) Apply(u *models.MSourceUpdate) bool {
	if u == nil {
		return false
	}

	c.mu.Lock()
	if c.poller != nil && (!c.poller.Running() || u.Epoch != c.poller.Epoch()) {
		c.state.NoteDroppedAfterStop()
		c.mu.Unlock()
		c.Metrics.RecordDropped(string(u.Kind), "stopped")
		c.Logger.Debug("Dropped %s completion from a stopped run (epoch %d)", u.Kind, u.Epoch)
		return false
	}

	if !c.state.Apply(u) {
		c.mu.Unlock()
		c.Metrics.RecordDropped(string(u.Kind), "out_of_order")
		c.Logger.Debug("Dropped out-of-order %s completion (seq %d)", u.Kind, u.Seq)
		return false
	}
	c.Metrics.RecordApplied(string(u.Kind))

	today := c.today()
	selected := c.Selected()

	cards := c.renderCards(today)
	detail, hasDetail := c.renderSelected(selected, today)
	if flows := c.state.Flows(); flows != nil {
		c.sink.RenderFlows(*flows)
	}
	pub := c.publisher
	c.mu.Unlock()

	if u.Kind == models.SourceFast {
		for _, e := range c.entities {
			fast := u.Fast[e.Key]
			c.Metrics.SetFresh(e.Key, reconciler.IsFresh(fast.History, today))
		}
	}

	if pub != nil {
		c.publish(pub, u, cards, detail, hasDetail)
	}

	c.broadcast()
	return true
}

// -----------------------------------------------------------------------------

// renderCards arbitrates and renders every card. Caller holds mu.
func (c *Controller) renderCards(today string) map[string]models.MCardRecord {
	out := make(map[string]models.MCardRecord, len(c.entities))
	for _, e := range c.entities {
		card, ok := c.state.Card(e.Key, today)
		if !ok {
			continue
		}
		c.sink.RenderCard(card)
		out[e.Key] = card
	}
	return out
}

// renderSelected arbitrates and renders the detail panel and chart. Caller holds mu.
func (c *Controller) renderSelected(entity, today string) (models.MDisplayRecord, bool) {
	rec, ok := c.state.Detail(entity, today)
	if ok {
		c.sink.RenderDetail(rec)
	}

	series := c.state.Series(entity, today)
	c.sink.RenderChart(c.doc.ChartID(), entity, series, rec.Change)
	return rec, ok
}

// -----------------------------------------------------------------------------

// publish ships the records touched by u. Failures are logged only.
func (c *Controller) publish(pub interfaces.IRecordPublisher, u *models.MSourceUpdate, cards map[string]models.MCardRecord, detail models.MDisplayRecord, hasDetail bool) {
	touched := func(key string) bool {
		switch u.Kind {
		case models.SourceFast:
			_, ok := u.Fast[key]
			return ok
		case models.SourceQuotes:
			_, ok := u.Quotes[key]
			return ok
		default:
			return u.Entity == key
		}
	}

	for key, card := range cards {
		if !touched(key) {
			continue
		}
		err := pub.PublishCard(card)
		c.Metrics.RecordPublish(err)
		if err != nil {
			c.Logger.Warning("Publish card %s failed: %v", key, err)
		}
	}

	if hasDetail {
		err := pub.PublishDisplay(detail)
		c.Metrics.RecordPublish(err)
		if err != nil {
			c.Logger.Warning("Publish detail %s failed: %v", detail.Entity, err)
		}
	}
}

// -----------------------------------------------------------------------------

// View returns a private copy of the page document with status fields filled in.
func (c *Controller) View() *models.MViewState {
	running := c.Running()
	marketOpen := false
	if c.Scheduler != nil {
		marketOpen = c.Scheduler.MarketOpen()
	}

	c.mu.Lock()
	view := c.doc.View().Clone()
	now := c.now()
	c.mu.Unlock()

	view.Type = "UPDATE"
	view.Selected = c.Selected()
	view.Running = running
	view.MarketOpen = marketOpen
	view.Timestamp = now.UnixMilli()
	return view
}

// PipelineMetrics returns the reconciliation counters.
func (c *Controller) PipelineMetrics() models.MPipelineMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Metrics()
}

// -----------------------------------------------------------------------------

func (c *Controller) broadcast() {
	c.mu.Lock()
	exchangers := append([]interfaces.IDataExchanger(nil), c.exchangers...)
	c.mu.Unlock()

	if len(exchangers) == 0 {
		return
	}

	view := c.View()
	for _, ex := range exchangers {
		ex.Broadcast(view.Clone())
	}
	c.Metrics.RecordBroadcast(time.UnixMilli(view.Timestamp))
}

// today is the exchange calendar date. Caller holds mu.
func (c *Controller) today() string {
	return reconciler.Today(c.now(), c.loc)
}
