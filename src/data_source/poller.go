package datasource

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"live-indices/src/helpers"
	"live-indices/src/interfaces"
	"live-indices/src/logger"
	"live-indices/src/models"
	"live-indices/src/observability"
)

// Intervals are the poll cadences.
type Intervals struct {
	Fast   time.Duration
	Medium time.Duration
	Slow   time.Duration
}

// Sources are the feeds the poller drives. A nil feed is not polled.
type Sources struct {
	Fast   interfaces.IDataSource // all entities
	Quotes interfaces.IDataSource // all entities
	Chart  interfaces.IDataSource // selected entity only
	Flows  interfaces.IDataSource // market wide, medium cadence
}

// -----------------------------------------------------------------------------

// Poller runs one timer per feed and pushes completed polls to out.
//
// Every fetch is issued under the context of the current run; Stop cancels
// it, aborting requests in flight. Each completion carries the run epoch and
// a per-source sequence number taken when the fetch was issued, so the
// consumer can discard completions that arrive late or out of order.
type Poller struct {
	sources   Sources
	intervals Intervals
	selected  func() string
	out       chan<- *models.MSourceUpdate
	Logger    *logger.Logger
	Metrics   *observability.Metrics

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	ctx     context.Context
	wg      sync.WaitGroup

	epoch  atomic.Uint64
	timers atomic.Int32
	seq    map[models.MSourceKind]*atomic.Uint64
}

// -----------------------------------------------------------------------------

// NewPoller wires the feeds. selected is read at fire time by the chart timer.
func NewPoller(sources Sources, intervals Intervals, selected func() string, out chan<- *models.MSourceUpdate, log *logger.Logger) *Poller {
	return &Poller{
		sources:   sources,
		intervals: intervals,
		selected:  selected,
		out:       out,
		Logger:    log,
		seq: map[models.MSourceKind]*atomic.Uint64{
			models.SourceFast:   {},
			models.SourceQuotes: {},
			models.SourceChart:  {},
			models.SourceFlows:  {},
		},
	}
}

// -----------------------------------------------------------------------------

// Start launches one timer per configured feed, each firing immediately.
// It returns false when the poller was already running.
func (p *Poller) Start(parentCtx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return false
	}

	ctx, cancel := context.WithCancel(parentCtx)
	p.ctx = ctx
	p.cancel = cancel
	p.running = true
	epoch := p.epoch.Add(1)

	p.launch(ctx, epoch, p.sources.Fast, p.intervals.Fast, false)
	p.launch(ctx, epoch, p.sources.Quotes, p.intervals.Medium, false)
	p.launch(ctx, epoch, p.sources.Chart, p.intervals.Slow, true)
	p.launch(ctx, epoch, p.sources.Flows, p.intervals.Medium, false)

	p.Metrics.SetPollerRunning(true, int(p.timers.Load()))
	p.Logger.Info("Poller started (epoch %d, %d timers)", epoch, p.timers.Load())
	return true
}

// -----------------------------------------------------------------------------

// Stop cancels the timers and every fetch in flight.
// It returns false when the poller was already stopped.
func (p *Poller) Stop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return false
	}

	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = nil
	p.ctx = nil
	p.running = false

	p.Metrics.SetPollerRunning(false, 0)
	p.Logger.Info("Poller stopped (epoch %d)", p.epoch.Load())
	return true
}

// -----------------------------------------------------------------------------

// Wait blocks until every timer and fetch of stopped runs has returned.
func (p *Poller) Wait() {
	p.wg.Wait()
}

// Running reports whether the timers are active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Epoch identifies the current (or last) run.
func (p *Poller) Epoch() uint64 {
	return p.epoch.Load()
}

// ActiveTimers is the number of timer loops currently alive.
func (p *Poller) ActiveTimers() int {
	return int(p.timers.Load())
}

// -----------------------------------------------------------------------------

// RefreshChart performs one immediate chart fetch for entity under the current run.
// It returns false when the poller is stopped.
func (p *Poller) RefreshChart(entity string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running || p.sources.Chart == nil {
		return false
	}

	ctx := p.ctx
	epoch := p.epoch.Load()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.fetch(ctx, epoch, p.sources.Chart, entity)
	}()
	return true
}

// -----------------------------------------------------------------------------

func (p *Poller) launch(ctx context.Context, epoch uint64, src interfaces.IDataSource, interval time.Duration, perEntity bool) {
	if src == nil {
		return
	}
	if interval <= 0 {
		interval = time.Second
	}

	p.timers.Add(1)
	p.wg.Add(1)
	go p.runLoop(ctx, epoch, src, interval, perEntity)
}

// -----------------------------------------------------------------------------

// runLoop fires one fetch per tick. Fetches run in their own goroutines so
// a slow response never delays the next tick.
func (p *Poller) runLoop(ctx context.Context, epoch uint64, src interfaces.IDataSource, interval time.Duration, perEntity bool) {
	defer p.wg.Done()
	defer p.timers.Add(-1)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fire := func() {
		entity := ""
		if perEntity {
			if p.selected != nil {
				entity = p.selected()
			}
			if entity == "" {
				return
			}
		}
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.fetch(ctx, epoch, src, entity)
		}()
	}

	fire()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fire()
		}
	}
}

// -----------------------------------------------------------------------------

// fetch performs one poll and pushes the result. Every failure is swallowed.
func (p *Poller) fetch(ctx context.Context, epoch uint64, src interfaces.IDataSource, entity string) {
	counter, ok := p.seq[src.Kind()]
	if !ok {
		return
	}
	seq := counter.Add(1)

	started := time.Now()
	update, err := src.Fetch(ctx, entity)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			p.Metrics.RecordPoll(src.Name(), "cancelled", time.Since(started))
			return
		}
		p.Metrics.RecordPoll(src.Name(), helpers.Category(err), time.Since(started))
		p.Logger.Debug("%s poll dropped: %v", src.Name(), err)
		return
	}
	p.Metrics.RecordPoll(src.Name(), "ok", time.Since(started))

	update.Seq = seq
	update.Epoch = epoch
	if update.ReceivedAt.IsZero() {
		update.ReceivedAt = time.Now()
	}

	select {
	case p.out <- update:
	case <-ctx.Done():
	}
}
