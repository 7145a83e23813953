package utils

import (
	"sync"
	"time"

	"live-indices/src/logger"
)

// MarketScheduler reports the exchange status shown next to the live cards.
type MarketScheduler struct {
	Calendar *TradingCalendar
	Logger   *logger.Logger
	now      func() time.Time
	mu       sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMarketScheduler(mic string, l *logger.Logger) *MarketScheduler {
	ms := &MarketScheduler{Logger: l, now: time.Now}
	ms.SetMIC(mic)
	return ms
}

// -----------------------------------------------------------------------------

// SetMIC swaps the exchange calendar.
func (ms *MarketScheduler) SetMIC(mic string) {
	cal := GetCalendar(mic)

	ms.mu.Lock()
	ms.Calendar = cal
	ms.mu.Unlock()

	if ms.Logger != nil {
		ms.Logger.Info("MarketScheduler: using calendar for '%s' (fallback=%v).", mic, cal.Fallback)
	}
}

// -----------------------------------------------------------------------------

// SetClock overrides the clock, for tests.
func (ms *MarketScheduler) SetClock(now func() time.Time) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.now = now
}

// -----------------------------------------------------------------------------

// MarketOpen checks whether the exchange is open right now.
func (ms *MarketScheduler) MarketOpen() bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if ms.Calendar == nil {
		return false
	}
	return ms.Calendar.IsOpenOnMinute(ms.now().UTC())
}

// -----------------------------------------------------------------------------

// Location returns the exchange timezone.
func (ms *MarketScheduler) Location() *time.Location {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if ms.Calendar == nil || ms.Calendar.Timezone == nil {
		return time.UTC
	}
	return ms.Calendar.Timezone
}
