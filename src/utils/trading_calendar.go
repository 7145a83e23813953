package utils

import (
	"log"
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers "is the exchange open" using scmhub/calendar.
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

// GetCalendar loads the exchange calendar for a MIC (ISO 10383).
// Indian exchanges fall back to a Mon-Fri 09:15-15:30 IST rule when the
// library carries no calendar for them.
func GetCalendar(mic string) *TradingCalendar {
	mic = strings.ToLower(strings.TrimSpace(mic))
	if mic == "" {
		mic = DefaultMIC
	}

	cal := calendar.GetCalendar(mic)
	if cal == nil && mic == "xbom" {
		// NSE and BSE share a holiday list
		cal = calendar.GetCalendar(DefaultMIC)
	}

	if cal == nil {
		log.Printf("WARNING: No calendar for MIC '%s'. Using simple fallback (Mon-Fri 09:15-15:30 IST).", mic)
		loc, err := time.LoadLocation(DefaultTimezone)
		if err != nil {
			loc = time.FixedZone("IST", 5*3600+1800)
		}
		return &TradingCalendar{Fallback: true, Timezone: loc}
	}

	return &TradingCalendar{Calendar: cal, Fallback: false, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// IsOpenOnMinute checks if the market is open at a specific minute.
func (tc *TradingCalendar) IsOpenOnMinute(t time.Time) bool {
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	if tc.Fallback {
		if !tc.IsTradingDay(t) {
			return false
		}

		m := t.Hour()*60 + t.Minute()
		return m >= NSEOpenHour*60+NSEOpenMinute && m < NSECloseHour*60+NSECloseMinute
	}

	return tc.Calendar.IsOpen(t)
}
