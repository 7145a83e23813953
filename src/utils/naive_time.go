package utils

import (
	"fmt"
	"time"
)

// NaiveTime is an exchange wall-clock reading without a zone.
//
// The backend feeds encode IST readings in two ways: fast history entries as
// "YYYY-MM-DD HH:MM:SS" strings, and chart samples as epoch milliseconds whose
// UTC calendar fields are the IST reading. Both are decoded into NaiveTime
// without any zone conversion; only "now" is converted, from the service
// clock into the exchange timezone.
type NaiveTime struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// -----------------------------------------------------------------------------

// NaiveFromPseudoUTCMillis reads calendar fields straight off the epoch.
func NaiveFromPseudoUTCMillis(ms int64) NaiveTime {
	return naiveFrom(time.UnixMilli(ms).UTC())
}

// -----------------------------------------------------------------------------

// ParseNaive parses "YYYY-MM-DD HH:MM:SS". A bare "YYYY-MM-DD HH:MM" is accepted too.
func ParseNaive(s string) (NaiveTime, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		var errShort error
		t, errShort = time.Parse("2006-01-02 15:04", s)
		if errShort != nil {
			return NaiveTime{}, fmt.Errorf("malformed timestamp '%s': %w", s, err)
		}
	}
	return naiveFrom(t), nil
}

// -----------------------------------------------------------------------------

// NaiveNow converts the service clock into the exchange wall clock.
func NaiveNow(now time.Time, loc *time.Location) NaiveTime {
	if loc != nil {
		now = now.In(loc)
	}
	return naiveFrom(now)
}

// -----------------------------------------------------------------------------

func naiveFrom(t time.Time) NaiveTime {
	return NaiveTime{
		Year:   t.Year(),
		Month:  t.Month(),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// -----------------------------------------------------------------------------

// DateString formats the date part as YYYY-MM-DD.
func (n NaiveTime) DateString() string {
	return fmt.Sprintf("%04d-%02d-%02d", n.Year, int(n.Month), n.Day)
}

// MinuteLabel formats the time-of-day as HH:MM.
func (n NaiveTime) MinuteLabel() string {
	return fmt.Sprintf("%02d:%02d", n.Hour, n.Minute)
}

// MinuteOfDay returns minutes since midnight.
func (n NaiveTime) MinuteOfDay() int {
	return n.Hour*60 + n.Minute
}

// Before orders two readings chronologically.
func (n NaiveTime) Before(o NaiveTime) bool {
	if n.DateString() != o.DateString() {
		return n.DateString() < o.DateString()
	}
	if n.MinuteOfDay() != o.MinuteOfDay() {
		return n.MinuteOfDay() < o.MinuteOfDay()
	}
	return n.Second < o.Second
}

func (n NaiveTime) String() string {
	return fmt.Sprintf("%s %s:%02d", n.DateString(), n.MinuteLabel(), n.Second)
}

// -----------------------------------------------------------------------------

// SessionWindow is an inclusive time-of-day range, e.g. 09:00-15:30.
type SessionWindow struct {
	StartMinute int
	EndMinute   int
}

// ParseSessionWindow builds a window from two "HH:MM" strings.
func ParseSessionWindow(start, end string) (SessionWindow, error) {
	s, err := parseClock(start)
	if err != nil {
		return SessionWindow{}, err
	}
	e, err := parseClock(end)
	if err != nil {
		return SessionWindow{}, err
	}
	if e < s {
		return SessionWindow{}, fmt.Errorf("session end %s is before start %s", end, start)
	}
	return SessionWindow{StartMinute: s, EndMinute: e}, nil
}

// DefaultSessionWindow is 09:00-15:30.
func DefaultSessionWindow() SessionWindow {
	return SessionWindow{StartMinute: 9 * 60, EndMinute: 15*60 + 30}
}

// Contains reports whether the reading's time-of-day lies inside the window.
func (w SessionWindow) Contains(n NaiveTime) bool {
	m := n.MinuteOfDay()
	return m >= w.StartMinute && m <= w.EndMinute
}

func parseClock(s string) (int, error) {
	t, err := time.Parse(MinuteLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid HH:MM '%s': %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
