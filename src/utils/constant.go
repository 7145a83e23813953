package utils

// -----------------------------------------------------------------------------

// Wall-clock layouts used by the backend feeds and the chart labels.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	MinuteLayout   = "15:04"
)

// Exchange defaults (NSE, India).
const (
	DefaultTimezone     = "Asia/Kolkata"
	DefaultMIC          = "xnse"
	DefaultSessionStart = "09:00"
	DefaultSessionEnd   = "15:30"
)

// Regular NSE trading hours, used when no exchange calendar is available.
const (
	NSEOpenHour    = 9
	NSEOpenMinute  = 15
	NSECloseHour   = 15
	NSECloseMinute = 30
)
