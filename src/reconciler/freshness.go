package reconciler

import (
	"time"

	"live-indices/src/models"
	"live-indices/src/utils"
)

// IsFresh reports whether a fast series belongs to today's session.
// today is "YYYY-MM-DD" in the exchange timezone. An empty series, or a last
// point without a fully parsable timestamp, is never fresh.
func IsFresh(history []models.MPricePoint, today string) bool {
	if len(history) == 0 || today == "" {
		return false
	}

	last, err := utils.ParseNaive(history[len(history)-1].Timestamp)
	if err != nil {
		return false
	}
	return last.DateString() == today
}

// -----------------------------------------------------------------------------

// Today returns the exchange calendar date for the given instant.
func Today(now time.Time, loc *time.Location) string {
	return utils.NaiveNow(now, loc).DateString()
}
