package reconciler

import (
	"testing"
	"time"

	"live-indices/src/models"

	"github.com/stretchr/testify/assert"
)

func history(ts ...string) []models.MPricePoint {
	out := make([]models.MPricePoint, 0, len(ts))
	for i, t := range ts {
		out = append(out, models.MPricePoint{Timestamp: t, Value: 100 + float64(i)})
	}
	return out
}

func TestIsFresh(t *testing.T) {
	today := "2024-03-15"

	tests := []struct {
		name    string
		history []models.MPricePoint
		want    bool
	}{
		{"empty", nil, false},
		{"today", history("2024-03-15 09:15:00", "2024-03-15 12:05:59"), true},
		{"yesterday", history("2024-03-14 15:29:59"), false},
		{"yesterday then today", history("2024-03-14 15:29:59", "2024-03-15 09:15:01"), true},
		{"today then stale tail", history("2024-03-15 09:15:01", "2024-03-14 15:29:59"), false},
		{"missing timestamp", history(""), false},
		{"short timestamp", history("2024-03"), false},
		{"malformed date", history("2024-13-45 09:15:00"), false},
		{"date only", history("2024-03-15"), false},
		{"malformed time", history("2024-03-14 15:29:00", "2024-03-15 xx:yy"), false},
		{"minute precision", history("2024-03-15 12:05"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFresh(tt.history, today))
		})
	}
}

func TestIsFreshWithoutToday(t *testing.T) {
	assert.False(t, IsFresh(history("2024-03-15 09:15:00"), ""))
}

func TestToday(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 3, 14, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-15", Today(now, ist))
}
