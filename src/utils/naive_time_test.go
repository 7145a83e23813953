package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaiveFromPseudoUTCMillis(t *testing.T) {
	// 2024-03-15 09:15:00 IST delivered as if it were UTC
	ms := time.Date(2024, 3, 15, 9, 15, 0, 0, time.UTC).UnixMilli()

	n := NaiveFromPseudoUTCMillis(ms)
	assert.Equal(t, "2024-03-15", n.DateString())
	assert.Equal(t, "09:15", n.MinuteLabel())
	assert.Equal(t, 9*60+15, n.MinuteOfDay())
}

func TestParseNaive(t *testing.T) {
	n, err := ParseNaive("2024-03-15 12:05:59")
	require.NoError(t, err)
	assert.Equal(t, "12:05", n.MinuteLabel())
	assert.Equal(t, 59, n.Second)

	short, err := ParseNaive("2024-03-15 12:05")
	require.NoError(t, err)
	assert.Equal(t, "12:05", short.MinuteLabel())

	for _, bad := range []string{"", "yesterday", "2024-03-15T12:05:59Z", "15/03/2024 12:05:00"} {
		_, err := ParseNaive(bad)
		assert.Error(t, err, bad)
	}
}

func TestNaiveNowUsesExchangeZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC is already the next day in India
	now := time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-16", NaiveNow(now, ist).DateString())
	assert.Equal(t, "2024-03-15", NaiveNow(now, nil).DateString())
}

func TestNaiveBefore(t *testing.T) {
	a, _ := ParseNaive("2024-03-14 15:29:00")
	b, _ := ParseNaive("2024-03-15 09:15:00")
	c, _ := ParseNaive("2024-03-15 09:15:01")

	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.False(t, c.Before(b))
}

func TestSessionWindow(t *testing.T) {
	w, err := ParseSessionWindow("09:00", "15:30")
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionWindow(), w)

	in := func(s string) bool {
		n, err := ParseNaive("2024-03-15 " + s)
		require.NoError(t, err)
		return w.Contains(n)
	}
	assert.False(t, in("08:59:59"))
	assert.True(t, in("09:00:00"))
	assert.True(t, in("15:30:40"))
	assert.False(t, in("15:31:00"))

	_, err = ParseSessionWindow("15:30", "09:00")
	assert.Error(t, err)
	_, err = ParseSessionWindow("9am", "15:30")
	assert.Error(t, err)
}
