package shift

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWallClock_AnchorsToDay(t *testing.T) {
	loc := time.FixedZone("store", -7*3600)
	day := time.Date(2026, 3, 8, 18, 42, 13, 500, loc)

	got, err := ParseWallClock("09:05", day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 8, 9, 5, 0, 0, loc), got)
}

func TestParseWallClock_Malformed(t *testing.T) {
	for _, in := range []string{"", "9", "25:00", "12:60", "ab:cd", "12:00pm"} {
		_, err := ParseWallClock(in, testDay)
		assert.ErrorIs(t, err, ErrInvalidWallClock, "输入 %q 应报错", in)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		0:           "0m",
		15:          "15m",
		59.4:        "59m",
		60:          "1h 0m",
		135:         "2h 15m",
		119.6:       "2h 0m",
		-20:         "-20m",
		math.Inf(1): "—",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatDuration(in), "FormatDuration(%v)", in)
	}
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2026, 10, 15, 13, 7, 0, 0, time.UTC)
	assert.Equal(t, "13:07", FormatClock(ts, TimeFormat24h))
	assert.Equal(t, "01:07 PM", FormatClock(ts, TimeFormat12h))
}

func TestNewPolicy_RejectsMisorderedThresholds(t *testing.T) {
	_, err := NewPolicy(5, 30, 60, 15)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = NewPolicy(5, 60, 30, 45)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = NewPolicy(0, 60, 30, 15)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = NewPolicy(1, 90, 30, 15)
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	p, err := NewPolicy(6, 45, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 360.0, p.DeadlineMinutes())
	assert.NoError(t, DefaultPolicy().Validate())
}
