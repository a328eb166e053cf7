package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompareDay(t *testing.T) {
	now := day("2023-10-01 18:30")

	tests := []struct {
		in      string
		wantCmp int
		wantOK  bool
	}{
		{in: "2023-09-30", wantCmp: -1, wantOK: true},
		{in: "2023-10-01", wantCmp: 0, wantOK: true},
		{in: "2023-10-02", wantCmp: 1, wantOK: true},
		{in: "2023/10/02", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cmp, ok := CompareDay(tt.in, now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCmp, cmp)
		})
	}
}

func TestPastAndUpcomingAreExclusive(t *testing.T) {
	now := day("2023-10-01 00:00")

	assert.True(t, IsPastDay("2023-09-30", now))
	assert.False(t, IsTodayOrLater("2023-09-30", now))

	assert.False(t, IsPastDay("2023-10-01", now))
	assert.True(t, IsTodayOrLater("2023-10-01", now))

	assert.False(t, IsPastDay("not a date", now))
	assert.False(t, IsTodayOrLater("not a date", now))
}

func TestCompareDayUsesLocationOfNow(t *testing.T) {
	taipei := time.FixedZone("UTC+8", 8*60*60)
	// 2023-10-01 20:00 UTC is already 2023-10-02 in Taipei.
	now := time.Date(2023, 10, 1, 20, 0, 0, 0, time.UTC).In(taipei)

	assert.True(t, IsPastDay("2023-10-01", now))
	assert.True(t, IsTodayOrLater("2023-10-02", now))
}
