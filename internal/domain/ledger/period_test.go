package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	utc := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name      string
		date      string
		start     string
		end       string
		wantKind  PeriodKind
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{name: "all time", wantKind: PeriodAllTime},
		{name: "month", date: "2024-02", wantKind: PeriodMonth, wantStart: utc(2024, 2, 1), wantEnd: utc(2024, 3, 1)},
		{name: "december rolls over", date: "2023-12", wantKind: PeriodMonth, wantStart: utc(2023, 12, 1), wantEnd: utc(2024, 1, 1)},
		{name: "day", date: "2024-02-29", wantKind: PeriodDay, wantStart: utc(2024, 2, 29), wantEnd: utc(2024, 3, 1)},
		{name: "range end inclusive", start: "2024-01-10", end: "2024-01-20", wantKind: PeriodRange, wantStart: utc(2024, 1, 10), wantEnd: utc(2024, 1, 21)},
		{name: "range missing end", start: "2024-01-10", wantErr: true},
		{name: "range reversed", start: "2024-01-20", end: "2024-01-10", wantErr: true},
		{name: "date with range", date: "2024-01", start: "2024-01-01", wantErr: true},
		{name: "bad month", date: "2024-13", wantErr: true},
		{name: "odd length", date: "2024-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePeriod(tt.date, tt.start, tt.end)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, p.Kind)
			assert.True(t, tt.wantStart.Equal(p.Start))
			assert.True(t, tt.wantEnd.Equal(p.End))
		})
	}
}

func TestParseMonth_Strict(t *testing.T) {
	_, err := ParseMonth("2024-03-01")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	p, err := ParseMonth("2024-03")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", p.Label)
}

func TestPeriod_Contains(t *testing.T) {
	p, err := ParseMonth("2024-03")
	require.NoError(t, err)

	assert.True(t, p.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, AllTime().Contains(time.Time{}))
}

func TestPeriod_Previous(t *testing.T) {
	p := MonthOf(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-01", p.Label)
	assert.Equal(t, "2023-12", p.Previous().Label)
}
