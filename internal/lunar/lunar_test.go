package lunar_test

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-tet/internal/lunar"
)

func TestTetDate_KnownYears(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		day   int
	}{
		{2020, time.January, 25},
		{2021, time.February, 12},
		{2022, time.February, 1},
		{2023, time.January, 22},
		{2024, time.February, 10},
		{2025, time.January, 29},
		{2026, time.February, 17},
		{2027, time.February, 6},
		{2028, time.January, 26},
		{2029, time.February, 13},
		{2030, time.February, 3},
		{2031, time.January, 23},
		{2032, time.February, 11},
		{2033, time.January, 31},
		{2034, time.February, 19},
		{2035, time.February, 8},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.year), func(t *testing.T) {
			got, err := lunar.TetDate(tt.year)
			require.NoError(t, err)

			assert.Equal(t, tt.year, got.Year())
			assert.Equal(t, tt.month, got.Month())
			assert.Equal(t, tt.day, got.Day())
			assert.Equal(t, time.Local, got.Location())

			// Local midnight
			assert.Zero(t, got.Hour())
			assert.Zero(t, got.Minute())
			assert.Zero(t, got.Second())
			assert.Zero(t, got.Nanosecond())
		})
	}
}

func TestTetDateIn_Location(t *testing.T) {
	hcm := time.FixedZone("ICT", 7*60*60)

	got, err := lunar.TetDateIn(2027, hcm)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, time.February, 6, 0, 0, 0, 0, hcm), got)

	// nil location falls back to time.Local
	got, err = lunar.TetDateIn(2027, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Local, got.Location())
}

func TestTetDate_UnknownYear(t *testing.T) {
	for _, year := range []int{1999, 2019, 2036, 0, -5} {
		t.Run(strconv.Itoa(year), func(t *testing.T) {
			got, err := lunar.TetDate(year)
			require.Error(t, err)
			assert.True(t, got.IsZero(), "no substitute date may be returned")
			assert.ErrorIs(t, err, lunar.ErrYearNotFound)

			var nf *lunar.YearNotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, year, nf.Year)
			assert.Equal(t, lunar.AvailableYears(), nf.Supported)

			msg := err.Error()
			assert.Contains(t, msg, strconv.Itoa(year))
			for _, y := range lunar.AvailableYears() {
				assert.Contains(t, msg, strconv.Itoa(y), "message must list every supported year")
			}
		})
	}
}

func TestAvailableYears(t *testing.T) {
	years := lunar.AvailableYears()
	require.Len(t, years, 16)
	assert.Equal(t, 2020, years[0])
	assert.Equal(t, 2035, years[len(years)-1])

	for i := 1; i < len(years); i++ {
		assert.Less(t, years[i-1], years[i], "years must be strictly ascending")
	}

	// Callers get their own copy
	years[0] = 1900
	assert.Equal(t, 2020, lunar.AvailableYears()[0])
}

func TestHasYear(t *testing.T) {
	available := make(map[int]bool)
	for _, y := range lunar.AvailableYears() {
		available[y] = true
	}

	for year := 2010; year <= 2045; year++ {
		assert.Equal(t, available[year], lunar.HasYear(year), "year %d", year)
	}
}

func TestEntries_MatchTetDate(t *testing.T) {
	entries := lunar.Entries()
	require.Len(t, entries, len(lunar.AvailableYears()))

	for i, e := range entries {
		assert.Equal(t, lunar.AvailableYears()[i], e.Year)
		want, err := lunar.TetDateIn(e.Year, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, want, e.In(time.UTC))
	}
}

func TestUpcoming(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "Before Tết of the current year",
			now:  time.Date(2025, time.January, 1, 12, 0, 0, 0, loc),
			want: time.Date(2025, time.January, 29, 0, 0, 0, 0, loc),
		},
		{
			name: "During the Tết day",
			now:  time.Date(2025, time.January, 29, 23, 59, 59, 0, loc),
			want: time.Date(2025, time.January, 29, 0, 0, 0, 0, loc),
		},
		{
			name: "Day after Tết rolls to next year",
			now:  time.Date(2025, time.January, 30, 0, 0, 0, 0, loc),
			want: time.Date(2026, time.February, 17, 0, 0, 0, 0, loc),
		},
		{
			name: "Autumn targets next year",
			now:  time.Date(2026, time.October, 18, 9, 30, 0, 0, loc),
			want: time.Date(2027, time.February, 6, 0, 0, 0, 0, loc),
		},
		{
			name: "Year before the table targets its first entry",
			now:  time.Date(2019, time.December, 31, 12, 0, 0, 0, loc),
			want: time.Date(2020, time.January, 25, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lunar.Upcoming(tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpcoming_OutOfRange(t *testing.T) {
	_, err := lunar.Upcoming(time.Date(2035, time.March, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, lunar.ErrYearNotFound, "2036 is not in the table")

	var nf *lunar.YearNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 2036, nf.Year)

	_, err = lunar.Upcoming(time.Date(2010, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 2010, nf.Year, "the current year is reported when neither year resolves")
}
