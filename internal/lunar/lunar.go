// Package lunar maps Gregorian years to the date of Tết (Vietnamese Lunar New Year).
//
// The dates come from a curated table instead of an astronomical lunar calendar
// computation. Years outside the table are a hard lookup miss: callers that need
// another year must supply their own target date.
package lunar

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-tet/internal/config"
)

// Entry is one row of the Tết table. Month is 1-based (time.January == 1).
type Entry struct {
	Year  int
	Month time.Month
	Day   int
}

// In returns the local midnight of the entry in loc (time.Local when nil).
func (e Entry) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(e.Year, e.Month, e.Day, 0, 0, 0, 0, loc)
}

// tetDates is the single source of truth. Keys are unique by construction.
var tetDates = map[int]Entry{
	2020: {2020, time.January, 25},
	2021: {2021, time.February, 12},
	2022: {2022, time.February, 1},
	2023: {2023, time.January, 22},
	2024: {2024, time.February, 10},
	2025: {2025, time.January, 29},
	2026: {2026, time.February, 17},
	2027: {2027, time.February, 6},
	2028: {2028, time.January, 26},
	2029: {2029, time.February, 13},
	2030: {2030, time.February, 3},
	2031: {2031, time.January, 23},
	2032: {2032, time.February, 11},
	2033: {2033, time.January, 31},
	2034: {2034, time.February, 19},
	2035: {2035, time.February, 8},
}

// ErrYearNotFound matches every lookup miss via errors.Is.
var ErrYearNotFound = errors.New(config.ErrYearNotFound)

// YearNotFoundError reports a year absent from the table together with the
// years that are available.
type YearNotFoundError struct {
	Year      int
	Supported []int
}

func (e *YearNotFoundError) Error() string {
	years := make([]string, len(e.Supported))
	for i, y := range e.Supported {
		years[i] = strconv.Itoa(y)
	}
	return fmt.Sprintf(config.FormatYearNotFound, config.ErrYearNotFound, e.Year, strings.Join(years, config.YearListSeparator))
}

// Is lets errors.Is(err, ErrYearNotFound) succeed.
func (e *YearNotFoundError) Is(target error) bool {
	return target == ErrYearNotFound
}

// TetDate returns the local midnight (time.Local) of Tết for year.
func TetDate(year int) (time.Time, error) {
	return TetDateIn(year, time.Local)
}

// TetDateIn is TetDate in an explicit location.
func TetDateIn(year int, loc *time.Location) (time.Time, error) {
	e, ok := tetDates[year]
	if !ok {
		return time.Time{}, &YearNotFoundError{Year: year, Supported: AvailableYears()}
	}
	return e.In(loc), nil
}

// AvailableYears returns every year of the table in ascending order.
// The slice is freshly allocated on each call.
func AvailableYears() []int {
	years := make([]int, 0, len(tetDates))
	for y := range tetDates {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// HasYear reports whether year is present in the table.
func HasYear(year int) bool {
	_, ok := tetDates[year]
	return ok
}

// Entries returns the table rows ordered by year.
func Entries() []Entry {
	years := AvailableYears()
	entries := make([]Entry, len(years))
	for i, y := range years {
		entries[i] = tetDates[y]
	}
	return entries
}

// Upcoming returns the Tết that a countdown started at now should target,
// expressed in now's location. While the Tết day of now's year has not ended
// it is that day (so the countdown reads finished during the whole day);
// afterwards it is the next year's Tết. A missing current year is skipped, so
// late 2019 targets 2020. The first lookup miss is returned when no year fits.
func Upcoming(now time.Time) (time.Time, error) {
	loc := now.Location()
	var miss error
	for _, year := range []int{now.Year(), now.Year() + 1} {
		date, err := TetDateIn(year, loc)
		if err != nil {
			if miss == nil {
				miss = err
			}
			continue
		}
		if now.Before(date.AddDate(0, 0, 1)) {
			return date, nil
		}
	}
	if miss != nil {
		return time.Time{}, miss
	}
	// Tết is always in January or February, so next year's date is never passed.
	return time.Time{}, &YearNotFoundError{Year: now.Year() + 1, Supported: AvailableYears()}
}
