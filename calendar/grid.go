// Package calendar builds the week-aligned cell grid behind the month view.
package calendar

import "time"

// Cell is one square of the month grid: either blank padding or a concrete
// date. Blank cells carry no interaction.
type Cell struct {
	Blank bool
	Date  time.Time
}

// Day returns the day-of-month for a non-blank cell, 0 for padding.
func (c Cell) Day() int {
	if c.Blank {
		return 0
	}
	return c.Date.Day()
}

// DaysIn returns the number of days in the given month, using day zero of
// the following month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Grid materializes the full cell sequence for one month: leading blanks up
// to the weekday of the 1st (Sunday=0), one cell per date, then trailing
// blanks so the total length is the smallest multiple of 7 that fits.
func Grid(year int, month time.Month) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	leading := int(first.Weekday())
	days := DaysIn(year, month)

	total := ((leading + days + 6) / 7) * 7
	cells := make([]Cell, 0, total)
	for i := 0; i < leading; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, Cell{Date: time.Date(year, month, d, 0, 0, 0, 0, time.UTC)})
	}
	for len(cells) < total {
		cells = append(cells, Cell{Blank: true})
	}
	return cells
}

// Prev steps the view back one month, wrapping the year in January.
func Prev(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// Next steps the view forward one month, wrapping the year in December.
func Next(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
