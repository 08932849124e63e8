// Package calendar builds the Monday-first month grid the client navigates.
package calendar

import (
	"time"

	"horario/internal/core"
)

// GridSize is the fixed number of cells in a month view: 6 full weeks,
// regardless of how many weeks the month actually spans. A stable grid
// height sometimes shows a whole extra adjacent week.
const GridSize = 42

// Clock abstracts "now" so grid construction stays deterministic in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// MonthGrid returns the 42 day descriptors for the month containing ref,
// ordered Monday through Sunday across 6 rows. Trailing days of the previous
// month and leading days of the next month pad the requested month's days.
// Pure: always succeeds for any valid input.
func MonthGrid(ref time.Time, clk Clock) []core.DayDescriptor {
	if clk == nil {
		clk = SystemClock()
	}
	year, month := ref.Year(), ref.Month()
	first := time.Date(year, month, 1, 0, 0, 0, 0, ref.Location())

	// Monday-relative offset of the month's first day: Monday=0..Sunday=6.
	offset := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -offset)

	now := clk.Now()
	grid := make([]core.DayDescriptor, 0, GridSize)
	for i := 0; i < GridSize; i++ {
		d := start.AddDate(0, 0, i)
		grid = append(grid, core.DayDescriptor{
			Date:         d,
			DateKey:      core.DateKey(d),
			CurrentMonth: d.Month() == month && d.Year() == year,
			Today:        sameDay(d, now),
			Weekend:      d.Weekday() == time.Saturday || d.Weekday() == time.Sunday,
		})
	}
	return grid
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
