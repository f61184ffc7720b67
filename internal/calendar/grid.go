// Package calendar builds month views and assigns items to calendar dates.
//
// All functions are pure: they read only their arguments (and an injectable
// clock for GenerateSchedule) and keep no state between calls. Rows of a month
// grid start on Monday, while weekday filters in GenerateSchedule use
// time.Weekday where Sunday is 0.
package calendar

import "time"

const (
	// DaysPerWeek is the number of columns in a month grid.
	DaysPerWeek = 7
	// GridWeeks is the number of rows in a month grid.
	GridWeeks = 6
	// GridSize is the number of cells in a month grid.
	GridSize = GridWeeks * DaysPerWeek
)

// MonthDay is one cell of a month grid.
type MonthDay struct {
	Date           time.Time
	IsCurrentMonth bool
}

// MonthGrid is a six week, Monday-first view of a month including padding
// days from the neighbouring months.
type MonthGrid [GridSize]MonthDay

// MondayIndex converts a weekday to its Monday-first column (Monday=0,
// Sunday=6).
func MondayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}

// DaysInMonth returns the grid for month of year with dates at midnight in
// loc (time.Local when nil). Out of range months are normalized the way
// time.Date normalizes them.
func DaysInMonth(year int, month time.Month, loc *time.Location) MonthGrid {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	month = first.Month()

	days := make([]MonthDay, 0, GridSize)

	for i := MondayIndex(first.Weekday()); i > 0; i-- {
		days = append(days, MonthDay{Date: first.AddDate(0, 0, -i)})
	}

	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		days = append(days, MonthDay{Date: day, IsCurrentMonth: true})
	}

	last := days[len(days)-1].Date
	for i := 1; i <= 6-MondayIndex(last.Weekday()); i++ {
		days = append(days, MonthDay{Date: last.AddDate(0, 0, i)})
	}

	for len(days) < GridSize {
		next := days[len(days)-1].Date.AddDate(0, 0, 1)
		days = append(days, MonthDay{Date: next})
	}

	var grid MonthGrid
	copy(grid[:], days)
	return grid
}

// Weeks splits the grid into its Monday-first rows.
func (g MonthGrid) Weeks() [GridWeeks][DaysPerWeek]MonthDay {
	var weeks [GridWeeks][DaysPerWeek]MonthDay
	for i, day := range g {
		weeks[i/DaysPerWeek][i%DaysPerWeek] = day
	}
	return weeks
}

// WeekNumbers returns the ISO week number of each row.
func (g MonthGrid) WeekNumbers() [GridWeeks]int {
	var numbers [GridWeeks]int
	for row := range numbers {
		numbers[row] = WeekNumber(g[row*DaysPerWeek].Date)
	}
	return numbers
}
