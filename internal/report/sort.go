package report

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortState is the current sort column and direction. A zero value means
// unsorted, which keeps the store's newest-first order.
type SortState struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Toggle flips the direction when column is already sorted and otherwise
// starts ascending on the new column.
func (s SortState) Toggle(column string) SortState {
	if s.Column == column {
		if s.Direction == Asc {
			return SortState{Column: column, Direction: Desc}
		}
		return SortState{Column: column, Direction: Asc}
	}
	return SortState{Column: column, Direction: Asc}
}

// Sort orders rows in place by the state's column. The sort is stable, and
// rows with no value for the column go last in either direction.
func Sort(rows []Row, s SortState) {
	if s.Column == "" {
		return
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		av, aok := a.Value(s.Column)
		bv, bok := b.Value(s.Column)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		}
		c := compareValues(av, bv)
		if s.Direction == Desc {
			return -c
		}
		return c
	})
}

// compareValues compares numerically when both values are finite numbers and
// case-insensitively otherwise.
func compareValues(a, b string) int {
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return cmp.Compare(x, y)
		}
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func number(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
