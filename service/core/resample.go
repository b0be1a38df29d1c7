package core

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	m "github.com/martinozimek/india-etf/data/models"
)

// QuarterEnd returns the last calendar day of the quarter containing t, at midnight UTC.
// Both legs of the join are labelled with this so quarters match on exact equality.
func QuarterEnd(t time.Time) time.Time {
	lastMonth := ((int(t.Month())-1)/3 + 1) * 3
	// day 0 of the following month is the last day of lastMonth
	return time.Date(t.Year(), time.Month(lastMonth+1), 0, 0, 0, 0, 0, time.UTC)
}

// ResampleQuarterly groups observations by calendar quarter and reduces each group to its mean.
// Only quarters with at least one observation are emitted, in ascending order.
func ResampleQuarterly(observations []m.RawObservation) []m.QuarterlyPoint {
	groups := make(map[time.Time][]float64)
	for _, o := range observations {
		key := QuarterEnd(o.Timestamp)
		groups[key] = append(groups[key], o.Value)
	}

	res := make([]m.QuarterlyPoint, 0, len(groups))
	for quarterEnd, values := range groups {
		res = append(res, m.QuarterlyPoint{
			QuarterEnd: quarterEnd,
			Value:      stat.Mean(values, nil),
		})
	}

	slices.SortFunc(res, func(a, b m.QuarterlyPoint) int {
		return a.QuarterEnd.Compare(b.QuarterEnd)
	})

	return res
}
