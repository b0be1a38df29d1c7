package core

import (
	"cmp"
	"math"
	"slices"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	ex "github.com/martinozimek/india-etf/data/extensions"
	m "github.com/martinozimek/india-etf/data/models"
)

const (
	PearsonMethod = iota
	SpearmanMethod
)

// SummaryPrecision is the number of decimals correlations are reported with
const SummaryPrecision = 4

type correlationFunc func(x, y []float64) (float64, error)

// Pearson is the linear correlation between the etf price and gdp columns over every record
func Pearson(records []m.AlignedRecord) (float64, error) {
	return pearson(m.EtfPrices(records), m.GdpValues(records))
}

// Spearman is the Pearson correlation of the average ranks of both columns
func Spearman(records []m.AlignedRecord) (float64, error) {
	return spearman(m.EtfPrices(records), m.GdpValues(records))
}

// RollingPearson emits one value per record; index i holds the correlation over records[i-window+1 : i+1].
// The first window-1 entries and any window with a constant column are null.
func RollingPearson(records []m.AlignedRecord, window int) ([]null.Float, error) {
	return rolling(records, window, pearson)
}

// RollingSpearman uses the same windows as RollingPearson but ranks each window from scratch,
// so ranks are local to the window rather than to the whole series.
func RollingSpearman(records []m.AlignedRecord, window int) ([]null.Float, error) {
	return rolling(records, window, spearman)
}

// RollingCorrelation zips both rolling statistics onto the quarter they end at
func RollingCorrelation(records []m.AlignedRecord, window int) ([]m.RollingCorrelationPoint, error) {
	p, err := RollingPearson(records, window)
	if err != nil {
		return nil, err
	}

	s, err := RollingSpearman(records, window)
	if err != nil {
		return nil, err
	}

	res := make([]m.RollingCorrelationPoint, len(records))
	for i, r := range records {
		res[i] = m.RollingCorrelationPoint{
			QuarterEnd: r.QuarterEnd,
			Pearson:    p[i],
			Spearman:   s[i],
		}
	}

	return res, nil
}

// Rank returns 1 based ranks of values, ties share the average of the ranks they span
func Rank(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range n {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(values[a], values[b])
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}

		// positions i..j are tied, 1 based average of those positions
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}

	return ranks
}

// RoundCorrelation rounds to SummaryPrecision decimals, half away from zero
func RoundCorrelation(r float64) float64 {
	return decimal.NewFromFloat(r).Round(SummaryPrecision).InexactFloat64()
}

func ConvertMethodToString(method int) string {
	switch method {
	case PearsonMethod:
		return "pearson"
	case SpearmanMethod:
		return "spearman"
	default:
		return ""
	}
}

func rolling(records []m.AlignedRecord, window int, f correlationFunc) ([]null.Float, error) {
	if window < 2 {
		return nil, &m.InvalidWindowError{Window: window}
	}

	x := m.EtfPrices(records)
	y := m.GdpValues(records)

	res := make([]null.Float, len(records))
	for i := window - 1; i < len(records); i++ {
		r, err := f(x[i-window+1:i+1], y[i-window+1:i+1])
		if err != nil {
			continue // undefined windows stay null
		}
		res[i] = null.FloatFrom(r)
	}

	return res, nil
}

func pearson(x, y []float64) (float64, error) {
	if len(x) < 2 {
		return 0, &m.InsufficientDataError{Have: len(x), Need: 2}
	}

	if ex.AreAllEqual(x) || ex.AreAllEqual(y) {
		return 0, m.ErrUndefinedCorrelation
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, m.ErrUndefinedCorrelation
	}

	// rounding can push a perfect fit a hair past 1
	return math.Max(-1, math.Min(1, r)), nil
}

func spearman(x, y []float64) (float64, error) {
	if len(x) < 2 {
		return 0, &m.InsufficientDataError{Have: len(x), Need: 2}
	}
	return pearson(Rank(x), Rank(y))
}
