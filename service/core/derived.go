package core

import (
	"github.com/guregu/null/v6"

	m "github.com/martinozimek/india-etf/data/models"
	sm "github.com/martinozimek/india-etf/service/models"
)

// Normalize indexes both legs to their first value so they start at 1.0.
// A zero first value divides through to Inf/NaN; callers drawing or exporting the series drop non finite points.
func Normalize(records []m.AlignedRecord) ([]float64, []float64, error) {
	if len(records) == 0 {
		return nil, nil, &m.InsufficientDataError{Have: 0, Need: 1}
	}

	return normalize(m.EtfPrices(records)), normalize(m.GdpValues(records)), nil
}

// CumulativeGrowth compounds the period over period changes of both legs.
// The first element has no prior period and is the multiplicative identity 1.0.
func CumulativeGrowth(records []m.AlignedRecord) ([]float64, []float64, error) {
	if len(records) == 0 {
		return nil, nil, &m.InsufficientDataError{Have: 0, Need: 1}
	}

	return cumulativeGrowth(m.EtfPrices(records)), cumulativeGrowth(m.GdpValues(records)), nil
}

// PercentChange is the simple period over period change of both legs, the first element is null
func PercentChange(records []m.AlignedRecord) ([]null.Float, []null.Float) {
	return percentChange(m.EtfPrices(records)), percentChange(m.GdpValues(records))
}

// BuildDerivedSeries runs every derived transform over the aligned records
func BuildDerivedSeries(records []m.AlignedRecord) (sm.DerivedSeries, error) {
	etfNorm, gdpNorm, err := Normalize(records)
	if err != nil {
		return sm.DerivedSeries{}, err
	}

	etfGrowth, gdpGrowth, err := CumulativeGrowth(records)
	if err != nil {
		return sm.DerivedSeries{}, err
	}

	etfPct, gdpPct := PercentChange(records)

	return sm.DerivedSeries{
		EtfNormalized: etfNorm,
		GdpNormalized: gdpNorm,
		EtfGrowth:     etfGrowth,
		GdpGrowth:     gdpGrowth,
		EtfPctChange:  etfPct,
		GdpPctChange:  gdpPct,
	}, nil
}

func normalize(values []float64) []float64 {
	res := make([]float64, len(values))
	for i, v := range values {
		res[i] = v / values[0]
	}
	return res
}

func cumulativeGrowth(values []float64) []float64 {
	res := make([]float64, len(values))
	product := 1.0
	for i := range values {
		if i > 0 {
			product *= 1 + (values[i]-values[i-1])/values[i-1]
		}
		res[i] = product
	}
	return res
}

func percentChange(values []float64) []null.Float {
	res := make([]null.Float, len(values))
	for i := 1; i < len(values); i++ {
		res[i] = null.FloatFrom((values[i] - values[i-1]) / values[i-1])
	}
	return res
}
