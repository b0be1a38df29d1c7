package core

import (
	"time"

	m "github.com/martinozimek/india-etf/data/models"
)

// Align inner joins the etf and gdp series on exact quarter-end equality.
// Records come back in the order of etf, which is ascending when it comes from ResampleQuarterly.
// The report uses models.DefaultMinOverlap for minOverlap.
func Align(etf, gdp []m.QuarterlyPoint, minOverlap int) ([]m.AlignedRecord, error) {
	gdpLookup := make(map[time.Time]float64, len(gdp))
	for _, p := range gdp {
		gdpLookup[p.QuarterEnd] = p.Value
	}

	res := make([]m.AlignedRecord, 0, min(len(etf), len(gdp)))
	for _, p := range etf {
		gdpValue, ok := gdpLookup[p.QuarterEnd]
		if !ok {
			continue
		}
		res = append(res, m.AlignedRecord{
			QuarterEnd: p.QuarterEnd,
			EtfPrice:   p.Value,
			GdpUsd:     gdpValue,
		})
	}

	if len(res) < minOverlap {
		return nil, &m.InsufficientOverlapError{Have: len(res), Need: minOverlap}
	}

	return res, nil
}
