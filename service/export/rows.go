package export

import (
	"github.com/guregu/null/v6"

	ex "github.com/martinozimek/india-etf/data/extensions"
	sm "github.com/martinozimek/india-etf/service/models"
)

// SeriesRow is one aligned quarter of an etf with everything derived from it.
// Values that do not exist for the quarter, such as the first percent change, are nil.
type SeriesRow struct {
	Quarter         string   `json:"quarter" parquet:"quarter"`
	EtfPrice        float64  `json:"etfPrice" parquet:"etf_price"`
	GdpUsd          float64  `json:"gdpUsd" parquet:"gdp_usd"`
	EtfNormalized   *float64 `json:"etfNormalized" parquet:"etf_normalized"`
	GdpNormalized   *float64 `json:"gdpNormalized" parquet:"gdp_normalized"`
	EtfGrowth       *float64 `json:"etfGrowth" parquet:"etf_growth"`
	GdpGrowth       *float64 `json:"gdpGrowth" parquet:"gdp_growth"`
	EtfPctChange    *float64 `json:"etfPctChange" parquet:"etf_pct_change"`
	GdpPctChange    *float64 `json:"gdpPctChange" parquet:"gdp_pct_change"`
	RollingPearson  *float64 `json:"rollingPearson" parquet:"rolling_pearson"`
	RollingSpearman *float64 `json:"rollingSpearman" parquet:"rolling_spearman"`
}

var header = []string{
	"quarter", "etf_price", "gdp_usd",
	"etf_normalized", "gdp_normalized", "etf_growth", "gdp_growth",
	"etf_pct_change", "gdp_pct_change", "rolling_pearson", "rolling_spearman",
}

// BuildRows flattens an analysis into one row per aligned quarter
func BuildRows(a *sm.EtfAnalysis) []SeriesRow {
	d := a.Derived
	res := make([]SeriesRow, len(a.Records))
	for i, r := range a.Records {
		row := SeriesRow{
			Quarter:       ex.FmtShort(r.QuarterEnd),
			EtfPrice:      r.EtfPrice,
			GdpUsd:        r.GdpUsd,
			EtfNormalized: at(d.EtfNormalized, i),
			GdpNormalized: at(d.GdpNormalized, i),
			EtfGrowth:     at(d.EtfGrowth, i),
			GdpGrowth:     at(d.GdpGrowth, i),
			EtfPctChange:  nullAt(d.EtfPctChange, i),
			GdpPctChange:  nullAt(d.GdpPctChange, i),
		}
		if i < len(a.Rolling) {
			row.RollingPearson = finite(a.Rolling[i].Pearson)
			row.RollingSpearman = finite(a.Rolling[i].Spearman)
		}
		res[i] = row
	}
	return res
}

func at(values []float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return finite(null.FloatFrom(values[i]))
}

func nullAt(values []null.Float, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return finite(values[i])
}

// finite drops nulls along with the NaN and Inf a zero base produces
func finite(v null.Float) *float64 {
	if !v.Valid || !ex.IsFinite(v.Float64) {
		return nil
	}
	return v.Ptr()
}
