package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"

	ex "github.com/martinozimek/india-etf/data/extensions"
	dm "github.com/martinozimek/india-etf/data/models"
)

// EtfSource names an etf and the daily export it is read from
type EtfSource struct {
	Id   string `yaml:"id"`
	Path string `yaml:"file"`
}

// DerivedSeries are the comparison series drawn next to the raw aligned values, one entry per aligned quarter
type DerivedSeries struct {
	EtfNormalized []float64
	GdpNormalized []float64
	EtfGrowth     []float64
	GdpGrowth     []float64
	EtfPctChange  []null.Float
	GdpPctChange  []null.Float
}

// EtfAnalysis is everything computed for one etf that made it through alignment
type EtfAnalysis struct {
	Summary dm.CorrelationSummary
	Records []dm.AlignedRecord
	Rolling []dm.RollingCorrelationPoint
	Derived DerivedSeries
}

// Exclusion records why an etf was left out of the summary
type Exclusion struct {
	Etf    string `json:"etf"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// Report is the output of one run, summaries are sorted by pearson r descending
type Report struct {
	RunId       uuid.UUID
	GeneratedAt time.Time
	Settings    AnalysisSettings
	Gdp         []dm.QuarterlyPoint
	Analyses    []*EtfAnalysis
	Summaries   []dm.CorrelationSummary
	Exclusions  []Exclusion
}

// Analysis looks up the analysis of an etf by id, nil when it was excluded
func (r *Report) Analysis(etf string) *EtfAnalysis {
	return ex.FilterFirst(r.Analyses, func(a *EtfAnalysis) bool {
		return a.Summary.Etf == etf
	})
}
