package core

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"

	"github.com/martinozimek/india-etf/data/loader"
	m "github.com/martinozimek/india-etf/data/models"
	sm "github.com/martinozimek/india-etf/service/models"
)

// RunReport loads the gdp series once and then analyzes every etf in order.
// An etf that fails any step is recorded as an exclusion and the loop moves on, only a gdp failure stops the run.
func (rc *ReportContext) RunReport(gdpPath string, sources []sm.EtfSource) (*sm.Report, error) {
	start := time.Now()
	report := sm.Report{
		RunId:       uuid.New(),
		GeneratedAt: start.UTC(),
		Settings:    rc.Settings,
	}
	log := rc.logger().With("run_id", report.RunId.String())

	log.Info("Loading gdp series", "path", gdpPath)
	gdpObservations, err := loader.LoadGdp(gdpPath)
	if err != nil {
		return nil, fmt.Errorf("error loading gdp series: %w", err)
	}

	report.Gdp = ResampleQuarterly(gdpObservations)
	if len(report.Gdp) == 0 {
		return nil, fmt.Errorf("gdp series %s has no usable rows", gdpPath)
	}
	log.Info("Resampled gdp series", "observations", len(gdpObservations), "quarters", len(report.Gdp), "time", time.Since(start))

	for _, source := range sources {
		if err := rc.ctx().Err(); err != nil {
			return nil, fmt.Errorf("report cancelled before %s: %w", source.Id, err)
		}

		analysis, err := rc.AnalyzeEtf(source, report.Gdp)
		if err != nil {
			log.Warn("Skipping etf", "etf", source.Id, "reason", ExclusionReason(err), "error", err)
		}
		report = collect(report, source, analysis, err)
	}

	slices.SortStableFunc(report.Summaries, func(a, b m.CorrelationSummary) int {
		return cmp.Compare(b.PearsonR, a.PearsonR)
	})

	log.Info("Report completed",
		"analyzed", len(report.Analyses),
		"excluded", len(report.Exclusions),
		"window", fmt.Sprintf("%d %s", rc.Settings.RollingWindow, sm.ConvertFrequencyToString(sm.Quarterly)),
		"time", time.Since(start))

	return &report, nil
}

// AnalyzeEtf runs one etf through load, resample, align, correlation and the derived series
func (rc *ReportContext) AnalyzeEtf(source sm.EtfSource, gdp []m.QuarterlyPoint) (*sm.EtfAnalysis, error) {
	start := time.Now()
	log := rc.logger().With("etf", source.Id)

	log.Debug("Loading etf prices", "path", source.Path)
	observations, err := loader.LoadEtfPrices(source.Path, rc.Settings.EtfSkipRows)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", source.Id, err)
	}

	quarterly := ResampleQuarterly(observations)
	log.Debug("Resampled etf prices", "observations", len(observations), "quarters", len(quarterly), "time", time.Since(start))

	records, err := Align(quarterly, gdp, rc.Settings.MinOverlap)
	if err != nil {
		return nil, fmt.Errorf("error aligning %s with gdp: %w", source.Id, err)
	}

	pearsonR, err := Pearson(records)
	if err != nil {
		return nil, fmt.Errorf("error computing %s correlation for %s: %w", ConvertMethodToString(PearsonMethod), source.Id, err)
	}

	spearmanR, err := Spearman(records)
	if err != nil {
		return nil, fmt.Errorf("error computing %s correlation for %s: %w", ConvertMethodToString(SpearmanMethod), source.Id, err)
	}

	rolling, err := RollingCorrelation(records, rc.Settings.RollingWindow)
	if err != nil {
		return nil, fmt.Errorf("error computing rolling correlation for %s: %w", source.Id, err)
	}

	derived, err := BuildDerivedSeries(records)
	if err != nil {
		return nil, fmt.Errorf("error building derived series for %s: %w", source.Id, err)
	}

	summary := m.CorrelationSummary{
		Etf:          source.Id,
		PearsonR:     RoundCorrelation(pearsonR),
		SpearmanR:    RoundCorrelation(spearmanR),
		QuartersUsed: len(records),
		Start:        records[0].QuarterEnd,
		End:          records[len(records)-1].QuarterEnd,
	}

	if pValue, err := PearsonPValue(pearsonR, len(records)); err == nil {
		summary.PValue = null.FloatFrom(pValue)
	}

	if rc.Settings.Permutations > 0 {
		pValue, err := rc.PermutationTest(records, pearsonR, rc.Settings.Permutations, rc.Settings.Seed)
		if err != nil {
			return nil, fmt.Errorf("error running permutation test for %s: %w", source.Id, err)
		}
		summary.PermutationPValue = null.FloatFrom(pValue)
	}

	log.Info("Analyzed etf",
		"pearson", summary.PearsonR,
		"spearman", summary.SpearmanR,
		"p_value", summary.PValue.Float64,
		"quarters", summary.QuartersUsed,
		"time", time.Since(start))

	return &sm.EtfAnalysis{
		Summary: summary,
		Records: records,
		Rolling: rolling,
		Derived: derived,
	}, nil
}

// ExclusionReason turns a per etf failure into the short reason shown next to the etf
func ExclusionReason(err error) string {
	var notFound *m.NotFoundError
	var schemaErr *m.SchemaError
	var overlapErr *m.InsufficientOverlapError
	var dataErr *m.InsufficientDataError
	var windowErr *m.InvalidWindowError

	switch {
	case errors.As(err, &notFound):
		return "input file not found"
	case errors.As(err, &schemaErr):
		if schemaErr.Column == "" {
			return "missing header row"
		}
		return fmt.Sprintf("missing expected column %q", schemaErr.Column)
	case errors.As(err, &overlapErr):
		return fmt.Sprintf("only %d overlapping quarters", overlapErr.Have)
	case errors.As(err, &dataErr):
		return fmt.Sprintf("only %d data points", dataErr.Have)
	case errors.As(err, &windowErr):
		return fmt.Sprintf("invalid rolling window %d", windowErr.Window)
	case errors.Is(err, m.ErrUndefinedCorrelation):
		return "correlation undefined for a constant series"
	default:
		return err.Error()
	}
}

// collect folds one etf result into the accumulator and hands it back
func collect(acc sm.Report, source sm.EtfSource, analysis *sm.EtfAnalysis, err error) sm.Report {
	if err != nil {
		acc.Exclusions = append(acc.Exclusions, sm.Exclusion{
			Etf:    source.Id,
			Reason: ExclusionReason(err),
			Err:    err,
		})
		return acc
	}

	acc.Analyses = append(acc.Analyses, analysis)
	acc.Summaries = append(acc.Summaries, analysis.Summary)
	return acc
}
