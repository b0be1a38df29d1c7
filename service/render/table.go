package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	ex "github.com/martinozimek/india-etf/data/extensions"
	sm "github.com/martinozimek/india-etf/service/models"
)

const (
	CorrelationsSheet = "Correlations"
	ExclusionsSheet   = "Exclusions"

	// WorkbookName is the summary workbook written into the output dir
	WorkbookName = "correlation_summary.xlsx"
)

var (
	correlationHeader = []any{"ETF", "Pearson r", "Spearman r", "p-value", "Permutation p-value", "Quarters", "Start", "End"}
	exclusionHeader   = []any{"ETF", "Reason"}
)

// WriteSummaryWorkbook writes the sorted summaries and the exclusions of a report to an xlsx file
func WriteSummaryWorkbook(path string, report *sm.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CorrelationsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(ExclusionsSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	rows := make([][]any, len(report.Summaries))
	for i, s := range report.Summaries {
		rows[i] = []any{s.Etf, s.PearsonR, s.SpearmanR, cellValue(s.PValue), cellValue(s.PermutationPValue),
			s.QuartersUsed, ex.FmtShort(s.Start), ex.FmtShort(s.End)}
	}
	if err := writeSheet(f, CorrelationsSheet, correlationHeader, rows, bold); err != nil {
		return err
	}

	rows = make([][]any, len(report.Exclusions))
	for i, e := range report.Exclusions {
		rows[i] = []any{e.Etf, e.Reason}
	}
	if err := writeSheet(f, ExclusionsSheet, exclusionHeader, rows, bold); err != nil {
		return err
	}

	description := fmt.Sprintf("rolling window %d quarters, minimum overlap %d quarters",
		report.Settings.RollingWindow, report.Settings.MinOverlap)
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       "ETF vs GDP correlation summary",
		Identifier:  report.RunId.String(),
		Created:     ex.FmtLong(report.GeneratedAt),
		Description: description,
	}); err != nil {
		return err
	}

	return f.SaveAs(path)
}

// WriteSummaryTable prints the summaries as an aligned table followed by the skipped etfs
func WriteSummaryTable(w io.Writer, report *sm.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ETF\tPEARSON_R\tSPEARMAN_R\tP_VALUE\tPERM_P\tQUARTERS\tSTART\tEND")
	for _, s := range report.Summaries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			s.Etf,
			fixed(null.FloatFrom(s.PearsonR)),
			fixed(null.FloatFrom(s.SpearmanR)),
			fixed(s.PValue),
			fixed(s.PermutationPValue),
			s.QuartersUsed,
			ex.FmtShort(s.Start),
			ex.FmtShort(s.End))
	}

	if len(report.Exclusions) > 0 {
		fmt.Fprintf(tw, "\nSkipped %d ETF(s)\n", len(report.Exclusions))
		for _, e := range report.Exclusions {
			fmt.Fprintf(tw, "%s\t%s\n", e.Etf, e.Reason)
		}
	}

	return tw.Flush()
}

// fixed formats v with four decimals, half away from zero, and a dash when it is null
func fixed(v null.Float) string {
	if !v.Valid {
		return "-"
	}
	return decimal.NewFromFloat(v.Float64).StringFixed(4)
}

// cellValue leaves null values as empty cells
func cellValue(v null.Float) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}
