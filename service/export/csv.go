package export

import (
	"encoding/csv"
	"os"
	"strconv"
)

// CSVSaver writes rows with a header line, missing values are empty cells
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(rows []SeriesRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			r.Quarter,
			floatStr(r.EtfPrice),
			floatStr(r.GdpUsd),
			optionalStr(r.EtfNormalized),
			optionalStr(r.GdpNormalized),
			optionalStr(r.EtfGrowth),
			optionalStr(r.GdpGrowth),
			optionalStr(r.EtfPctChange),
			optionalStr(r.GdpPctChange),
			optionalStr(r.RollingPearson),
			optionalStr(r.RollingSpearman),
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func optionalStr(f *float64) string {
	if f == nil {
		return ""
	}
	return floatStr(*f)
}
