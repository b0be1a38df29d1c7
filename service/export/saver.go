package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sm "github.com/martinozimek/india-etf/service/models"
)

// Formats are the export formats NewSeriesSaver understands
var Formats = []string{"csv", "json", "parquet"}

// SeriesSaver writes the per quarter rows of one etf to path
type SeriesSaver interface {
	Save(rows []SeriesRow, path string) error
	Extension() string
}

// NewSeriesSaver returns the saver for format, nil when the format is not supported
func NewSeriesSaver(format string) SeriesSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "json":
		return JSONSaver{}
	case "parquet":
		return ParquetSaver{}
	default:
		return nil
	}
}

// SaveAnalyses writes one file per analysis into dir, named after the etf, and returns the paths written
func SaveAnalyses(saver SeriesSaver, dir string, analyses []*sm.EtfAnalysis) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating %s: %w", dir, err)
	}

	paths := make([]string, 0, len(analyses))
	for _, a := range analyses {
		path := filepath.Join(dir, a.Summary.Etf+"."+saver.Extension())
		if err := saver.Save(BuildRows(a), path); err != nil {
			return paths, fmt.Errorf("error saving series for %s: %w", a.Summary.Etf, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}
