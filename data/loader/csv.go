package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	ex "github.com/martinozimek/india-etf/data/extensions"
	m "github.com/martinozimek/india-etf/data/models"
)

const (
	DateColumn  = "Date"
	PriceColumn = "Price"
	GdpColumn   = "GDP_USD"

	// EtfMetadataRows is the row under the header in the etf exports that holds the ticker, not prices
	EtfMetadataRows = 1
)

var (
	utf8Bom = []byte{0xEF, 0xBB, 0xBF}

	dateFormats = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006/01/02",
		"01/02/2006",
		"02-Jan-2006",
		"Jan 2, 2006",
	}
)

// LoadEtfPrices reads a daily etf export with Date and Price columns
func LoadEtfPrices(path string, skipRows int) ([]m.RawObservation, error) {
	return Load(path, DateColumn, PriceColumn, skipRows)
}

// LoadGdp reads the quarterly gdp file with Date and GDP_USD columns
func LoadGdp(path string) ([]m.RawObservation, error) {
	return Load(path, DateColumn, GdpColumn, 0)
}

// Load reads path into observations of (dateColumn, valueColumn).
// Header cells are trimmed before the columns are looked up, skipRows rows directly under the header are discarded,
// and any row whose date or value does not parse is dropped. Surviving rows keep their file order.
func Load(path, dateColumn, valueColumn string, skipRows int) ([]m.RawObservation, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &m.NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8Bom)))
	reader.FieldsPerRecord = -1 // metadata rows are often shorter than the header
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &m.SchemaError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("error reading header of %s: %w", path, err)
	}

	header = ex.Map(header, strings.TrimSpace)
	dateIdx := slices.Index(header, dateColumn)
	if dateIdx < 0 {
		return nil, &m.SchemaError{Path: path, Column: dateColumn, Found: header}
	}
	valueIdx := slices.Index(header, valueColumn)
	if valueIdx < 0 {
		return nil, &m.SchemaError{Path: path, Column: valueColumn, Found: header}
	}

	res := make([]m.RawObservation, 0)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading row %d of %s: %w", row, path, err)
		}

		if row <= skipRows {
			continue
		}

		timestamp, ok := parseDate(cell(record, dateIdx))
		if !ok {
			continue
		}

		value, ok := parseFloat(cell(record, valueIdx))
		if !ok {
			continue
		}

		res = append(res, m.RawObservation{Timestamp: timestamp, Value: value})
	}

	return res, nil
}

func cell(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseDate returns the calendar date of s at midnight UTC
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		t, err := time.Parse(format, s)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !ex.IsFinite(f) {
		return 0, false
	}
	return f, true
}
