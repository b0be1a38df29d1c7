package export

import (
	"github.com/parquet-go/parquet-go"
)

// ParquetSaver writes rows as a parquet file, missing values are nulls in optional columns
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(rows []SeriesRow, path string) error {
	return parquet.WriteFile(path, rows)
}
