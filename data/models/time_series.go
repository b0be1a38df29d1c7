package models

import (
	"time"
)

// RawObservation is a single cleaned row from a source csv, before resampling
type RawObservation struct {
	Timestamp time.Time
	Value     float64
}

// QuarterlyPoint is the mean of all observations that fall within one calendar quarter.
// QuarterEnd is the last calendar day of that quarter at midnight UTC.
type QuarterlyPoint struct {
	QuarterEnd time.Time
	Value      float64
}

// AlignedRecord is a quarter present in both the etf and the gdp series
type AlignedRecord struct {
	QuarterEnd time.Time
	EtfPrice   float64
	GdpUsd     float64
}

// EtfPrices pulls the etf leg out of an aligned series
func EtfPrices(records []AlignedRecord) []float64 {
	res := make([]float64, len(records))
	for i, r := range records {
		res[i] = r.EtfPrice
	}
	return res
}

// GdpValues pulls the gdp leg out of an aligned series
func GdpValues(records []AlignedRecord) []float64 {
	res := make([]float64, len(records))
	for i, r := range records {
		res[i] = r.GdpUsd
	}
	return res
}

// QuarterEnds pulls the dates out of an aligned series
func QuarterEnds(records []AlignedRecord) []time.Time {
	res := make([]time.Time, len(records))
	for i, r := range records {
		res[i] = r.QuarterEnd
	}
	return res
}
