package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// CorrelationSummary is the headline result for one etf, correlations are rounded to 4 decimals
type CorrelationSummary struct {
	Etf               string     `json:"etf"`
	PearsonR          float64    `json:"pearsonR"`
	SpearmanR         float64    `json:"spearmanR"`
	PValue            null.Float `json:"pValue"`            // t-test on pearson r, null under 3 quarters
	PermutationPValue null.Float `json:"permutationPValue"` // null when permutations are turned off
	QuartersUsed      int        `json:"quartersUsed"`
	Start             time.Time  `json:"start"`
	End               time.Time  `json:"end"`
}

// RollingCorrelationPoint holds the window statistics ending at QuarterEnd.
// Either value is invalid when the window is not full yet or a column in the window is constant.
type RollingCorrelationPoint struct {
	QuarterEnd time.Time  `json:"quarterEnd"`
	Pearson    null.Float `json:"pearson"`
	Spearman   null.Float `json:"spearman"`
}
