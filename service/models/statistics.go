package models

const (
	Daily     = 252
	Weekly    = 52
	Monthly   = 12
	Quarterly = 4
	Yearly    = 1
)

const (
	DefaultRollingWindow = 8 // quarters
	DefaultMinOverlap    = 8 // quarters
	DefaultPermutations  = 1_000
)

// AnalysisSettings are the knobs of a report run, everything else is derived from the input files
type AnalysisSettings struct {
	RollingWindow int `json:"rollingWindow"` // number of quarters per rolling correlation window
	MinOverlap    int `json:"minOverlap"`    // fewest aligned quarters before an etf is analyzed
	EtfSkipRows   int `json:"etfSkipRows"`   // metadata rows under the header of each etf export

	Permutations int    `json:"permutations"` // shuffles per permutation test, 0 turns the test off
	Seed         uint64 `json:"seed"`
}

// DefaultAnalysisSettings matches the layout of the daily etf exports we receive
func DefaultAnalysisSettings() AnalysisSettings {
	return AnalysisSettings{
		RollingWindow: DefaultRollingWindow,
		MinOverlap:    DefaultMinOverlap,
		EtfSkipRows:   1,
		Permutations:  DefaultPermutations,
	}
}

func ConvertFrequencyToString(inp int) string {
	switch inp {
	case Daily:
		return "days"
	case Weekly:
		return "weeks"
	case Monthly:
		return "months"
	case Quarterly:
		return "quarters"
	case Yearly:
		return "years"
	default:
		return ""
	}
}
