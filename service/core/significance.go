package core

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	ex "github.com/martinozimek/india-etf/data/extensions"
	m "github.com/martinozimek/india-etf/data/models"
)

// BatchSize is the number of shuffles run between cancellation checks
const BatchSize = 1_000

type batch struct {
	start int
	end   int
}

// GetBatches splits iterations into batches of at most batchSize, truncating the last one
func GetBatches(iterations int, batchSize int) []batch {
	nBatches := int(math.Ceil(float64(iterations) / float64(batchSize)))

	batches := make([]batch, nBatches)
	for i := range nBatches {
		batches[i] = batch{
			start: i * batchSize,
			end:   ex.Min((i+1)*batchSize, iterations),
		}
	}

	return batches
}

// PearsonPValue is the two sided p-value of r against no correlation, using a t distribution with n-2 degrees of freedom
func PearsonPValue(r float64, n int) (float64, error) {
	if n < 3 {
		return 0, &m.InsufficientDataError{Have: n, Need: 3}
	}
	if math.Abs(r) >= 1 {
		return 0, nil
	}

	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}

	return math.Min(1, 2*dist.Survival(math.Abs(t))), nil
}

// PermutationTest shuffles the gdp column against the etf column and returns the share of shuffles
// whose |r| reaches the observed |r|. The observed ordering counts as one shuffle so the result is never zero.
// A seed of 0 uses the zero PCG state, every seed gives the same result for the same records.
func (rc *ReportContext) PermutationTest(records []m.AlignedRecord, observed float64, iterations int, seed uint64) (float64, error) {
	if iterations < 1 {
		return 0, fmt.Errorf("permutation test needs at least one iteration, got %d", iterations)
	}

	x := m.EtfPrices(records)
	y := slices.Clone(m.GdpValues(records))

	src := new(rand.PCG)
	if seed != 0 {
		src = rand.NewPCG(seed, uint64(len(records)))
	}
	rng := rand.New(src)

	// shuffled r equal to the observed r up to float noise still counts as extreme
	threshold := math.Abs(observed) - 1e-12
	extreme := 0

	ctx := rc.ctx()
	for _, b := range GetBatches(iterations, BatchSize) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		for range b.end - b.start {
			rng.Shuffle(len(y), func(i, j int) {
				y[i], y[j] = y[j], y[i]
			})

			r, err := pearson(x, y)
			if err != nil {
				return 0, err
			}
			if math.Abs(r) >= threshold {
				extreme++
			}
		}
	}

	return float64(extreme+1) / float64(iterations+1), nil
}
