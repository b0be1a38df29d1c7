package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ex "github.com/martinozimek/india-etf/data/extensions"
	m "github.com/martinozimek/india-etf/data/models"
)

func TestGetBatches(t *testing.T) {
	batches := GetBatches(10_000, 1_000)
	if len(batches) != 10 {
		t.Errorf("Expected 10 batches, got %d", len(batches))
	}

	// last batch is truncated to the iteration count
	batches = GetBatches(3_500, 1_000)
	if len(batches) != 4 {
		t.Fatalf("Expected 4 batches, got %d", len(batches))
	}
	for i := 1; i < len(batches); i++ {
		if batches[i].start != batches[i-1].end {
			t.Errorf("Expected batch %d to start where batch %d ends, got %d and %d", i, i-1, batches[i].start, batches[i-1].end)
		}
	}
	if batches[3].end != 3_500 {
		t.Errorf("Expected last batch to end at 3_500 (exclusive), got %d", batches[3].end)
	}

	batches = GetBatches(10, 1_000)
	if len(batches) != 1 || batches[0].start != 0 || batches[0].end != 10 {
		t.Errorf("Expected a single batch [0, 10), got %+v", batches)
	}

	assert.Empty(t, GetBatches(0, 1_000))
}

func TestPearsonPValue(t *testing.T) {
	cases := []struct {
		r        float64
		n        int
		expected float64
	}{
		{0.5, 10, 0.141113},
		{0.9, 5, 0.037386},
		{-0.3, 30, 0.107246},
		{0, 12, 1},
		{1, 12, 0},
		{-1, 4, 0},
	}

	for _, c := range cases {
		p, err := PearsonPValue(c.r, c.n)
		require.NoError(t, err)
		ex.AssertWithin(t, "p-value", c.expected, p, 1e-4)
	}
}

func TestPearsonPValueNeedsThreePoints(t *testing.T) {
	_, err := PearsonPValue(1, 2)

	var dataErr *m.InsufficientDataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, 3, dataErr.Need)
}

func TestPermutationTestPerfectFitIsSignificant(t *testing.T) {
	records := recordsFrom(t, []float64{1, 2, 3, 4, 5, 6, 7, 8}, []float64{10, 20, 30, 40, 50, 60, 70, 80})
	rc := newTestContext(context.Background())

	p, err := rc.PermutationTest(records, 1, 2_000, 7)
	require.NoError(t, err)

	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 0.01)
}

func TestPermutationTestZeroObservedIsOne(t *testing.T) {
	src := generateMockRecords(t, newRand(3), 12)
	rc := newTestContext(context.Background())

	p, err := rc.PermutationTest(src, 0, 500, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)
}

func TestPermutationTestIsReproducible(t *testing.T) {
	records := generateMockRecords(t, newRand(9), 16)
	observed, err := Pearson(records)
	require.NoError(t, err)
	rc := newTestContext(context.Background())

	for _, seed := range []uint64{0, 42} {
		first, err := rc.PermutationTest(records, observed, 1_500, seed)
		require.NoError(t, err)
		second, err := rc.PermutationTest(records, observed, 1_500, seed)
		require.NoError(t, err)

		assert.Equal(t, first, second, "seed %d", seed)
		assert.Greater(t, first, 0.0)
		assert.LessOrEqual(t, first, 1.0)
	}

	// the shuffled column is a copy
	again := generateMockRecords(t, newRand(9), 16)
	assert.Equal(t, again, records)
}

func TestPermutationTestErrors(t *testing.T) {
	records := recordsFrom(t, []float64{1, 2, 3}, []float64{3, 1, 2})

	_, err := newTestContext(context.Background()).PermutationTest(records, 0.5, 0, 1)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = newTestContext(ctx).PermutationTest(records, 0.5, 10, 1)
	assert.ErrorIs(t, err, context.Canceled)

	constant := recordsFrom(t, []float64{1, 1, 1}, []float64{3, 1, 2})
	_, err = newTestContext(context.Background()).PermutationTest(constant, 0.5, 10, 1)
	assert.ErrorIs(t, err, m.ErrUndefinedCorrelation)
}
