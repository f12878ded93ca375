package weight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartkiosk/shelfjudge/internal/models"
)

func TestCombinationExactPair(t *testing.T) {
	calc := newCalculator(t)

	// snickers 52g + vita500 130g = 182g
	candidates := []models.EnsembleResult{
		candidate(21, "snickers", 0.85),
		candidate(9, "vita500", 0.80),
	}

	combination := calc.CalculateCombination(candidates, -182.0, 2)
	require.Len(t, combination, 2)

	first, second := combination[0], combination[1]
	assert.Equal(t, 21, first.ProductID)
	assert.Equal(t, 1, first.Count)
	assert.Equal(t, 9, second.ProductID)
	assert.Equal(t, 1, second.Count)
	assert.True(t, first.Validated)
	assert.True(t, second.Validated)

	// zero error: actual weight equals the expected share
	assert.InDelta(t, 52.0, first.ActualWeight, 1e-9)
	assert.InDelta(t, 130.0, second.ActualWeight, 1e-9)
	assert.InDelta(t, 182.0, first.ExpectedWeight+second.ExpectedWeight, 1e-9)
}

func TestCombinationMultipleCounts(t *testing.T) {
	calc := newCalculator(t)

	// 2x snickers + 1x vita500 = 234g
	candidates := []models.EnsembleResult{
		candidate(21, "snickers", 0.85),
		candidate(9, "vita500", 0.80),
	}

	combination := calc.CalculateCombination(candidates, -234.0, 2)
	require.Len(t, combination, 2)
	assert.Equal(t, 2, combination[0].Count)
	assert.Equal(t, 1, combination[1].Count)
}

func TestCombinationNoMatch(t *testing.T) {
	calc := newCalculator(t)

	// nothing pairs up to ~37g within 10%
	candidates := []models.EnsembleResult{
		candidate(26, "chickenmayo_rice", 0.9), // 365g
		candidate(9, "vita500", 0.8),           // 130g
	}

	assert.Nil(t, calc.CalculateCombination(candidates, -37.0, 2))
}

func TestCombinationNeedsTwoUsableCandidates(t *testing.T) {
	calc := newCalculator(t)

	candidates := []models.EnsembleResult{
		candidate(9, "vita500", 0.8),
		candidate(9999, "ghost", 0.9), // not in catalog
		candidate(0, "hand", 0.9),     // zero weight
	}

	assert.Nil(t, calc.CalculateCombination(candidates, -260.0, 2))
}

func TestCombinationBelowThreshold(t *testing.T) {
	calc := newCalculator(t)

	candidates := []models.EnsembleResult{
		candidate(21, "snickers", 0.85),
		candidate(9, "vita500", 0.80),
	}

	assert.Nil(t, calc.CalculateCombination(candidates, -2.0, 2))
}

func TestCombinationOnlyTopCandidatesSearched(t *testing.T) {
	calc := newCalculator(t)

	// six filler candidates ahead push the matching pair past the search
	// window; only the first five are considered
	candidates := []models.EnsembleResult{
		candidate(26, "chickenmayo_rice", 0.9),
		candidate(27, "tuna_rice", 0.9),
		candidate(28, "spam_rice", 0.9),
		candidate(29, "egg_sandwich", 0.9),
		candidate(30, "ham_sandwich", 0.9),
		candidate(21, "snickers", 0.85),
		candidate(9, "vita500", 0.80),
	}

	assert.Nil(t, calc.CalculateCombination(candidates, -182.0, 2))
}
