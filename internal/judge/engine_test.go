package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartkiosk/shelfjudge/internal/catalog"
	"github.com/smartkiosk/shelfjudge/internal/models"
)

func candidate(classID int, name string, confidence float64) models.EnsembleResult {
	return models.EnsembleResult{
		ClassID:            classID,
		ClassName:          name,
		TopConfidence:      confidence,
		SideConfidence:     confidence,
		CombinedConfidence: confidence,
		VoteCount:          2,
	}
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(catalog.NewDefault(), Config{})
}

func TestJudgeSingleProductRemoval(t *testing.T) {
	engine := newEngine(t)

	result := engine.Judge([]models.EnsembleResult{
		candidate(26, "chickenmayo_rice", 0.88),
	}, -365.0)

	require.NotNil(t, result)
	assert.Equal(t, models.StatusComplete, result.Status)
	require.Len(t, result.Products, 1)
	assert.Equal(t, 26, result.Products[0].ProductID)
	assert.Equal(t, 1, result.Products[0].Count)
	assert.Equal(t, 3500, result.Products[0].UnitPrice)
	assert.Equal(t, 3500, result.TotalPrice)
	assert.InDelta(t, 0.928, result.Confidence, 1e-9)
	assert.True(t, result.IsRemoval())
	assert.Equal(t, 365.0, result.WeightExplained)
	assert.InDelta(t, 0.0, result.WeightResidual, 1e-9)
}

func TestJudgeMultipleUnits(t *testing.T) {
	engine := newEngine(t)

	result := engine.Judge([]models.EnsembleResult{
		candidate(9, "vita500", 0.82),
	}, -260.0)

	assert.Equal(t, models.StatusComplete, result.Status)
	require.Len(t, result.Products, 1)
	assert.Equal(t, 2, result.Products[0].Count)
	assert.Equal(t, 2400, result.TotalPrice)
}

func TestJudgeWeightMismatchIsNotComplete(t *testing.T) {
	engine := newEngine(t)

	// 500g against a 365g product: far outside the food tolerance
	result := engine.Judge([]models.EnsembleResult{
		candidate(26, "chickenmayo_rice", 0.88),
	}, -500.0)

	assert.NotEqual(t, models.StatusComplete, result.Status)
	assert.Equal(t, models.StatusUncertain, result.Status)
	require.Len(t, result.Products, 1)
	assert.Equal(t, 26, result.Products[0].ProductID)
}

func TestJudgeToleranceBoundaryStillComplete(t *testing.T) {
	engine := newEngine(t)

	// 29g error against a 29.2g food tolerance
	result := engine.Judge([]models.EnsembleResult{
		candidate(26, "chickenmayo_rice", 0.88),
	}, -394.0)

	assert.Equal(t, models.StatusComplete, result.Status)
}

func TestJudgeCombination(t *testing.T) {
	engine := newEngine(t)

	// no single candidate explains 182g; snickers + vita500 does exactly
	result := engine.Judge([]models.EnsembleResult{
		candidate(21, "snickers", 0.85),
		candidate(9, "vita500", 0.80),
	}, -182.0)

	assert.Equal(t, models.StatusComplete, result.Status)
	require.Len(t, result.Products, 2)
	assert.Equal(t, 2700, result.TotalPrice)
	assert.InDelta(t, 182.0, result.WeightExplained, 1e-9)
	assert.InDelta(t, 0.0, result.WeightResidual, 1e-9)
	assert.True(t, result.IsSuccess())
}

func TestJudgeNoCandidates(t *testing.T) {
	engine := newEngine(t)

	result := engine.Judge(nil, -365.0)

	assert.Equal(t, models.StatusNoDetection, result.Status)
	assert.Empty(t, result.Products)
	assert.Equal(t, 0, result.TotalPrice)
	assert.Equal(t, 365.0, result.WeightResidual)
}

func TestJudgeWeightChangeTooSmall(t *testing.T) {
	engine := newEngine(t)

	result := engine.Judge([]models.EnsembleResult{
		candidate(26, "chickenmayo_rice", 0.9),
	}, -3.0)

	assert.Equal(t, models.StatusNoDetection, result.Status)
}

func TestJudgeHandOnlyCandidate(t *testing.T) {
	engine := newEngine(t)

	// hand has zero catalog weight, so no estimate survives
	result := engine.Judge([]models.EnsembleResult{
		candidate(0, "hand", 0.95),
	}, -365.0)

	assert.Equal(t, models.StatusNoDetection, result.Status)
}

func TestJudgeRestock(t *testing.T) {
	engine := newEngine(t)

	// a positive delta is a put-back and judges the same way
	result := engine.Judge([]models.EnsembleResult{
		candidate(26, "chickenmayo_rice", 0.88),
	}, 365.0)

	assert.Equal(t, models.StatusComplete, result.Status)
	assert.False(t, result.IsRemoval())
}

func TestJudgeConfidenceBounds(t *testing.T) {
	engine := newEngine(t)

	deltas := []float64{-52.0, -130.0, -365.0, -500.0, -1000.0}
	for _, delta := range deltas {
		result := engine.Judge([]models.EnsembleResult{
			candidate(26, "chickenmayo_rice", 1.0),
			candidate(9, "vita500", 1.0),
			candidate(21, "snickers", 1.0),
		}, delta)

		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
		for _, p := range result.Products {
			assert.GreaterOrEqual(t, p.Confidence, 0.0)
			assert.LessOrEqual(t, p.Confidence, 1.0)
		}
	}
}

func TestJudgeIdempotent(t *testing.T) {
	engine := newEngine(t)

	candidates := []models.EnsembleResult{
		candidate(26, "chickenmayo_rice", 0.88),
	}

	first := engine.Judge(candidates, -365.0)
	second := engine.Judge(candidates, -365.0)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.TotalPrice, second.TotalPrice)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Products, second.Products)
}

func TestJudgeWithRequestTotalDelta(t *testing.T) {
	engine := newEngine(t)

	req := models.JudgmentRequest{
		LoadcellWeights: []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100},
		BaselineWeights: []float64{100, 100, 282.5, 282.5, 100, 100, 100, 100, 100, 100},
	}

	result := engine.JudgeWithRequest([]models.EnsembleResult{
		candidate(26, "chickenmayo_rice", 0.88),
	}, req)

	assert.Equal(t, models.StatusComplete, result.Status)
	assert.Equal(t, -365.0, result.WeightDelta)
}

func TestJudgeWithRequestZoneDelta(t *testing.T) {
	engine := newEngine(t)

	zone := 1
	req := models.JudgmentRequest{
		LoadcellWeights: []float64{500, 500, 100, 100, 500, 500, 500, 500, 500, 500},
		BaselineWeights: []float64{500, 500, 282.5, 282.5, 500, 500, 500, 500, 500, 500},
		ZoneID:          &zone,
	}

	result := engine.JudgeWithRequest([]models.EnsembleResult{
		candidate(26, "chickenmayo_rice", 0.88),
	}, req)

	assert.Equal(t, -365.0, result.WeightDelta)
	assert.Equal(t, models.StatusComplete, result.Status)
}

func TestFusionConfidenceCountPenalty(t *testing.T) {
	engine := newEngine(t)

	low := engine.fusionConfidence(0.8, 0.9, 5)
	high := engine.fusionConfidence(0.8, 0.9, 2)
	assert.Less(t, low, high)

	// counts up to 3 carry full rationality
	assert.Equal(t,
		engine.fusionConfidence(0.8, 0.9, 1),
		engine.fusionConfidence(0.8, 0.9, 3))
}
