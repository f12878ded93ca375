package weight

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/smartkiosk/shelfjudge/internal/catalog"
	"github.com/smartkiosk/shelfjudge/internal/models"
)

const (
	DefaultTolerancePercent = 0.10
	DefaultMaxCount         = 10
	DefaultMinWeightChange  = 5.0

	weightScoreShare = 0.5
	visionScoreShare = 0.4
	baselineScore    = 0.1
)

// Calculator estimates how many units of each candidate product explain an
// observed weight delta.
type Calculator struct {
	catalog          catalog.Catalog
	tolerancePercent float64
	maxCount         int
	minWeightChange  float64
}

type CalculatorConfig struct {
	TolerancePercent float64
	MaxCount         int
	MinWeightChange  float64
}

func NewCalculator(cat catalog.Catalog, config CalculatorConfig) *Calculator {
	if config.TolerancePercent == 0 {
		config.TolerancePercent = DefaultTolerancePercent
	}
	if config.MaxCount == 0 {
		config.MaxCount = DefaultMaxCount
	}
	if config.MinWeightChange == 0 {
		config.MinWeightChange = DefaultMinWeightChange
	}
	return &Calculator{
		catalog:          cat,
		tolerancePercent: config.TolerancePercent,
		maxCount:         config.MaxCount,
		minWeightChange:  config.MinWeightChange,
	}
}

// Calculate produces a count estimate per candidate, sorted by match score
// descending. Candidates missing from the catalog or without a positive
// unit weight are skipped, never fatal.
func (c *Calculator) Calculate(candidates []models.EnsembleResult, deltaWeight float64) []models.CountEstimate {
	absWeight := math.Abs(deltaWeight)

	if absWeight < c.minWeightChange {
		log.Debug().
			Float64("absWeight", absWeight).
			Float64("min", c.minWeightChange).
			Msg("weight change below threshold")
		return nil
	}

	var estimates []models.CountEstimate

	for _, candidate := range candidates {
		product, ok := c.catalog.GetProduct(candidate.ClassID)
		if !ok {
			log.Warn().Int("classId", candidate.ClassID).Msg("product not found in catalog")
			continue
		}
		if product.Weight <= 0 {
			log.Debug().Str("name", product.Name).Msg("skipping zero-weight product")
			continue
		}

		count := c.estimateCount(absWeight, product.Weight)
		if count <= 0 {
			continue
		}

		expectedWeight := product.Weight * float64(count)
		weightError := math.Abs(absWeight - expectedWeight)

		tolerance := c.catalog.GetTolerance(product.ID, c.tolerancePercent)
		toleranceAmount := expectedWeight * tolerance

		estimate := models.CountEstimate{
			ProductID:        candidate.ClassID,
			ProductName:      product.Name,
			Count:            count,
			UnitWeight:       product.Weight,
			ExpectedWeight:   expectedWeight,
			ActualWeight:     absWeight,
			MatchScore:       c.matchScore(weightError, expectedWeight, tolerance, candidate.CombinedConfidence),
			VisionConfidence: candidate.CombinedConfidence,
			Validated:        weightError <= toleranceAmount,
		}
		estimates = append(estimates, estimate)

		log.Debug().
			Str("name", product.Name).
			Int("count", count).
			Float64("expected", expectedWeight).
			Float64("actual", absWeight).
			Bool("validated", estimate.Validated).
			Float64("score", estimate.MatchScore).
			Msg("count estimate")
	}

	sort.SliceStable(estimates, func(i, j int) bool {
		return estimates[i].MatchScore > estimates[j].MatchScore
	})

	return estimates
}

// estimateCount rounds the delta to the nearest unit multiple. Counts above
// maxCount are capped, never rejected.
func (c *Calculator) estimateCount(absWeight, unitWeight float64) int {
	if unitWeight <= 0 {
		return 0
	}
	count := int(math.Round(absWeight / unitWeight))
	if count < 1 {
		return 0
	}
	if count > c.maxCount {
		return c.maxCount
	}
	return count
}

// matchScore blends weight fit and vision confidence. The weight component
// decays linearly out to twice the tolerance.
func (c *Calculator) matchScore(weightError, expectedWeight, tolerance, visionConfidence float64) float64 {
	weightScore := 0.0
	if expectedWeight > 0 {
		errorRate := weightError / expectedWeight
		weightScore = math.Max(0.0, 1.0-errorRate/(2*tolerance))
	}

	visionScore := math.Min(math.Max(visionConfidence, 0.0), 1.0)

	score := weightScore*weightScoreShare + visionScore*visionScoreShare + baselineScore
	return math.Min(score, 1.0)
}

// ValidateEstimate re-checks an estimate against the catalog tolerance.
func (c *Calculator) ValidateEstimate(estimate models.CountEstimate) bool {
	if estimate.Count <= 0 || estimate.Count > c.maxCount {
		return false
	}
	tolerance := c.catalog.GetTolerance(estimate.ProductID, c.tolerancePercent)
	return estimate.ErrorRate() <= tolerance
}
