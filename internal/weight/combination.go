package weight

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/smartkiosk/shelfjudge/internal/catalog"
	"github.com/smartkiosk/shelfjudge/internal/models"
)

const (
	// combinationTopN limits the pair search to the strongest candidates.
	combinationTopN = 5
	// maxCountPerItem bounds the per-member multiplicity tried for a pair.
	maxCountPerItem = 3
)

type pairCandidate struct {
	ensemble models.EnsembleResult
	product  catalog.ProductInfo
}

// CalculateCombination searches pairs of candidates whose combined expected
// weight explains the delta. Only 2-way combinations are searched; the
// maxCombinationSize parameter is kept for interface stability but any value
// other than 2 still runs the pair search (see DESIGN.md).
func (c *Calculator) CalculateCombination(candidates []models.EnsembleResult, deltaWeight float64, maxCombinationSize int) []models.CountEstimate {
	_ = maxCombinationSize

	absWeight := math.Abs(deltaWeight)
	if absWeight < c.minWeightChange {
		return nil
	}

	var pool []pairCandidate
	for i, candidate := range candidates {
		if i >= combinationTopN {
			break
		}
		product, ok := c.catalog.GetProduct(candidate.ClassID)
		if !ok || product.Weight <= 0 {
			continue
		}
		pool = append(pool, pairCandidate{ensemble: candidate, product: product})
	}

	if len(pool) < 2 {
		return nil
	}

	var best []models.CountEstimate
	bestError := math.Inf(1)
	bestScore := 0.0

	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			first, second := pool[i], pool[j]

			for count1 := 1; count1 <= maxCountPerItem; count1++ {
				for count2 := 1; count2 <= maxCountPerItem; count2++ {
					combined := first.product.Weight*float64(count1) + second.product.Weight*float64(count2)
					errAmount := math.Abs(absWeight - combined)
					tolerance := combined * c.tolerancePercent

					if errAmount > tolerance {
						continue
					}

					errorScore := 0.0
					if combined > 0 {
						errorScore = 1.0 - errAmount/combined
					}
					countPenalty := 1.0 - float64(count1+count2-2)*0.1
					avgConfidence := (first.ensemble.CombinedConfidence + second.ensemble.CombinedConfidence) / 2
					score := errorScore*0.5 + avgConfidence*0.4 + countPenalty*0.1

					if errAmount < bestError || (errAmount == bestError && score > bestScore) {
						bestError = errAmount
						bestScore = score
						best = c.buildPair(first, count1, second, count2, absWeight, errAmount)
					}
				}
			}
		}
	}

	if best != nil {
		log.Info().
			Str("first", best[0].ProductName).
			Int("firstCount", best[0].Count).
			Str("second", best[1].ProductName).
			Int("secondCount", best[1].Count).
			Float64("error", bestError).
			Float64("score", bestScore).
			Msg("combination match found")
	}

	return best
}

// buildPair apportions the observed weight and error between the two items
// by their expected-weight share.
func (c *Calculator) buildPair(first pairCandidate, count1 int, second pairCandidate, count2 int, absWeight, errAmount float64) []models.CountEstimate {
	weight1 := first.product.Weight * float64(count1)
	weight2 := second.product.Weight * float64(count2)
	totalExpected := weight1 + weight2

	share1 := weight1 / totalExpected
	share2 := weight2 / totalExpected

	return []models.CountEstimate{
		{
			ProductID:        first.ensemble.ClassID,
			ProductName:      first.product.Name,
			Count:            count1,
			UnitWeight:       first.product.Weight,
			ExpectedWeight:   weight1,
			ActualWeight:     absWeight * share1,
			MatchScore:       c.matchScore(errAmount*share1, weight1, c.tolerancePercent, first.ensemble.CombinedConfidence),
			VisionConfidence: first.ensemble.CombinedConfidence,
			Validated:        true,
		},
		{
			ProductID:        second.ensemble.ClassID,
			ProductName:      second.product.Name,
			Count:            count2,
			UnitWeight:       second.product.Weight,
			ExpectedWeight:   weight2,
			ActualWeight:     absWeight * share2,
			MatchScore:       c.matchScore(errAmount*share2, weight2, c.tolerancePercent, second.ensemble.CombinedConfidence),
			VisionConfidence: second.ensemble.CombinedConfidence,
			Validated:        true,
		},
	}
}
