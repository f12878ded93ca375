package judge

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartkiosk/shelfjudge/internal/catalog"
	"github.com/smartkiosk/shelfjudge/internal/models"
	"github.com/smartkiosk/shelfjudge/internal/weight"
)

const (
	DefaultTolerancePercent    = 0.10
	DefaultConfidenceThreshold = 0.3
	DefaultMinWeightChange     = 5.0
	DefaultPartialThreshold    = 0.7
	DefaultMaxCombinationSize  = 2

	visionWeight      = 0.4
	weightMatchWeight = 0.5
	countWeight       = 0.1
)

// Engine fuses vision candidates with a weight delta into a final product
// judgment. It holds no mutable state between invocations and is safe for
// concurrent use as long as the catalog snapshot is not mutated.
type Engine struct {
	catalog             catalog.Catalog
	calculator          *weight.Calculator
	confidenceThreshold float64
	minWeightChange     float64
	partialThreshold    float64
	maxCombinationSize  int
}

type Config struct {
	TolerancePercent    float64
	ConfidenceThreshold float64
	MinWeightChange     float64
	PartialThreshold    float64
	MaxCombinationSize  int
}

func NewEngine(cat catalog.Catalog, config Config) *Engine {
	if config.TolerancePercent == 0 {
		config.TolerancePercent = DefaultTolerancePercent
	}
	if config.ConfidenceThreshold == 0 {
		config.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if config.MinWeightChange == 0 {
		config.MinWeightChange = DefaultMinWeightChange
	}
	if config.PartialThreshold == 0 {
		config.PartialThreshold = DefaultPartialThreshold
	}
	if config.MaxCombinationSize == 0 {
		config.MaxCombinationSize = DefaultMaxCombinationSize
	}

	return &Engine{
		catalog: cat,
		calculator: weight.NewCalculator(cat, weight.CalculatorConfig{
			TolerancePercent: config.TolerancePercent,
			MinWeightChange:  config.MinWeightChange,
		}),
		confidenceThreshold: config.ConfidenceThreshold,
		minWeightChange:     config.MinWeightChange,
		partialThreshold:    config.PartialThreshold,
		maxCombinationSize:  config.MaxCombinationSize,
	}
}

// Judge decides which product(s) changed hands for one interaction. It
// always returns a result; "don't know" is expressed through the status,
// never an error.
func (e *Engine) Judge(candidates []models.EnsembleResult, deltaWeight float64) *models.JudgmentResult {
	timestamp := time.Now()
	absWeight := math.Abs(deltaWeight)

	log.Info().
		Int("candidates", len(candidates)).
		Float64("deltaWeight", deltaWeight).
		Msg("starting judgment")

	if len(candidates) == 0 {
		log.Warn().Msg("no vision candidates provided")
		return e.noDetectionResult(deltaWeight, timestamp)
	}

	if absWeight < e.minWeightChange {
		log.Info().
			Float64("absWeight", absWeight).
			Float64("min", e.minWeightChange).
			Msg("weight change too small")
		return e.noDetectionResult(deltaWeight, timestamp)
	}

	estimates := e.calculator.Calculate(candidates, deltaWeight)
	if len(estimates) == 0 {
		log.Warn().Msg("no valid count estimates")
		return e.noDetectionResult(deltaWeight, timestamp)
	}

	if result := e.trySingleMatch(estimates, deltaWeight, timestamp); result != nil {
		log.Info().Str("product", result.Products[0].Name).Msg("single product match")
		return result
	}

	if result := e.tryCombinationMatch(candidates, deltaWeight, timestamp); result != nil {
		log.Info().Int("products", len(result.Products)).Msg("combination match")
		return result
	}

	log.Info().Msg("returning partial/uncertain result")
	return e.partialResult(estimates, deltaWeight, timestamp)
}

// JudgeWithRequest derives the delta from raw loadcell readings before
// judging. A nil zone sums all channels; otherwise only the zone's pair of
// channels counts.
func (e *Engine) JudgeWithRequest(candidates []models.EnsembleResult, req models.JudgmentRequest) *models.JudgmentResult {
	var deltaWeight float64
	if req.ZoneID != nil {
		deltaWeight = req.ZoneDelta(*req.ZoneID)
	} else {
		deltaWeight = req.TotalDelta()
	}
	return e.Judge(candidates, deltaWeight)
}

// trySingleMatch picks the best validated estimate, provided its fused
// confidence clears the threshold.
func (e *Engine) trySingleMatch(estimates []models.CountEstimate, deltaWeight float64, timestamp time.Time) *models.JudgmentResult {
	var best *models.CountEstimate
	for i := range estimates {
		if estimates[i].Validated {
			best = &estimates[i]
			break
		}
	}
	if best == nil {
		return nil
	}

	confidence := e.fusionConfidence(best.VisionConfidence, best.MatchScore, best.Count)
	if confidence < e.confidenceThreshold {
		log.Debug().
			Float64("confidence", confidence).
			Float64("threshold", e.confidenceThreshold).
			Msg("confidence too low for single match")
		return nil
	}

	product := e.buildJudgment(*best, confidence)

	return &models.JudgmentResult{
		Products:        []models.ProductJudgment{product},
		TotalPrice:      product.TotalPrice,
		Confidence:      confidence,
		Status:          models.StatusComplete,
		WeightDelta:     deltaWeight,
		WeightExplained: best.ExpectedWeight,
		WeightResidual:  math.Abs(math.Abs(deltaWeight) - best.ExpectedWeight),
		Timestamp:       timestamp,
	}
}

func (e *Engine) tryCombinationMatch(candidates []models.EnsembleResult, deltaWeight float64, timestamp time.Time) *models.JudgmentResult {
	combination := e.calculator.CalculateCombination(candidates, deltaWeight, e.maxCombinationSize)
	if combination == nil {
		return nil
	}

	products := make([]models.ProductJudgment, 0, len(combination))
	totalPrice := 0
	totalExplained := 0.0
	confidenceSum := 0.0

	for _, estimate := range combination {
		confidence := e.fusionConfidence(estimate.VisionConfidence, estimate.MatchScore, estimate.Count)
		product := e.buildJudgment(estimate, confidence)
		products = append(products, product)
		totalPrice += product.TotalPrice
		totalExplained += estimate.ExpectedWeight
		confidenceSum += confidence
	}

	return &models.JudgmentResult{
		Products:        products,
		TotalPrice:      totalPrice,
		Confidence:      confidenceSum / float64(len(products)),
		Status:          models.StatusComplete,
		WeightDelta:     deltaWeight,
		WeightExplained: totalExplained,
		WeightResidual:  math.Abs(math.Abs(deltaWeight) - totalExplained),
		Timestamp:       timestamp,
	}
}

// partialResult emits the best-effort guess when neither the single nor the
// combination path produced a complete explanation.
func (e *Engine) partialResult(estimates []models.CountEstimate, deltaWeight float64, timestamp time.Time) *models.JudgmentResult {
	if len(estimates) == 0 {
		return e.noDetectionResult(deltaWeight, timestamp)
	}

	best := estimates[0]
	confidence := e.fusionConfidence(best.VisionConfidence, best.MatchScore, best.Count)

	status := models.StatusUncertain
	if best.MatchScore > e.partialThreshold {
		status = models.StatusPartial
	}

	product := e.buildJudgment(best, confidence)

	return &models.JudgmentResult{
		Products:        []models.ProductJudgment{product},
		TotalPrice:      product.TotalPrice,
		Confidence:      confidence,
		Status:          status,
		WeightDelta:     deltaWeight,
		WeightExplained: best.ExpectedWeight,
		WeightResidual:  math.Abs(math.Abs(deltaWeight) - best.ExpectedWeight),
		Timestamp:       timestamp,
	}
}

func (e *Engine) noDetectionResult(deltaWeight float64, timestamp time.Time) *models.JudgmentResult {
	return &models.JudgmentResult{
		Status:         models.StatusNoDetection,
		WeightDelta:    deltaWeight,
		WeightResidual: math.Abs(deltaWeight),
		Timestamp:      timestamp,
	}
}

func (e *Engine) buildJudgment(estimate models.CountEstimate, confidence float64) models.ProductJudgment {
	price := 0
	if product, ok := e.catalog.GetProduct(estimate.ProductID); ok {
		price = product.Price
	}

	return models.ProductJudgment{
		ProductID:  estimate.ProductID,
		Name:       estimate.ProductName,
		Count:      estimate.Count,
		UnitPrice:  price,
		TotalPrice: price * estimate.Count,
		Confidence: confidence,
		UnitWeight: estimate.UnitWeight,
	}
}

// fusionConfidence blends vision confidence, weight fit, and count
// plausibility. Counts past 3 lose 0.1 per extra unit.
func (e *Engine) fusionConfidence(visionScore, weightScore float64, count int) float64 {
	visionNormalized := math.Min(math.Max(visionScore, 0.0), 1.0)
	weightNormalized := math.Min(math.Max(weightScore, 0.0), 1.0)

	countScore := 1.0
	if count > 3 {
		countScore = math.Max(0.0, 1.0-float64(count-3)*0.1)
	}

	confidence := visionWeight*visionNormalized +
		weightMatchWeight*weightNormalized +
		countWeight*countScore

	return math.Min(confidence, 1.0)
}
