package vision

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/smartkiosk/shelfjudge/internal/models"
)

const (
	DefaultTopK           = 5
	DefaultTopWeight      = 0.4
	DefaultSideWeight     = 0.6
	DefaultConsensusBonus = 0.2
)

// ExtractionResult is the per-camera candidate set after proximity
// filtering and top-K truncation.
type ExtractionResult struct {
	Candidates    []models.Detection
	Hands         []models.Detection
	TotalDetected int
	FilteredCount int
}

// Extractor turns raw detector output into ranked product candidates:
// proximity filter, confidence top-K, and the optional two-view ensemble.
type Extractor struct {
	filter         *HandFilter
	topK           int
	topWeight      float64
	sideWeight     float64
	consensusBonus float64
}

type ExtractorConfig struct {
	MaxDistancePx  float64
	TopK           int
	HandClassID    int
	TopWeight      float64
	SideWeight     float64
	ConsensusBonus float64
}

func NewExtractor(config ExtractorConfig) *Extractor {
	if config.TopK == 0 {
		config.TopK = DefaultTopK
	}
	if config.TopWeight == 0 {
		config.TopWeight = DefaultTopWeight
	}
	if config.SideWeight == 0 {
		config.SideWeight = DefaultSideWeight
	}
	if config.ConsensusBonus == 0 {
		config.ConsensusBonus = DefaultConsensusBonus
	}
	return &Extractor{
		filter: NewHandFilter(HandFilterConfig{
			MaxDistancePx: config.MaxDistancePx,
			HandClassID:   config.HandClassID,
		}),
		topK:           config.TopK,
		topWeight:      config.TopWeight,
		sideWeight:     config.SideWeight,
		consensusBonus: config.ConsensusBonus,
	}
}

// Extract filters by hand proximity and keeps the top-K products by
// confidence. The sort is stable so ties keep detector order.
func (e *Extractor) Extract(detections []models.Detection) ExtractionResult {
	filterResult := e.filter.Filter(detections)

	candidates := sortByConfidence(filterResult.FilteredProducts)
	if len(candidates) > e.topK {
		candidates = candidates[:e.topK]
	}

	log.Info().
		Int("candidates", len(candidates)).
		Int("filtered", len(filterResult.FilteredProducts)).
		Int("total", len(filterResult.AllProducts)).
		Msg("extracted top candidates")

	return ExtractionResult{
		Candidates:    candidates,
		Hands:         filterResult.Hands,
		TotalDetected: len(filterResult.AllProducts),
		FilteredCount: len(filterResult.FilteredProducts),
	}
}

type viewScore struct {
	classID  int
	name     string
	topConf  float64
	sideConf float64
}

// Ensemble fuses candidate sets from the top and side cameras into one
// ranked hypothesis list. Per class the strongest detection of each view
// counts; classes seen by both views get the consensus bonus.
func (e *Extractor) Ensemble(topCandidates, sideCandidates []models.Detection) []models.EnsembleResult {
	index := make(map[int]int)
	var scores []viewScore

	record := func(det models.Detection, side bool) {
		i, ok := index[det.ClassID]
		if !ok {
			i = len(scores)
			index[det.ClassID] = i
			scores = append(scores, viewScore{classID: det.ClassID, name: det.ClassName})
		}
		if side {
			if det.Confidence > scores[i].sideConf {
				scores[i].sideConf = det.Confidence
			}
		} else {
			if det.Confidence > scores[i].topConf {
				scores[i].topConf = det.Confidence
			}
		}
	}

	for _, det := range topCandidates {
		record(det, false)
	}
	for _, det := range sideCandidates {
		record(det, true)
	}

	var results []models.EnsembleResult
	for _, s := range scores {
		if s.classID == models.HandClassID {
			continue
		}

		votes := 0
		if s.topConf > 0 {
			votes++
		}
		if s.sideConf > 0 {
			votes++
		}

		var combined float64
		switch {
		case s.topConf > 0 && s.sideConf > 0:
			combined = s.topConf*e.topWeight + s.sideConf*e.sideWeight + e.consensusBonus
		case s.topConf > 0:
			combined = s.topConf * e.topWeight
		default:
			combined = s.sideConf * e.sideWeight
		}
		if combined > 1.0 {
			combined = 1.0
		}

		results = append(results, models.EnsembleResult{
			ClassID:            s.classID,
			ClassName:          s.name,
			TopConfidence:      s.topConf,
			SideConfidence:     s.sideConf,
			CombinedConfidence: combined,
			VoteCount:          votes,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CombinedConfidence > results[j].CombinedConfidence
	})
	if len(results) > e.topK {
		results = results[:e.topK]
	}

	consensus := 0
	for _, r := range results {
		if r.IsConsensus() {
			consensus++
		}
	}
	log.Info().
		Int("classes", len(results)).
		Int("consensus", consensus).
		Msg("ensemble complete")

	return results
}

// ProcessDualCamera runs the full two-view pipeline: per-camera extraction
// followed by the ensemble.
func (e *Extractor) ProcessDualCamera(topDetections, sideDetections []models.Detection) []models.EnsembleResult {
	topResult := e.Extract(topDetections)
	sideResult := e.Extract(sideDetections)
	return e.Ensemble(topResult.Candidates, sideResult.Candidates)
}

// ProcessSingleCamera is the one-view degenerate case: top-K candidates are
// reused directly, no fusion arithmetic.
func (e *Extractor) ProcessSingleCamera(detections []models.Detection) []models.EnsembleResult {
	result := e.Extract(detections)

	var ensembleResults []models.EnsembleResult
	for _, det := range result.Candidates {
		if det.IsHand() {
			continue
		}
		ensembleResults = append(ensembleResults, models.EnsembleResult{
			ClassID:            det.ClassID,
			ClassName:          det.ClassName,
			TopConfidence:      det.Confidence,
			SideConfidence:     0.0,
			CombinedConfidence: det.Confidence,
			VoteCount:          1,
		})
	}
	return ensembleResults
}

func sortByConfidence(detections []models.Detection) []models.Detection {
	sorted := make([]models.Detection, len(detections))
	copy(sorted, detections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})
	return sorted
}
