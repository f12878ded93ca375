package vision

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/smartkiosk/shelfjudge/internal/models"
)

const (
	DefaultMaxDistancePx = 150.0
	DefaultExpandRatio   = 1.5
)

// HandProductPair records which hand claimed which product during filtering.
type HandProductPair struct {
	Hand    models.Detection
	Product models.Detection
}

// FilterResult is the output of one proximity-filter pass.
type FilterResult struct {
	Hands            []models.Detection
	FilteredProducts []models.Detection
	AllProducts      []models.Detection
	Pairs            []HandProductPair
}

// HandFilter keeps only the products near a detected hand. Each hand claims
// its nearest product within MaxDistancePx; everything else is treated as
// shelf noise.
type HandFilter struct {
	maxDistancePx float64
	handClassID   int
}

type HandFilterConfig struct {
	MaxDistancePx float64
	HandClassID   int
}

func NewHandFilter(config HandFilterConfig) *HandFilter {
	if config.MaxDistancePx == 0 {
		config.MaxDistancePx = DefaultMaxDistancePx
	}
	return &HandFilter{
		maxDistancePx: config.MaxDistancePx,
		handClassID:   config.HandClassID,
	}
}

// Filter partitions detections into hands and products and keeps each hand's
// nearest product. With no hands in frame all products pass through, so a
// transaction without a visible hand is never silently dropped.
func (f *HandFilter) Filter(detections []models.Detection) FilterResult {
	var hands, products []models.Detection
	for _, d := range detections {
		if d.ClassID == f.handClassID {
			hands = append(hands, d)
		} else {
			products = append(products, d)
		}
	}

	log.Debug().
		Int("hands", len(hands)).
		Int("products", len(products)).
		Msg("separated detections")

	if len(hands) == 0 {
		return FilterResult{
			FilteredProducts: products,
			AllProducts:      products,
		}
	}

	if len(products) == 0 {
		return FilterResult{Hands: hands}
	}

	// Dedup is by slice index, not value: two detections with identical
	// content are still distinct observations.
	var filtered []models.Detection
	var pairs []HandProductPair
	taken := make(map[int]bool, len(products))

	for _, hand := range hands {
		idx, ok := f.nearestProduct(hand, products)
		if !ok {
			continue
		}
		if !taken[idx] {
			taken[idx] = true
			filtered = append(filtered, products[idx])
		}
		pairs = append(pairs, HandProductPair{Hand: hand, Product: products[idx]})
	}

	log.Debug().
		Int("kept", len(filtered)).
		Int("total", len(products)).
		Msg("proximity filter applied")

	return FilterResult{
		Hands:            hands,
		FilteredProducts: filtered,
		AllProducts:      products,
		Pairs:            pairs,
	}
}

func (f *HandFilter) nearestProduct(hand models.Detection, products []models.Detection) (int, bool) {
	best := -1
	bestDistance := math.Inf(1)
	for i, product := range products {
		distance := hand.DistanceTo(product)
		if distance <= f.maxDistancePx && distance < bestDistance {
			bestDistance = distance
			best = i
		}
	}
	return best, best >= 0
}

// FilterAndSort filters and returns the top-K products by confidence.
func (f *HandFilter) FilterAndSort(detections []models.Detection, topK int) []models.Detection {
	result := f.Filter(detections)
	sorted := sortByConfidence(result.FilteredProducts)
	if len(sorted) > topK {
		sorted = sorted[:topK]
	}
	return sorted
}

// HandRegionProducts is the bbox variant: it keeps products whose center
// falls inside any hand bbox expanded by expandRatio.
func (f *HandFilter) HandRegionProducts(detections []models.Detection, expandRatio float64) []models.Detection {
	if expandRatio <= 0 {
		expandRatio = DefaultExpandRatio
	}

	var hands, products []models.Detection
	for _, d := range detections {
		if d.ClassID == f.handClassID {
			hands = append(hands, d)
		} else {
			products = append(products, d)
		}
	}

	if len(hands) == 0 {
		return products
	}

	var filtered []models.Detection
	taken := make(map[int]bool, len(products))

	for _, hand := range hands {
		cx, cy := hand.Center()
		halfW := hand.Width() * expandRatio / 2
		halfH := hand.Height() * expandRatio / 2

		for i, product := range products {
			if taken[i] {
				continue
			}
			px, py := product.Center()
			if px >= cx-halfW && px <= cx+halfW && py >= cy-halfH && py <= cy+halfH {
				taken[i] = true
				filtered = append(filtered, product)
			}
		}
	}

	return filtered
}
