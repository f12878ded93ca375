package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightDeltas(t *testing.T) {
	req := JudgmentRequest{
		LoadcellWeights: []float64{90, 80, 100},
		BaselineWeights: []float64{100, 100, 100, 100},
	}

	// lengths are zipped to the shorter side
	assert.Equal(t, []float64{-10, -20, 0}, req.WeightDeltas())
	assert.Equal(t, -30.0, req.TotalDelta())
}

func TestZoneDelta(t *testing.T) {
	req := JudgmentRequest{
		LoadcellWeights: []float64{100, 100, 50, 50, 100, 100, 100, 100, 100, 100},
		BaselineWeights: []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100},
	}

	assert.Equal(t, 0.0, req.ZoneDelta(0))
	assert.Equal(t, -100.0, req.ZoneDelta(1))
	assert.Equal(t, 0.0, req.ZoneDelta(4))

	// out-of-range zones sum zero channels instead of panicking
	assert.Equal(t, 0.0, req.ZoneDelta(-1))
	assert.Equal(t, 0.0, req.ZoneDelta(5))
}

func TestDetectActiveZone(t *testing.T) {
	req := JudgmentRequest{
		LoadcellWeights: []float64{100, 100, 100, 100, 100, 100, 20, 20, 100, 100},
		BaselineWeights: []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 100},
	}

	zone, ok := req.DetectActiveZone(5.0)
	assert.True(t, ok)
	assert.Equal(t, 3, zone)

	_, ok = req.DetectActiveZone(500.0)
	assert.False(t, ok)
}
