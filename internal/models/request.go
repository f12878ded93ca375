package models

import "math"

const (
	// LoadcellChannels is the number of scale channels on the shelf board.
	LoadcellChannels = 10
	// ChannelsPerZone pairs adjacent channels into one physical shelf slot.
	ChannelsPerZone = 2
	// ZoneCount is LoadcellChannels / ChannelsPerZone.
	ZoneCount = 5
)

// JudgmentRequest carries the raw sensor form of a judgment: current and
// baseline loadcell readings plus an optional zone restricting which
// channels count toward the delta.
type JudgmentRequest struct {
	SnapshotFolder  string
	LoadcellWeights []float64
	BaselineWeights []float64
	ZoneID          *int
}

// WeightDeltas returns per-channel current minus baseline. Extra channels on
// either side are ignored.
func (r JudgmentRequest) WeightDeltas() []float64 {
	n := len(r.LoadcellWeights)
	if len(r.BaselineWeights) < n {
		n = len(r.BaselineWeights)
	}
	deltas := make([]float64, n)
	for i := 0; i < n; i++ {
		deltas[i] = r.LoadcellWeights[i] - r.BaselineWeights[i]
	}
	return deltas
}

// TotalDelta sums the delta across all channels.
func (r JudgmentRequest) TotalDelta() float64 {
	total := 0.0
	for _, d := range r.WeightDeltas() {
		total += d
	}
	return total
}

// ZoneDelta sums the delta over the two channels of the given zone. Zones
// outside the board sum zero channels.
func (r JudgmentRequest) ZoneDelta(zoneID int) float64 {
	if zoneID < 0 {
		return 0
	}
	deltas := r.WeightDeltas()
	start := zoneID * ChannelsPerZone
	total := 0.0
	for i := start; i < start+ChannelsPerZone && i < len(deltas); i++ {
		total += deltas[i]
	}
	return total
}

// DetectActiveZone scans zones in order and returns the first whose absolute
// delta exceeds threshold.
func (r JudgmentRequest) DetectActiveZone(threshold float64) (int, bool) {
	for zoneID := 0; zoneID < ZoneCount; zoneID++ {
		if math.Abs(r.ZoneDelta(zoneID)) > threshold {
			return zoneID, true
		}
	}
	return 0, false
}
