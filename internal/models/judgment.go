package models

import (
	"time"
)

type JudgmentStatus string

const (
	StatusComplete    JudgmentStatus = "complete"
	StatusPartial     JudgmentStatus = "partial"
	StatusUncertain   JudgmentStatus = "uncertain"
	StatusNoDetection JudgmentStatus = "no_detection"
)

// EnsembleResult is a class-level product hypothesis after multi-view fusion.
// SideConfidence is 0 when only one camera contributed; VoteCount is 2 when
// both views agreed on the class.
type EnsembleResult struct {
	ClassID            int
	ClassName          string
	TopConfidence      float64
	SideConfidence     float64
	CombinedConfidence float64
	VoteCount          int
}

func (e EnsembleResult) IsConsensus() bool {
	return e.VoteCount == 2
}

// CountEstimate is a weight-grounded hypothesis for one product.
type CountEstimate struct {
	ProductID        int
	ProductName      string
	Count            int
	UnitWeight       float64
	ExpectedWeight   float64
	ActualWeight     float64
	MatchScore       float64
	VisionConfidence float64
	Validated        bool
}

func (c CountEstimate) WeightError() float64 {
	diff := c.ActualWeight - c.ExpectedWeight
	if diff < 0 {
		return -diff
	}
	return diff
}

func (c CountEstimate) ErrorRate() float64 {
	if c.ExpectedWeight == 0 {
		return 1.0
	}
	return c.WeightError() / c.ExpectedWeight
}

// ProductJudgment is one line item of a decision.
type ProductJudgment struct {
	ProductID  int
	Name       string
	Count      int
	UnitPrice  int
	TotalPrice int
	Confidence float64
	UnitWeight float64
}

// JudgmentResult is the full outcome of one decision. It is created once per
// engine invocation and never mutated afterward.
type JudgmentResult struct {
	Products        []ProductJudgment
	TotalPrice      int
	Confidence      float64
	Status          JudgmentStatus
	WeightDelta     float64
	WeightExplained float64
	WeightResidual  float64
	Timestamp       time.Time
}

// IsRemoval reports whether the shelf lost weight (item taken).
func (r *JudgmentResult) IsRemoval() bool {
	return r.WeightDelta < 0
}

func (r *JudgmentResult) IsSuccess() bool {
	return r.Status == StatusComplete || r.Status == StatusPartial
}

func (r *JudgmentResult) ProductCount() int {
	total := 0
	for _, p := range r.Products {
		total += p.Count
	}
	return total
}
