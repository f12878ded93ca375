package api

import (
	"math"
	"time"

	"github.com/smartkiosk/shelfjudge/internal/models"
)

// DetectionInput mirrors the detector's raw output row: bbox, confidence,
// class id, class name.
type DetectionInput struct {
	Xyxy []float64 `json:"xyxy"`
	Conf float64   `json:"conf"`
	Cls  int       `json:"cls"`
	Name string    `json:"name"`
}

func (d DetectionInput) ToDetection() models.Detection {
	det := models.Detection{
		ClassID:    d.Cls,
		ClassName:  d.Name,
		Confidence: d.Conf,
	}
	for i := 0; i < len(d.Xyxy) && i < 4; i++ {
		det.Bbox[i] = d.Xyxy[i]
	}
	return det
}

// TestRequest feeds detector output straight into the pipeline, bypassing
// the loadcell. SideDetections is optional; when present the two-view
// ensemble runs.
type TestRequest struct {
	Detections     []DetectionInput `json:"detections"`
	SideDetections []DetectionInput `json:"side_detections,omitempty"`
	DeltaWeight    float64          `json:"delta_weight"`
	UseHandFilter  *bool            `json:"use_hand_filter,omitempty"`
}

// SimulateRequest fabricates a judgment for a known product and count.
type SimulateRequest struct {
	ProductID  int     `json:"product_id"`
	Count      int     `json:"count"`
	Confidence float64 `json:"confidence"`
}

// JudgeRequest is the production form: raw loadcell readings plus an
// optional zone.
type JudgeRequest struct {
	SnapshotFolder  string    `json:"snapshot_folder"`
	LoadcellWeights []float64 `json:"loadcell_weights"`
	BaselineWeights []float64 `json:"baseline_weights"`
	ZoneID          *int      `json:"zone_id,omitempty"`
}

type ProductOutput struct {
	ProductID  int     `json:"productId"`
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	UnitPrice  int     `json:"unitPrice"`
	TotalPrice int     `json:"totalPrice"`
	Confidence float64 `json:"confidence"`
}

type WeightInfo struct {
	Delta     float64 `json:"delta"`
	Explained float64 `json:"explained"`
	Residual  float64 `json:"residual"`
}

type JudgeResponse struct {
	Success      bool            `json:"success"`
	Products     []ProductOutput `json:"products"`
	TotalPrice   int             `json:"totalPrice"`
	Status       string          `json:"status"`
	Confidence   float64         `json:"confidence"`
	WeightInfo   WeightInfo      `json:"weightInfo"`
	ProductCount int             `json:"productCount"`
	IsRemoval    bool            `json:"isRemoval"`
	Timestamp    float64         `json:"timestamp"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	ProductCount int    `json:"productCount"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// NewJudgeResponse applies the serialization contract: confidence rounded
// to 2 decimals, weight figures to 1.
func NewJudgeResponse(result *models.JudgmentResult) JudgeResponse {
	products := make([]ProductOutput, 0, len(result.Products))
	for _, p := range result.Products {
		products = append(products, ProductOutput{
			ProductID:  p.ProductID,
			Name:       p.Name,
			Count:      p.Count,
			UnitPrice:  p.UnitPrice,
			TotalPrice: p.TotalPrice,
			Confidence: round2(p.Confidence),
		})
	}

	return JudgeResponse{
		Success:    result.IsSuccess(),
		Products:   products,
		TotalPrice: result.TotalPrice,
		Status:     string(result.Status),
		Confidence: round2(result.Confidence),
		WeightInfo: WeightInfo{
			Delta:     round1(result.WeightDelta),
			Explained: round1(result.WeightExplained),
			Residual:  round1(result.WeightResidual),
		},
		ProductCount: result.ProductCount(),
		IsRemoval:    result.IsRemoval(),
		Timestamp:    unixSeconds(result.Timestamp),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
