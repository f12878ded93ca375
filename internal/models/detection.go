package models

import "math"

// HandClassID is reserved by the detector for hands; every other class id is
// a product.
const HandClassID = 0

// Detection is a single detector observation from one camera frame.
// Bbox is [x1, y1, x2, y2] in pixels.
type Detection struct {
	ClassID    int
	ClassName  string
	Confidence float64
	Bbox       [4]float64
}

func (d Detection) Center() (float64, float64) {
	return (d.Bbox[0] + d.Bbox[2]) / 2, (d.Bbox[1] + d.Bbox[3]) / 2
}

func (d Detection) Width() float64 {
	return d.Bbox[2] - d.Bbox[0]
}

func (d Detection) Height() float64 {
	return d.Bbox[3] - d.Bbox[1]
}

func (d Detection) Area() float64 {
	return d.Width() * d.Height()
}

func (d Detection) IsHand() bool {
	return d.ClassID == HandClassID
}

// DistanceTo returns the Euclidean distance between bounding-box centers.
func (d Detection) DistanceTo(other Detection) float64 {
	cx1, cy1 := d.Center()
	cx2, cy2 := other.Center()
	return math.Hypot(cx1-cx2, cy1-cy2)
}
