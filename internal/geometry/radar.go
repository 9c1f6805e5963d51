// Package geometry maps N-axis quality scores onto radar-chart
// coordinates for rendering.
package geometry

import (
	"errors"
	"math"

	"github.com/codyseavey/card-vault/internal/models"
)

// gridLevels are the fixed rings drawn behind the data polygon, scaled
// against the chart's max value.
var gridLevels = []float64{2, 4, 6, 8, 10}

// labelOffset is how far past the outer radius axis labels sit.
const labelOffset = 16.0

// alignEpsilon decides when an axis counts as vertical for label
// alignment purposes.
const alignEpsilon = 1e-9

// Alignment is the text anchor for an axis label.
type Alignment string

const (
	AlignStart  Alignment = "start"
	AlignMiddle Alignment = "middle"
	AlignEnd    Alignment = "end"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GridRing is one background polygon at a fixed level.
type GridRing struct {
	Level  float64 `json:"level"`
	Points []Point `json:"points"`
}

// AxisLabel is the anchor and alignment for one axis caption.
type AxisLabel struct {
	Label     string    `json:"label"`
	Anchor    Point     `json:"anchor"`
	Alignment Alignment `json:"alignment"`
}

// RadarChart is the full geometry for one chart: grid rings, the data
// polygon, and label anchors.
type RadarChart struct {
	Center   Point       `json:"center"`
	Radius   float64     `json:"radius"`
	MaxValue float64     `json:"max_value"`
	Grid     []GridRing  `json:"grid"`
	Data     []Point     `json:"data"`
	Labels   []AxisLabel `json:"labels"`
}

var (
	ErrNoAxes          = errors.New("radar chart requires at least one axis")
	ErrInvalidMaxValue = errors.New("radar chart max value must be positive")
)

// Radar computes chart geometry for the given axes. Axis 0 sits at the
// top (-π/2) and subsequent axes proceed clockwise. The data polygon
// is intentionally unclamped: a value above maxValue lands outside the
// outer grid ring, which renderers rely on to show out-of-scale
// scores.
func Radar(axes []models.Subgrade, cx, cy, radius, maxValue float64) (*RadarChart, error) {
	n := len(axes)
	if n == 0 {
		return nil, ErrNoAxes
	}
	if maxValue <= 0 {
		return nil, ErrInvalidMaxValue
	}

	step := 2 * math.Pi / float64(n)
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = -math.Pi/2 + float64(i)*step
	}

	chart := &RadarChart{
		Center:   Point{X: cx, Y: cy},
		Radius:   radius,
		MaxValue: maxValue,
	}

	for _, level := range gridLevels {
		ring := GridRing{Level: level, Points: make([]Point, n)}
		for i, theta := range angles {
			ring.Points[i] = vertex(cx, cy, radius, level/maxValue, theta)
		}
		chart.Grid = append(chart.Grid, ring)
	}

	chart.Data = make([]Point, n)
	for i, axis := range axes {
		chart.Data[i] = vertex(cx, cy, radius, axis.Value/maxValue, angles[i])
	}

	chart.Labels = make([]AxisLabel, n)
	for i, axis := range axes {
		theta := angles[i]
		chart.Labels[i] = AxisLabel{
			Label: axis.Label,
			Anchor: Point{
				X: cx + (radius+labelOffset)*math.Cos(theta),
				Y: cy + (radius+labelOffset)*math.Sin(theta),
			},
			Alignment: alignment(theta),
		}
	}

	return chart, nil
}

func vertex(cx, cy, radius, scale, theta float64) Point {
	return Point{
		X: cx + radius*scale*math.Cos(theta),
		Y: cy + radius*scale*math.Sin(theta),
	}
}

// alignment picks the text anchor by half-plane: labels right of
// center lead with their text, labels left of center trail, and the
// vertical axes center.
func alignment(theta float64) Alignment {
	c := math.Cos(theta)
	switch {
	case c > alignEpsilon:
		return AlignStart
	case c < -alignEpsilon:
		return AlignEnd
	default:
		return AlignMiddle
	}
}
