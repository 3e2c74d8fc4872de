package render

import (
	"math"

	"leetviz/pkg/frame"
)

const (
	maxElementSize  = 60
	horizontalInset = 60 // left/right margin around structures
	arrowHeadLength = 15
	arrowHeadAngle  = math.Pi / 6
)

// rect is an axis-aligned box in canvas coordinates
type rect struct {
	X, Y, W, H float64
}

func (r rect) Right() float64   { return r.X + r.W }
func (r rect) Bottom() float64  { return r.Y + r.H }
func (r rect) CenterX() float64 { return r.X + r.W/2 }
func (r rect) CenterY() float64 { return r.Y + r.H/2 }

// structureSpacing returns the gap between adjacent elements for a type
func structureSpacing(t frame.StructureType) float64 {
	switch t {
	case frame.TypeLinkedList:
		return 40
	case frame.TypeDict, frame.TypeSet:
		return 25
	default:
		return 15
	}
}

// fitElementSize sizes elements so count of them plus gaps fit in available
// width, capped at maxElementSize
func fitElementSize(count int, available, spacing float64) float64 {
	if count <= 0 {
		return maxElementSize
	}
	size := (available - float64(count-1)*spacing) / float64(count)
	return math.Min(size, maxElementSize)
}

// treeLevel returns the depth of a level-order index (root is level 0)
func treeLevel(idx int) int {
	level := 0
	for idx >= (1<<(level+1))-1 {
		level++
	}
	return level
}

// treeNodeX positions a node horizontally by its level-order index. Each
// level divides the usable width into 2^level equal slots.
func treeNodeX(idx int, canvasWidth, elementSize float64) float64 {
	level := treeLevel(idx)
	relative := idx - ((1 << level) - 1)
	slot := (canvasWidth - 2*horizontalInset) / float64(int(1)<<level)
	return horizontalInset + slot*float64(relative) + slot/2 - elementSize/2
}

// quadraticBezier samples a quadratic curve from start through a control
// point to end
func quadraticBezier(x0, y0, cx, cy, x1, y1 float64, steps int) [][2]float64 {
	points := make([][2]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		mt := 1 - t
		x := mt*mt*x0 + 2*mt*t*cx + t*t*x1
		y := mt*mt*y0 + 2*mt*t*cy + t*t*y1
		points = append(points, [2]float64{x, y})
	}
	return points
}

// arrowHead returns the two base corners of an arrow head ending at (x, y)
// pointing along the given angle
func arrowHead(x, y, angle float64) (left, right [2]float64) {
	left = [2]float64{
		x - arrowHeadLength*math.Cos(angle+arrowHeadAngle),
		y - arrowHeadLength*math.Sin(angle+arrowHeadAngle),
	}
	right = [2]float64{
		x - arrowHeadLength*math.Cos(angle-arrowHeadAngle),
		y - arrowHeadLength*math.Sin(angle-arrowHeadAngle),
	}
	return left, right
}
