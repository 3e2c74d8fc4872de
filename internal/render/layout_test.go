package render

import (
	"math"
	"testing"

	"leetviz/pkg/frame"
)

func TestStructureSpacing(t *testing.T) {
	tests := []struct {
		structType frame.StructureType
		want       float64
	}{
		{frame.TypeArray, 15},
		{frame.TypeLinkedList, 40},
		{frame.TypeDict, 25},
		{frame.TypeSet, 25},
		{frame.TypeTree, 15},
	}

	for _, tt := range tests {
		if got := structureSpacing(tt.structType); got != tt.want {
			t.Errorf("structureSpacing(%q) = %v, want %v", tt.structType, got, tt.want)
		}
	}
}

func TestFitElementSize(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		available float64
		spacing   float64
		want      float64
	}{
		{"few elements capped at max", 3, 960, 15, maxElementSize},
		{"many elements shrink", 20, 960, 15, (960 - 19*15.0) / 20},
		{"zero count", 0, 960, 15, maxElementSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fitElementSize(tt.count, tt.available, tt.spacing)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("fitElementSize = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTreeLevel(t *testing.T) {
	tests := []struct {
		idx  int
		want int
	}{
		{0, 0},
		{1, 1}, {2, 1},
		{3, 2}, {6, 2},
		{7, 3}, {14, 3},
	}

	for _, tt := range tests {
		if got := treeLevel(tt.idx); got != tt.want {
			t.Errorf("treeLevel(%d) = %d, want %d", tt.idx, got, tt.want)
		}
	}
}

func TestTreeNodeXRootCentered(t *testing.T) {
	size := 60.0
	width := 1080.0
	x := treeNodeX(0, width, size)
	wantCenter := width / 2
	if got := x + size/2; math.Abs(got-wantCenter) > 1e-9 {
		t.Errorf("root center = %v, want %v", got, wantCenter)
	}
}

func TestTreeNodeXSiblingsOrdered(t *testing.T) {
	size := 60.0
	left := treeNodeX(1, 1080, size)
	right := treeNodeX(2, 1080, size)
	if left >= right {
		t.Errorf("left child at %v should be left of right child at %v", left, right)
	}
}

func TestQuadraticBezier(t *testing.T) {
	points := quadraticBezier(0, 100, 50, 0, 100, 100, 30)
	if len(points) != 31 {
		t.Fatalf("expected 31 points, got %d", len(points))
	}
	if points[0] != [2]float64{0, 100} {
		t.Errorf("start = %v", points[0])
	}
	if points[30] != [2]float64{100, 100} {
		t.Errorf("end = %v", points[30])
	}
	// apex of the curve sits above both endpoints
	mid := points[15]
	if mid[1] >= 100 {
		t.Errorf("midpoint y = %v, should arc above endpoints", mid[1])
	}
}

func TestArrowHead(t *testing.T) {
	// arrow pointing right: both head corners sit left of the tip
	left, right := arrowHead(100, 50, 0)
	if left[0] >= 100 || right[0] >= 100 {
		t.Errorf("head corners %v %v should trail the tip", left, right)
	}
	if left[1] <= 50 == (right[1] <= 50) {
		t.Errorf("head corners %v %v should straddle the shaft", left, right)
	}
}

func TestRectHelpers(t *testing.T) {
	r := rect{X: 10, Y: 20, W: 30, H: 40}
	if r.Right() != 40 || r.Bottom() != 60 {
		t.Errorf("Right/Bottom = %v/%v", r.Right(), r.Bottom())
	}
	if r.CenterX() != 25 || r.CenterY() != 40 {
		t.Errorf("CenterX/CenterY = %v/%v", r.CenterX(), r.CenterY())
	}
}
