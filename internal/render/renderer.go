package render

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"leetviz/pkg/frame"
	"leetviz/pkg/types"
)

// Renderer draws visualization frames onto PNG images sized for vertical
// short-form video
type Renderer struct {
	width    int
	height   int
	fontSize float64
	face     font.Face
}

// NewRenderer creates a renderer for the given video dimensions
func NewRenderer(config types.VideoConfig) (*Renderer, error) {
	width := config.Width
	if width <= 0 {
		width = 1080
	}
	height := config.Height
	if height <= 0 {
		height = 1920
	}

	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	fontSize := float64(height) / 35
	return &Renderer{
		width:    width,
		height:   height,
		fontSize: fontSize,
		face:     truetype.NewFace(ttf, &truetype.Options{Size: fontSize}),
	}, nil
}

// RenderFrames draws each frame to <dir>/frame_NNNN.png and returns the
// written paths in frame order
func (r *Renderer) RenderFrames(frames []frame.Frame, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create frame directory: %w", err)
	}

	paths := make([]string, 0, len(frames))
	for i, f := range frames {
		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))
		if err := r.RenderFrame(f, path); err != nil {
			return nil, fmt.Errorf("failed to render frame %d: %w", i, err)
		}
		paths = append(paths, path)
	}
	log.Printf("[Render] Wrote %d frames to %s", len(paths), dir)
	return paths, nil
}

// RenderFrame draws a single frame and saves it as a PNG
func (r *Renderer) RenderFrame(f frame.Frame, outputPath string) error {
	dc := gg.NewContext(r.width, r.height)
	dc.SetRGB255(255, 255, 255)
	dc.Clear()
	dc.SetFontFace(r.face)

	baseY := float64(r.height) / 4
	if len(f.Variables) > 0 {
		r.drawVariables(dc, f.Variables, float64(r.height)/8)
		baseY += float64(len(f.Variables)) * (r.fontSize + 5)
	}

	names := make([]string, 0, len(f.Structures))
	for name := range f.Structures {
		names = append(names, name)
	}
	sort.Strings(names)

	verticalSpacing := float64(r.height) / 8
	for _, name := range names {
		r.drawStructure(dc, f.Structures[name], baseY)
		baseY += verticalSpacing
	}

	if f.Text != "" {
		r.drawCaption(dc, f.Text)
	}

	return dc.SavePNG(outputPath)
}

func (r *Renderer) drawStructure(dc *gg.Context, ds frame.DataStructure, baseY float64) {
	if len(ds.Elements) == 0 {
		dc.SetRGB255(0, 0, 0)
		label := "Empty " + capitalize(string(ds.Type))
		dc.DrawStringAnchored(label, float64(r.width)/2, baseY, 0.5, 0.5)
		return
	}

	if ds.Type == frame.TypeTree {
		r.drawTree(dc, ds)
		return
	}

	spacing := structureSpacing(ds.Type)
	count := len(ds.Elements)
	available := float64(r.width) - 2*horizontalInset
	size := fitElementSize(count, available, spacing)
	totalWidth := float64(count)*size + float64(count-1)*spacing

	startX := (float64(r.width) - totalWidth) / 2
	y := baseY
	if len(ds.Position) == 2 {
		startX = float64(ds.Position[0])
		y = float64(ds.Position[1])
	}

	braced := ds.Type == frame.TypeDict || ds.Type == frame.TypeSet
	if braced {
		startX = math.Max(startX, float64(r.width)/10)
		dc.SetRGB255(0, 0, 0)
		dc.DrawString("{ ", startX, y+size/2)
		bw, _ := dc.MeasureString("{ ")
		startX += bw + 20
	}

	rects := make([]rect, count)
	for i, value := range ds.Elements {
		x := startX + float64(i)*(size+spacing)
		rects[i] = r.drawElement(dc, ds, value, x, y, size, contains(ds.Highlighted, i))

		if braced && i < count-1 {
			dc.SetRGB255(0, 0, 0)
			dc.DrawString(", ", rects[i].Right()+5, y+size/2)
		}
		if labels, ok := ds.Labels[i]; ok {
			r.drawLabels(dc, rects[i], labels)
		}
		if pointers, ok := ds.Pointers[i]; ok {
			r.drawPointers(dc, rects[i], pointers)
		}
	}

	if braced {
		dc.SetRGB255(0, 0, 0)
		dc.DrawString(" }", rects[count-1].Right()+spacing, y+size/2)
	}

	if ds.Type == frame.TypeLinkedList {
		for i := 0; i < count-1; i++ {
			r.drawStraightArrow(dc,
				rects[i].Right(), rects[i].CenterY(),
				rects[i+1].X, rects[i+1].CenterY())
		}
	} else {
		for _, pair := range ds.Arrows {
			from, to := pair[0], pair[1]
			if from >= 0 && from < count && to >= 0 && to < count {
				r.drawCurvedArrow(dc, rects[from], rects[to], size)
			}
		}
	}

	for _, idx := range ds.SelfArrows {
		if idx >= 0 && idx < count {
			r.drawStraightArrow(dc,
				rects[idx].CenterX(), rects[idx].Y-30,
				rects[idx].CenterX(), rects[idx].Y)
		}
	}
}

// drawTree lays out a level-order tree (children of index i at 2i+1 and
// 2i+2, nil entries mark absent nodes)
func (r *Renderer) drawTree(dc *gg.Context, ds frame.DataStructure) {
	count := len(ds.Elements)
	maxLevel := treeLevel(count - 1)

	widest := 1 << maxLevel
	available := float64(r.width) - 2*horizontalInset
	size := fitElementSize(widest, available, 20)

	y := float64(r.height) / 6
	levelHeight := float64(r.height) / 8 * 0.8

	rects := make(map[int]rect, count)
	for idx, value := range ds.Elements {
		if value == nil {
			continue
		}
		level := treeLevel(idx)
		x := treeNodeX(idx, float64(r.width), size)
		nodeY := y + float64(level)*levelHeight
		rects[idx] = r.drawElement(dc, ds, value, x, nodeY, size, contains(ds.Highlighted, idx))
	}

	// parent edges after all nodes so both endpoints exist
	dc.SetRGB255(0, 100, 200)
	dc.SetLineWidth(2)
	for idx := range rects {
		if idx == 0 {
			continue
		}
		parent := (idx - 1) / 2
		p, ok := rects[parent]
		if !ok {
			continue
		}
		c := rects[idx]
		dc.DrawLine(p.CenterX(), p.Bottom(), c.CenterX(), c.Y)
		dc.Stroke()
	}

	for idx, rc := range rects {
		if labels, ok := ds.Labels[idx]; ok {
			r.drawLabels(dc, rc, labels)
		}
		if pointers, ok := ds.Pointers[idx]; ok {
			r.drawPointers(dc, rc, pointers)
		}
	}

	for _, pair := range ds.Arrows {
		from, ok1 := rects[pair[0]]
		to, ok2 := rects[pair[1]]
		if ok1 && ok2 {
			r.drawCurvedArrow(dc, from, to, size)
		}
	}
	for _, idx := range ds.SelfArrows {
		if rc, ok := rects[idx]; ok {
			r.drawStraightArrow(dc, rc.CenterX(), rc.Y-30, rc.CenterX(), rc.Y)
		}
	}
}

// drawElement draws one element and returns its bounding rect. Arrays,
// lists, and trees get boxes; dict pairs and set members render as text.
func (r *Renderer) drawElement(dc *gg.Context, ds frame.DataStructure, value any, x, y, size float64, highlighted bool) rect {
	switch ds.Type {
	case frame.TypeDict:
		text := formatPair(value)
		w, h := dc.MeasureString(text)
		rc := rect{X: x, Y: y, W: w + 20, H: h + 10}
		if highlighted {
			dc.SetRGB255(255, 200, 200)
			dc.DrawRoundedRectangle(rc.X, rc.Y, rc.W, rc.H, 5)
			dc.Fill()
		}
		dc.SetRGB255(0, 0, 0)
		dc.DrawString(text, x+10, y+h+5)
		return rc

	case frame.TypeSet:
		text := frame.FormatValue(value)
		w, h := dc.MeasureString(text)
		rc := rect{X: x, Y: y, W: w + 20, H: h + 10}
		if highlighted {
			dc.SetRGB255(255, 200, 200)
			dc.DrawRoundedRectangle(rc.X, rc.Y, rc.W, rc.H, 5)
			dc.Fill()
		}
		dc.SetRGB255(0, 0, 0)
		dc.DrawString(text, x+10, y+h+5)
		return rc

	default:
		rc := rect{X: x, Y: y, W: size, H: size}
		if highlighted {
			dc.SetRGB255(255, 200, 200)
		} else {
			dc.SetRGB255(255, 255, 255)
		}
		dc.DrawRoundedRectangle(rc.X, rc.Y, rc.W, rc.H, 10)
		dc.FillPreserve()
		dc.SetRGB255(0, 0, 0)
		dc.SetLineWidth(2)
		dc.Stroke()
		dc.DrawStringAnchored(frame.FormatValue(value), rc.CenterX(), rc.CenterY(), 0.5, 0.5)
		return rc
	}
}

func (r *Renderer) drawLabels(dc *gg.Context, rc rect, labels []string) {
	dc.SetRGB255(100, 100, 100)
	dc.DrawStringAnchored(strings.Join(labels, " "), rc.CenterX(), rc.Bottom()+5+r.fontSize/2, 0.5, 0.5)
}

func (r *Renderer) drawPointers(dc *gg.Context, rc rect, pointers []string) {
	unique := dedupe(pointers)
	if len(unique) == 0 {
		return
	}

	lineHeight := r.fontSize
	totalHeight := float64(len(unique))*lineHeight + float64(len(unique)-1)*10
	y := rc.Y - 40 - totalHeight

	dc.SetRGB255(50, 50, 200)
	for _, p := range unique {
		dc.DrawStringAnchored(p, rc.CenterX(), y+lineHeight/2, 0.5, 0.5)
		y += lineHeight + 10
	}
	r.drawStraightArrow(dc, rc.CenterX(), rc.Y-30, rc.CenterX(), rc.Y)
}

func (r *Renderer) drawStraightArrow(dc *gg.Context, x0, y0, x1, y1 float64) {
	dc.SetRGB255(0, 100, 200)
	dc.SetLineWidth(2)
	dc.DrawLine(x0, y0, x1, y1)
	dc.Stroke()

	angle := math.Atan2(y1-y0, x1-x0)
	left, right := arrowHead(x1, y1, angle)
	dc.MoveTo(x1, y1)
	dc.LineTo(left[0], left[1])
	dc.LineTo(right[0], right[1])
	dc.ClosePath()
	dc.Fill()
}

// drawCurvedArrow arcs over the elements between two boxes
func (r *Renderer) drawCurvedArrow(dc *gg.Context, from, to rect, elementSize float64) {
	x0, y0 := from.CenterX(), from.CenterY()-elementSize/2
	x1, y1 := to.CenterX(), to.CenterY()-elementSize/2
	cx := (x0 + x1) / 2
	cy := math.Min(y0, y1) - 100

	points := quadraticBezier(x0, y0, cx, cy, x1, y1, 30)

	dc.SetRGB255(0, 100, 200)
	dc.SetLineWidth(2)
	dc.MoveTo(points[0][0], points[0][1])
	for _, p := range points[1:] {
		dc.LineTo(p[0], p[1])
	}
	dc.Stroke()

	last := points[len(points)-1]
	prev := points[len(points)-2]
	angle := math.Atan2(last[1]-prev[1], last[0]-prev[0])
	left, right := arrowHead(last[0], last[1], angle)
	dc.MoveTo(last[0], last[1])
	dc.LineTo(left[0], left[1])
	dc.LineTo(right[0], right[1])
	dc.ClosePath()
	dc.Fill()
}

func (r *Renderer) drawVariables(dc *gg.Context, variables map[string]any, y float64) {
	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}
	sort.Strings(names)

	x := float64(r.width) / 20
	dc.SetRGB255(0, 0, 0)
	for _, name := range names {
		dc.DrawString(fmt.Sprintf("%s = %s", name, frame.FormatValue(variables[name])), x, y)
		y += r.fontSize + 5
	}
}

// drawCaption renders the narration text word-wrapped in the lower panel
func (r *Renderer) drawCaption(dc *gg.Context, text string) {
	y := float64(r.height) * 0.65
	dc.SetRGB255(0, 0, 0)
	dc.DrawStringWrapped(text,
		horizontalInset+20, y,
		0, 0,
		float64(r.width)-2*horizontalInset-40,
		1.5,
		gg.AlignLeft)
}

// formatPair renders a two-element [key, value] entry as "key: value"
func formatPair(value any) string {
	if pair, ok := value.([]any); ok && len(pair) == 2 {
		return frame.FormatValue(pair[0]) + ": " + frame.FormatValue(pair[1])
	}
	return frame.FormatValue(value)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func contains(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
