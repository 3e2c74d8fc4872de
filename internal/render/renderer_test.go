package render

import (
	"os"
	"path/filepath"
	"testing"

	"leetviz/pkg/frame"
	"leetviz/pkg/types"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	// small canvas keeps the test fast
	r, err := NewRenderer(types.VideoConfig{Width: 270, Height: 480})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestRenderFrameTypes(t *testing.T) {
	tests := []struct {
		name  string
		frame frame.Frame
	}{
		{
			name: "array with highlight and arrow",
			frame: frame.Frame{
				Structures: map[string]frame.DataStructure{
					"nums": {
						Type:        frame.TypeArray,
						Elements:    []any{2.0, 7.0, 11.0, 15.0},
						Highlighted: []int{0, 3},
						Arrows:      [][2]int{{0, 3}},
						Pointers:    map[int][]string{0: {"left"}, 3: {"right"}},
						Labels:      map[int][]string{1: {"mid"}},
					},
				},
				Variables: map[string]any{"target": 9.0},
				Text:      "Two pointers close in on the target sum from both ends of the array.",
			},
		},
		{
			name: "linked list with cycle marker",
			frame: frame.Frame{
				Structures: map[string]frame.DataStructure{
					"head": {
						Type:       frame.TypeLinkedList,
						Elements:   []any{1.0, 2.0, 3.0},
						SelfArrows: []int{2},
					},
				},
				Text: "The tail points back into the list.",
			},
		},
		{
			name: "tree with missing children",
			frame: frame.Frame{
				Structures: map[string]frame.DataStructure{
					"root": {
						Type:        frame.TypeTree,
						Elements:    []any{5.0, 3.0, 8.0, nil, 4.0},
						Highlighted: []int{2},
					},
				},
			},
		},
		{
			name: "dict and set together",
			frame: frame.Frame{
				Structures: map[string]frame.DataStructure{
					"seen": {
						Type:     frame.TypeDict,
						Elements: []any{[]any{2.0, 0.0}, []any{7.0, 1.0}},
					},
					"visited": {
						Type:     frame.TypeSet,
						Elements: []any{2.0, 7.0},
					},
				},
			},
		},
		{
			name: "empty structure",
			frame: frame.Frame{
				Structures: map[string]frame.DataStructure{
					"stack": {Type: frame.TypeArray, Elements: []any{}},
				},
			},
		},
	}

	r := newTestRenderer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "frame.png")
			if err := r.RenderFrame(tt.frame, path); err != nil {
				t.Fatalf("RenderFrame: %v", err)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat output: %v", err)
			}
			if info.Size() == 0 {
				t.Error("rendered PNG is empty")
			}
		})
	}
}

func TestRenderFrames(t *testing.T) {
	r := newTestRenderer(t)
	frames := []frame.Frame{
		frame.FromArray([]any{1.0, 2.0}),
		{Structures: map[string]frame.DataStructure{
			"nums": {Type: frame.TypeArray, Elements: []any{1.0, 2.0}, Highlighted: []int{1}},
		}},
	}

	dir := filepath.Join(t.TempDir(), "frames")
	paths, err := r.RenderFrames(frames, dir)
	if err != nil {
		t.Fatalf("RenderFrames: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(paths))
	}
	want := filepath.Join(dir, "frame_0000.png")
	if paths[0] != want {
		t.Errorf("paths[0] = %q, want %q", paths[0], want)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing rendered frame %s: %v", p, err)
		}
	}
}

func TestFormatPair(t *testing.T) {
	got := formatPair([]any{2.0, 0.0})
	if got != "2: 0" {
		t.Errorf("formatPair = %q, want %q", got, "2: 0")
	}
	// non-pair values fall through to plain formatting
	if got := formatPair(3.0); got != "3" {
		t.Errorf("formatPair(3.0) = %q", got)
	}
}
