package frame

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StructureType identifies how a data structure is drawn
type StructureType string

const (
	TypeArray      StructureType = "array"
	TypeLinkedList StructureType = "linked_list"
	TypeTree       StructureType = "tree"
	TypeDict       StructureType = "dict"
	TypeSet        StructureType = "set"
)

// Default hold times applied when a frame omits them
const (
	DefaultDuration     = 3 * time.Second
	DefaultPreDuration  = 1 * time.Second
	DefaultPostDuration = 2 * time.Second
)

// DataStructure represents a single data structure in a frame.
//
// Elements are the values to draw. For trees, elements are the level-order
// traversal of the tree with nulls marking absent children, so the children
// of index i sit at 2i+1 and 2i+2. For dicts, each element is a two-item
// [key, value] array.
type DataStructure struct {
	Type        StructureType    `json:"type"`
	Elements    []any            `json:"elements"`
	Position    []int            `json:"position,omitempty"` // optional [x, y] override
	Highlighted []int            `json:"highlighted,omitempty"`
	Arrows      [][2]int         `json:"arrows,omitempty"`      // curved arrows between elements
	SelfArrows  []int            `json:"self_arrows,omitempty"` // straight arrows into an element
	Labels      map[int][]string `json:"labels,omitempty"`      // drawn below cells
	Pointers    map[int][]string `json:"pointers,omitempty"`    // drawn above cells with arrows
}

// Frame represents a single logical frame of the animation
type Frame struct {
	Structures map[string]DataStructure `json:"structures"`
	Variables  map[string]any           `json:"variables,omitempty"` // algorithm state like res=[], queue=[]
	Duration   string                   `json:"duration,omitempty"`  // e.g. "3s"
	Line       int                      `json:"line,omitempty"`      // solution line this step corresponds to
	Text       string                   `json:"text,omitempty"`      // caption / narration text
	Pre        string                   `json:"pre_duration,omitempty"`
	Post       string                   `json:"post_duration,omitempty"`
}

// FromArray builds a single-structure frame around an array
func FromArray(elements []any) Frame {
	return Frame{
		Structures: map[string]DataStructure{
			"main": {Type: TypeArray, Elements: elements},
		},
	}
}

// Hold returns the declared display duration, falling back to the default
func (f Frame) Hold() time.Duration {
	return parseHold(f.Duration, DefaultDuration)
}

// PostHold returns the trailing pause after the frame's narration
func (f Frame) PostHold() time.Duration {
	return parseHold(f.Post, DefaultPostDuration)
}

// PreHold returns the leading pause before the frame's narration
func (f Frame) PreHold() time.Duration {
	return parseHold(f.Pre, DefaultPreDuration)
}

// parseHold reads durations like "3s" or "1.5s"; bare numbers mean seconds
func parseHold(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "s"))
	if s == "" {
		return def
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs <= 0 {
		return def
	}
	return time.Duration(secs * float64(time.Second))
}

// Validate checks that every structure is drawable
func (f Frame) Validate() error {
	if len(f.Structures) == 0 {
		return fmt.Errorf("frame has no structures")
	}
	for name, ds := range f.Structures {
		if err := ds.Validate(); err != nil {
			return fmt.Errorf("structure %q: %w", name, err)
		}
	}
	return nil
}

// Validate checks the structure type and that all indices are in range
func (ds DataStructure) Validate() error {
	switch ds.Type {
	case TypeArray, TypeLinkedList, TypeTree, TypeDict, TypeSet:
	default:
		return fmt.Errorf("unknown structure type %q", ds.Type)
	}
	n := len(ds.Elements)
	for _, i := range ds.Highlighted {
		if i < 0 || i >= n {
			return fmt.Errorf("highlighted index %d out of range [0,%d)", i, n)
		}
	}
	for _, a := range ds.Arrows {
		if a[0] < 0 || a[0] >= n || a[1] < 0 || a[1] >= n {
			return fmt.Errorf("arrow (%d,%d) out of range [0,%d)", a[0], a[1], n)
		}
	}
	for _, i := range ds.SelfArrows {
		if i < 0 || i >= n {
			return fmt.Errorf("self arrow index %d out of range [0,%d)", i, n)
		}
	}
	for i := range ds.Labels {
		if i < 0 || i >= n {
			return fmt.Errorf("label index %d out of range [0,%d)", i, n)
		}
	}
	for i := range ds.Pointers {
		if i < 0 || i >= n {
			return fmt.Errorf("pointer index %d out of range [0,%d)", i, n)
		}
	}
	return nil
}

// ParseScript extracts the frame array from raw model output. Models wrap
// the JSON in prose or code fences more often than not, so everything
// outside the outermost [ ... ] pair is discarded before decoding.
func ParseScript(raw string) ([]Frame, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in model output")
	}

	var frames []Frame
	if err := json.Unmarshal([]byte(raw[start:end+1]), &frames); err != nil {
		return nil, fmt.Errorf("failed to decode frames: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("model returned an empty frame list")
	}

	for i, f := range frames {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return frames, nil
}

// FormatValue renders an element or variable value the way the captions
// show it. JSON numbers decode as float64, so integral values are printed
// without a fractional part.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case json.Number:
		return val.String()
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = FormatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		parts := make([]string, 0, len(val))
		for k, item := range val {
			parts = append(parts, k+": "+FormatValue(item))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", val)
	}
}
