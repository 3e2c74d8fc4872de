package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"leetviz/pkg/frame"
)

// framesMaxTokens leaves room for long frame arrays, which routinely
// outgrow the default completion budget
const framesMaxTokens = 8192

// SolutionAnalysis is the model's structural read of a solution
type SolutionAnalysis struct {
	DataStructure frame.StructureType `json:"data_structure"` // array or linked_list
	InitialData   []int               `json:"initial_data"`   // example input values
	Description   string              `json:"description"`
}

// AnalyzeSolution asks the model what the solution operates on and how to
// demonstrate it, then parses the DATA_STRUCTURE / INITIAL_DATA /
// DESCRIPTION response lines.
func AnalyzeSolution(ctx context.Context, p Provider, solutionCode string) (*SolutionAnalysis, error) {
	out, err := p.Complete(ctx, CompletionRequest{
		System: analysisSystemPrompt,
		Prompt: analysisPrompt(solutionCode),
	})
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	return parseAnalysis(out)
}

// GenerateWalkthrough asks the model for the narrated step-by-step script
func GenerateWalkthrough(ctx context.Context, p Provider, solutionCode, description string) (string, error) {
	out, err := p.Complete(ctx, CompletionRequest{
		System: walkthroughSystemPrompt,
		Prompt: walkthroughPrompt(description, solutionCode),
	})
	if err != nil {
		return "", fmt.Errorf("walkthrough request failed: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("model returned an empty walkthrough")
	}
	return out, nil
}

// GenerateFrames converts the walkthrough script into visualization frames
func GenerateFrames(ctx context.Context, p Provider, walkthrough string, dsType frame.StructureType, solutionCode string) ([]frame.Frame, error) {
	out, err := p.Complete(ctx, CompletionRequest{
		System:    framesSystemPrompt,
		Prompt:    framesPrompt(walkthrough, string(dsType), solutionCode),
		MaxTokens: framesMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("frame generation request failed: %w", err)
	}

	frames, err := frame.ParseScript(out)
	if err != nil {
		return nil, err
	}
	log.Printf("[LLM] Parsed %d frames from model output", len(frames))
	return frames, nil
}

func parseAnalysis(response string) (*SolutionAnalysis, error) {
	analysis := &SolutionAnalysis{}

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "DATA_STRUCTURE:"):
			value := strings.TrimSpace(strings.TrimPrefix(line, "DATA_STRUCTURE:"))
			switch value {
			case "array":
				analysis.DataStructure = frame.TypeArray
			case "linked_list", "linked list":
				analysis.DataStructure = frame.TypeLinkedList
			default:
				return nil, fmt.Errorf("unexpected data structure %q", value)
			}
		case strings.HasPrefix(line, "INITIAL_DATA:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "INITIAL_DATA:"))
			analysis.InitialData = parseInitialData(raw)
		case strings.HasPrefix(line, "DESCRIPTION:"):
			analysis.Description = strings.TrimSpace(strings.TrimPrefix(line, "DESCRIPTION:"))
		}
	}

	if analysis.DataStructure == "" {
		return nil, fmt.Errorf("response missing DATA_STRUCTURE line")
	}
	if analysis.Description == "" {
		return nil, fmt.Errorf("response missing DESCRIPTION line")
	}
	return analysis, nil
}

var nodeValuePattern = regexp.MustCompile(`Node\(\s*(-?\d+)\s*\)`)

// parseInitialData reads either a bracketed array literal or a
// Node(1)->Node(2) chain. Unparseable input degrades to nil, matching the
// original behavior of falling back to an empty example.
func parseInitialData(raw string) []int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var values []int
		if err := json.Unmarshal([]byte(raw), &values); err == nil {
			return values
		}
		// tolerate loose formatting like [1,2,3,]
		inner := strings.Trim(raw, "[]")
		var out []int
		for _, part := range strings.Split(inner, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil
			}
			out = append(out, n)
		}
		return out
	}

	if strings.Contains(raw, "Node(") {
		matches := nodeValuePattern.FindAllStringSubmatch(raw, -1)
		values := make([]int, 0, len(matches))
		for _, m := range matches {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return nil
			}
			values = append(values, n)
		}
		return values
	}

	return nil
}
