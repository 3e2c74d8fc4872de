package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"leetviz/internal/llm"
	"leetviz/internal/media"
	"leetviz/pkg/frame"
	"leetviz/pkg/types"
)

const analysisResponse = `DATA_STRUCTURE: array
INITIAL_DATA: [2, 7, 11]
DESCRIPTION: Two pointers close in from both ends.`

const framesResponse = `[
  {"structures": {"nums": {"type": "array", "elements": [2, 7, 11]}},
   "text": "Start scanning.", "duration": "2s"},
  {"structures": {"nums": {"type": "array", "elements": [2, 7, 11], "highlighted": [1]}},
   "text": "Found the pair."}
]`

// queueProvider hands out responses in call order
type queueProvider struct {
	responses []string
	failAfter int // fail on call number failAfter (1-based), 0 means never
	calls     int
}

func (q *queueProvider) Name() string    { return "queue" }
func (q *queueProvider) IsEnabled() bool { return true }

func (q *queueProvider) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	q.calls++
	if q.failAfter > 0 && q.calls >= q.failAfter {
		return "", fmt.Errorf("provider unavailable")
	}
	if len(q.responses) == 0 {
		return "", fmt.Errorf("no response queued")
	}
	resp := q.responses[0]
	q.responses = q.responses[1:]
	return resp, nil
}

// stubSynth writes fake MP3 bytes for every caption
type stubSynth struct {
	enabled bool
	fail    bool
	clips   int
}

func (s *stubSynth) Name() string    { return "stub" }
func (s *stubSynth) IsEnabled() bool { return s.enabled }

func (s *stubSynth) Synthesize(_ context.Context, text, path string) error {
	if s.fail {
		return fmt.Errorf("synthesis failed")
	}
	s.clips++
	return os.WriteFile(path, []byte("mp3:"+text), 0644)
}

// stubRenderer writes empty PNG placeholders
type stubRenderer struct{}

func (stubRenderer) RenderFrames(frames []frame.Frame, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	paths := make([]string, len(frames))
	for i := range frames {
		paths[i] = filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))
		if err := os.WriteFile(paths[i], []byte("png"), 0644); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// stubEncoder records encode calls and fabricates media files
type stubEncoder struct {
	clipDuration time.Duration
	slides       []media.Slide
	muxed        bool
	silences     int
}

func (s *stubEncoder) ProbeDuration(_ context.Context, _ string) (time.Duration, error) {
	return s.clipDuration, nil
}

func (s *stubEncoder) EncodeSlideshow(_ context.Context, slides []media.Slide, _ int, out string) error {
	s.slides = slides
	return os.WriteFile(out, []byte("mp4"), 0644)
}

func (s *stubEncoder) MuxAudio(_ context.Context, _, _, out string) error {
	s.muxed = true
	return os.WriteFile(out, []byte("mp4+audio"), 0644)
}

func (s *stubEncoder) Silence(_ context.Context, _ time.Duration, out string) error {
	s.silences++
	return os.WriteFile(out, []byte("silence"), 0644)
}

func newTestPipeline(t *testing.T, provider llm.Provider, synth *stubSynth, encoder *stubEncoder) (*Pipeline, types.PipelineInput) {
	t.Helper()
	dir := t.TempDir()
	input := types.PipelineInput{
		SolutionPath: "two_sum.py",
		SolutionCode: "def two_sum(nums): ...",
		OutputDir:    filepath.Join(dir, "out"),
		OutputName:   "two_sum",
		TempDir:      filepath.Join(dir, "tmp"),
	}
	if err := os.MkdirAll(input.TempDir, 0755); err != nil {
		t.Fatal(err)
	}
	p := NewPipeline(provider, synth, stubRenderer{}, encoder,
		types.VideoConfig{Width: 1080, Height: 1920, FPS: 30},
		3, filepath.Join(dir, "manifest.json"))
	return p, input
}

func TestExecuteFullPipeline(t *testing.T) {
	provider := &queueProvider{responses: []string{
		analysisResponse,
		"We walk the array with two pointers.",
		framesResponse,
	}}
	synth := &stubSynth{enabled: true}
	encoder := &stubEncoder{clipDuration: 4 * time.Second}

	p, input := newTestPipeline(t, provider, synth, encoder)
	result, err := p.Execute(context.Background(), input, "run01")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.DataStructure != frame.TypeArray {
		t.Errorf("DataStructure = %q", result.DataStructure)
	}
	if result.Walkthrough == "" {
		t.Error("walkthrough should be recorded")
	}
	if len(result.Frames) != 2 {
		t.Errorf("frame count = %d", len(result.Frames))
	}
	if synth.clips != 2 {
		t.Errorf("expected 2 narration clips, got %d", synth.clips)
	}
	if !encoder.muxed {
		t.Error("narrated run should mux audio")
	}
	if result.FinalOutputPath != filepath.Join(input.OutputDir, "two_sum.mp4") {
		t.Errorf("FinalOutputPath = %q", result.FinalOutputPath)
	}
	if _, err := os.Stat(result.FinalOutputPath); err != nil {
		t.Errorf("final video missing: %v", err)
	}

	// clip (4s) plus post pause outruns the 2s hold, so the slide stretches
	if len(encoder.slides) != 2 {
		t.Fatalf("slide count = %d", len(encoder.slides))
	}
	if encoder.slides[0].Duration <= 4*time.Second {
		t.Errorf("slide 0 duration = %v, should cover clip plus pause", encoder.slides[0].Duration)
	}
}

func TestExecuteSilentWhenTTSDisabled(t *testing.T) {
	provider := &queueProvider{responses: []string{
		analysisResponse,
		"Walkthrough text.",
		framesResponse,
	}}
	encoder := &stubEncoder{}

	p, input := newTestPipeline(t, provider, &stubSynth{enabled: false}, encoder)
	result, err := p.Execute(context.Background(), input, "run02")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if encoder.muxed {
		t.Error("silent run should not mux audio")
	}
	if result.AudioPath != "" {
		t.Errorf("AudioPath = %q, want empty", result.AudioPath)
	}
	if _, err := os.Stat(result.FinalOutputPath); err != nil {
		t.Errorf("final video missing: %v", err)
	}

	// without narration, slides hold for the frame duration
	if encoder.slides[0].Duration != 2*time.Second {
		t.Errorf("slide 0 duration = %v, want 2s", encoder.slides[0].Duration)
	}
	if encoder.slides[1].Duration != frame.DefaultDuration {
		t.Errorf("slide 1 duration = %v, want default", encoder.slides[1].Duration)
	}
}

func TestExecuteSilentWhenSynthesisFails(t *testing.T) {
	provider := &queueProvider{responses: []string{
		analysisResponse,
		"Walkthrough text.",
		framesResponse,
	}}
	encoder := &stubEncoder{}

	p, input := newTestPipeline(t, provider, &stubSynth{enabled: true, fail: true}, encoder)
	result, err := p.Execute(context.Background(), input, "run03")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if encoder.muxed {
		t.Error("failed narration should fall back to silent video")
	}
	if _, err := os.Stat(result.FinalOutputPath); err != nil {
		t.Errorf("final video missing: %v", err)
	}
}

func TestExecuteResumesCompletedStages(t *testing.T) {
	provider := &queueProvider{responses: []string{
		analysisResponse,
		"Walkthrough text.",
		framesResponse,
	}}
	encoder := &stubEncoder{}
	p, input := newTestPipeline(t, provider, &stubSynth{enabled: false}, encoder)

	if _, err := p.Execute(context.Background(), input, "run04"); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	firstCalls := provider.calls

	// second run resumes from the saved manifest without new LLM calls
	if _, err := p.Execute(context.Background(), input, "run04"); err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if provider.calls != firstCalls {
		t.Errorf("resume made %d extra provider calls", provider.calls-firstCalls)
	}
}

func TestExecuteRefusesForeignManifest(t *testing.T) {
	provider := &queueProvider{responses: []string{
		analysisResponse,
		"Walkthrough text.",
		framesResponse,
	}}
	p, input := newTestPipeline(t, provider, &stubSynth{enabled: false}, &stubEncoder{})

	if _, err := p.Execute(context.Background(), input, "run07"); err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	// a different run ID against the same manifest path must not silently
	// resume the previous run's input
	_, err := p.Execute(context.Background(), input, "other")
	if err == nil {
		t.Fatal("expected error for mismatched pipeline ID")
	}
	if !strings.Contains(err.Error(), "run07") || !strings.Contains(err.Error(), "other") {
		t.Errorf("error %q should name both run IDs", err.Error())
	}
}

func TestExecuteFailsStageAndRecordsError(t *testing.T) {
	provider := &queueProvider{responses: []string{analysisResponse}, failAfter: 2}
	p, input := newTestPipeline(t, provider, &stubSynth{}, &stubEncoder{})

	_, err := p.Execute(context.Background(), input, "run05")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), string(types.StageScript)) {
		t.Errorf("error %q should name the failing stage", err.Error())
	}

	// the manifest keeps the completed analyze stage and the failure
	m, loadErr := LoadManifest(p.manifestPath)
	if loadErr != nil || m == nil {
		t.Fatalf("LoadManifest: %v", loadErr)
	}
	if !m.IsStageCompleted(types.StageAnalyze) {
		t.Error("analyze stage should remain completed")
	}
	state := m.GetStageState(types.StageScript)
	if state.Status != types.StatusFailed || state.RetryCount != 1 {
		t.Errorf("script stage state = %+v", state)
	}
}

func TestExecuteStopsAfterMaxRetries(t *testing.T) {
	provider := &queueProvider{failAfter: 1}
	p, input := newTestPipeline(t, provider, &stubSynth{}, &stubEncoder{})
	p.maxRetries = 2

	for i := 0; i < 2; i++ {
		if _, err := p.Execute(context.Background(), input, "run06"); err == nil {
			t.Fatal("expected failure")
		}
	}

	_, err := p.Execute(context.Background(), input, "run06")
	if err == nil || !strings.Contains(err.Error(), "max retries") {
		t.Errorf("expected max retries error, got %v", err)
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		input   types.PipelineInput
		wantErr bool
	}{
		{"valid", types.PipelineInput{SolutionCode: "c", OutputDir: "o", OutputName: "n", TempDir: "t"}, false},
		{"missing code", types.PipelineInput{OutputDir: "o", OutputName: "n", TempDir: "t"}, true},
		{"missing output dir", types.PipelineInput{SolutionCode: "c", OutputName: "n", TempDir: "t"}, true},
		{"missing name", types.PipelineInput{SolutionCode: "c", OutputDir: "o", TempDir: "t"}, true},
		{"missing temp dir", types.PipelineInput{SolutionCode: "c", OutputDir: "o", OutputName: "n"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInput = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
