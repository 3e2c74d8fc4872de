package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"leetviz/internal/llm"
	"leetviz/internal/media"
	"leetviz/internal/tts"
	"leetviz/pkg/frame"
	"leetviz/pkg/types"
)

// Renderer draws visualization frames to image files
type Renderer interface {
	RenderFrames(frames []frame.Frame, dir string) ([]string, error)
}

// Encoder covers the ffmpeg operations the pipeline needs
type Encoder interface {
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
	EncodeSlideshow(ctx context.Context, slides []media.Slide, fps int, outputPath string) error
	MuxAudio(ctx context.Context, videoPath, audioPath, outputPath string) error
	Silence(ctx context.Context, duration time.Duration, outputPath string) error
}

// Pipeline orchestrates the execution of all stages
type Pipeline struct {
	provider     llm.Provider
	synthesizer  tts.Synthesizer
	renderer     Renderer
	encoder      Encoder
	video        types.VideoConfig
	maxRetries   int
	manifestPath string
}

// NewPipeline creates a new pipeline executor
func NewPipeline(
	provider llm.Provider,
	synthesizer tts.Synthesizer,
	renderer Renderer,
	encoder Encoder,
	video types.VideoConfig,
	maxRetries int,
	manifestPath string,
) *Pipeline {
	return &Pipeline{
		provider:     provider,
		synthesizer:  synthesizer,
		renderer:     renderer,
		encoder:      encoder,
		video:        video,
		maxRetries:   maxRetries,
		manifestPath: manifestPath,
	}
}

// Execute runs the pipeline with idempotent stage execution
func (p *Pipeline) Execute(ctx context.Context, input types.PipelineInput, pipelineID string) (*PipelineResult, error) {
	// Load or create manifest
	manifest, err := LoadManifest(p.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	if manifest == nil {
		manifest = NewManifest(pipelineID, input)
		log.Printf("Created new pipeline manifest: %s", pipelineID)
	} else {
		// resuming a different run's manifest would silently reuse its
		// input instead of the one just given
		if manifest.PipelineID != pipelineID {
			return nil, fmt.Errorf("manifest at %s belongs to run %q, not %q: pass that ID to resume it or use another manifest path",
				p.manifestPath, manifest.PipelineID, pipelineID)
		}
		log.Printf("Resuming pipeline: %s from stage %s", manifest.PipelineID, manifest.CurrentStage)
	}

	stages := GetStageOrder()
	log.Printf("[Pipeline] Executing %d stages: %v", len(stages), stages)

	// Execute stages sequentially
	for _, stage := range stages {
		// Check if stage already completed (idempotency)
		if manifest.IsStageCompleted(stage) || manifest.IsStageSkipped(stage) {
			log.Printf("Stage %s already done, skipping", stage)
			continue
		}

		// Check if we can retry this stage
		if !manifest.CanRetryStage(stage, p.maxRetries) {
			return nil, fmt.Errorf("stage %s exceeded max retries (%d)", stage, p.maxRetries)
		}

		if err := p.executeStage(ctx, stage, manifest); err != nil {
			// Save failed state
			manifest.FailStage(stage, err)
			if saveErr := manifest.Save(p.manifestPath); saveErr != nil {
				log.Printf("Warning: failed to save manifest after error: %v", saveErr)
			}
			return nil, fmt.Errorf("stage %s failed: %w", stage, err)
		}

		// Save progress after each stage
		if err := manifest.Save(p.manifestPath); err != nil {
			return nil, fmt.Errorf("failed to save manifest: %w", err)
		}

		log.Printf("Stage %s completed", stage)
	}

	// Mark pipeline as complete
	manifest.CurrentStage = types.StageComplete
	if err := manifest.Save(p.manifestPath); err != nil {
		return nil, fmt.Errorf("failed to save final manifest: %w", err)
	}

	log.Printf("Pipeline %s completed successfully", pipelineID)
	return manifest.Result, nil
}

// executeStage runs a single stage after marking it as running
func (p *Pipeline) executeStage(ctx context.Context, stage types.PipelineStage, manifest *Manifest) error {
	stepFunc, err := GetStepForStage(stage)
	if err != nil {
		return err
	}

	manifest.StartStage(stage)
	log.Printf("Starting stage: %s", stage)

	return stepFunc(ctx, p, manifest)
}

// GetStageOrder returns the ordered list of pipeline stages
func GetStageOrder() []types.PipelineStage {
	return []types.PipelineStage{
		types.StageAnalyze,
		types.StageScript,
		types.StageFrames,
		types.StageNarrate,
		types.StageRender,
		types.StageCompose,
	}
}

// ValidateInput checks if the pipeline input is valid
func ValidateInput(input types.PipelineInput) error {
	if input.SolutionCode == "" {
		return fmt.Errorf("solution code is required")
	}
	if input.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if input.OutputName == "" {
		return fmt.Errorf("output name is required")
	}
	if input.TempDir == "" {
		return fmt.Errorf("temp directory is required")
	}
	return nil
}
