package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"leetviz/internal/llm"
	"leetviz/internal/media"
	"leetviz/pkg/types"
)

// StepFunc represents a pipeline step function
type StepFunc func(ctx context.Context, p *Pipeline, manifest *Manifest) error

// minSilencePad is the shortest silence gap worth generating a clip for
const minSilencePad = 50 * time.Millisecond

// ExecuteAnalyze - Ask the model what data structure the solution works on
func ExecuteAnalyze(ctx context.Context, p *Pipeline, manifest *Manifest) error {
	analysis, err := llm.AnalyzeSolution(ctx, p.provider, manifest.Input.SolutionCode)
	if err != nil {
		return err
	}

	log.Printf("[Pipeline] Solution uses %s: %s", analysis.DataStructure, analysis.Description)

	if err := manifest.CompleteStage(types.StageAnalyze, analysis); err != nil {
		return err
	}

	manifest.Result.DataStructure = analysis.DataStructure
	manifest.Result.Description = analysis.Description
	return nil
}

// ExecuteScript - Generate the narrated walkthrough of the algorithm
func ExecuteScript(ctx context.Context, p *Pipeline, manifest *Manifest) error {
	walkthrough, err := llm.GenerateWalkthrough(ctx, p.provider,
		manifest.Input.SolutionCode, manifest.Result.Description)
	if err != nil {
		return err
	}

	if err := manifest.CompleteStage(types.StageScript, map[string]string{
		"walkthrough": walkthrough,
	}); err != nil {
		return err
	}

	manifest.Result.Walkthrough = walkthrough
	return nil
}

// ExecuteFrames - Convert the walkthrough into visualization frames
func ExecuteFrames(ctx context.Context, p *Pipeline, manifest *Manifest) error {
	frames, err := llm.GenerateFrames(ctx, p.provider,
		manifest.Result.Walkthrough, manifest.Result.DataStructure,
		manifest.Input.SolutionCode)
	if err != nil {
		return err
	}

	if err := manifest.CompleteStage(types.StageFrames, map[string]int{
		"frame_count": len(frames),
	}); err != nil {
		return err
	}

	manifest.Result.Frames = frames
	return nil
}

// ExecuteNarrate - Synthesize one audio clip per frame caption. A disabled
// or failing synthesizer skips the stage so the video stays silent.
func ExecuteNarrate(ctx context.Context, p *Pipeline, manifest *Manifest) error {
	if p.synthesizer == nil || !p.synthesizer.IsEnabled() {
		log.Println("[Pipeline] TTS not configured, producing a silent video")
		manifest.SkipStage(types.StageNarrate)
		return nil
	}

	audioDir := filepath.Join(manifest.Input.TempDir, "audio")
	if err := os.MkdirAll(audioDir, 0755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}

	// clips align one-to-one with frames, empty entry means no caption
	clips := make([]string, len(manifest.Result.Frames))
	synthesized := 0
	for i, f := range manifest.Result.Frames {
		if f.Text == "" {
			continue
		}
		clipPath := filepath.Join(audioDir, fmt.Sprintf("clip_%04d.mp3", i))
		if err := p.synthesizer.Synthesize(ctx, f.Text, clipPath); err != nil {
			log.Printf("[Pipeline] Narration failed: %v, falling back to silent video", err)
			manifest.SkipStage(types.StageNarrate)
			return nil
		}
		clips[i] = clipPath
		synthesized++
	}

	if err := manifest.CompleteStage(types.StageNarrate, map[string]int{
		"clip_count": synthesized,
	}); err != nil {
		return err
	}

	manifest.Result.AudioClipPaths = clips
	return nil
}

// ExecuteRender - Draw every frame to a PNG
func ExecuteRender(ctx context.Context, p *Pipeline, manifest *Manifest) error {
	frameDir := filepath.Join(manifest.Input.TempDir, "frames")
	paths, err := p.renderer.RenderFrames(manifest.Result.Frames, frameDir)
	if err != nil {
		return err
	}

	if err := manifest.CompleteStage(types.StageRender, map[string]int{
		"frame_count": len(paths),
	}); err != nil {
		return err
	}

	manifest.Result.FramePaths = paths
	return nil
}

// ExecuteCompose - Encode the slideshow, align narration, and mux the
// final MP4
func ExecuteCompose(ctx context.Context, p *Pipeline, manifest *Manifest) error {
	if len(manifest.Result.FramePaths) != len(manifest.Result.Frames) {
		return fmt.Errorf("frame path count %d does not match frame count %d",
			len(manifest.Result.FramePaths), len(manifest.Result.Frames))
	}

	narrated := len(manifest.Result.AudioClipPaths) == len(manifest.Result.Frames)

	slides, audioParts, err := p.buildSlides(ctx, manifest, narrated)
	if err != nil {
		return err
	}

	silentPath := filepath.Join(manifest.Input.TempDir, "video_silent.mp4")
	if err := p.encoder.EncodeSlideshow(ctx, slides, p.video.FPS, silentPath); err != nil {
		return err
	}
	manifest.Result.SilentVideoPath = silentPath

	if err := os.MkdirAll(manifest.Input.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	finalPath := filepath.Join(manifest.Input.OutputDir, manifest.Input.OutputName+".mp4")

	if narrated && len(audioParts) > 0 {
		audioPath := filepath.Join(manifest.Input.TempDir, "narration.mp3")
		if err := media.ConcatAudio(audioParts, audioPath); err != nil {
			return err
		}
		manifest.Result.AudioPath = audioPath

		if err := p.encoder.MuxAudio(ctx, silentPath, audioPath, finalPath); err != nil {
			return err
		}
	} else {
		if err := copyFile(silentPath, finalPath); err != nil {
			return fmt.Errorf("failed to place final video: %w", err)
		}
	}

	if err := manifest.CompleteStage(types.StageCompose, map[string]string{
		"output_path": finalPath,
	}); err != nil {
		return err
	}

	manifest.Result.FinalOutputPath = finalPath
	return nil
}

// buildSlides times each frame. A narrated frame holds for at least its
// clip length plus the post pause; silence clips fill the audio gaps so
// narration stays aligned with the slideshow.
func (p *Pipeline) buildSlides(ctx context.Context, manifest *Manifest, narrated bool) ([]media.Slide, []string, error) {
	frames := manifest.Result.Frames
	slides := make([]media.Slide, 0, len(frames))
	var audioParts []string

	for i, f := range frames {
		hold := f.Hold()

		var clipDuration time.Duration
		clipPath := ""
		if narrated {
			clipPath = manifest.Result.AudioClipPaths[i]
		}
		if clipPath != "" {
			d, err := p.encoder.ProbeDuration(ctx, clipPath)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to probe clip %s: %w", clipPath, err)
			}
			clipDuration = d
		}

		slideDuration := hold
		if spoken := clipDuration + f.PostHold(); clipPath != "" && spoken > slideDuration {
			slideDuration = spoken
		}
		slides = append(slides, media.Slide{
			ImagePath: manifest.Result.FramePaths[i],
			Duration:  slideDuration,
		})

		if !narrated {
			continue
		}
		if clipPath != "" {
			audioParts = append(audioParts, clipPath)
		}
		if pad := slideDuration - clipDuration; pad >= minSilencePad {
			padPath := filepath.Join(manifest.Input.TempDir, "audio", fmt.Sprintf("pad_%04d.mp3", i))
			if err := p.encoder.Silence(ctx, pad, padPath); err != nil {
				return nil, nil, fmt.Errorf("failed to generate silence: %w", err)
			}
			audioParts = append(audioParts, padPath)
		}
	}

	return slides, audioParts, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// GetStepForStage returns the step function for a given stage
func GetStepForStage(stage types.PipelineStage) (StepFunc, error) {
	switch stage {
	case types.StageAnalyze:
		return ExecuteAnalyze, nil
	case types.StageScript:
		return ExecuteScript, nil
	case types.StageFrames:
		return ExecuteFrames, nil
	case types.StageNarrate:
		return ExecuteNarrate, nil
	case types.StageRender:
		return ExecuteRender, nil
	case types.StageCompose:
		return ExecuteCompose, nil
	default:
		return nil, fmt.Errorf("unknown stage: %s", stage)
	}
}
