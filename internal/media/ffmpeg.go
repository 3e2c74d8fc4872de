package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Slide is one still image shown for a fixed duration
type Slide struct {
	ImagePath string
	Duration  time.Duration
}

// Runner executes external commands. Tests substitute a fake to avoid
// requiring ffmpeg on the machine.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// FFmpeg wraps the ffmpeg and ffprobe binaries
type FFmpeg struct {
	runner Runner
}

// New creates an FFmpeg wrapper using the system binaries
func New() *FFmpeg {
	return &FFmpeg{runner: execRunner{}}
}

// NewWithRunner creates an FFmpeg wrapper with a custom command runner
func NewWithRunner(r Runner) *FFmpeg {
	return &FFmpeg{runner: r}
}

// Check verifies that ffmpeg and ffprobe are on PATH
func (f *FFmpeg) Check(ctx context.Context) error {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := f.runner.Run(ctx, bin, "-version"); err != nil {
			return fmt.Errorf("%s is not available: %w", bin, err)
		}
	}
	return nil
}

// ProbeDuration returns the duration of a media file
func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	output, err := f.runner.Run(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w, output: %s", err, output)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", output, err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// EncodeSlideshow turns a sequence of timed stills into an MP4 using the
// concat demuxer
func (f *FFmpeg) EncodeSlideshow(ctx context.Context, slides []Slide, fps int, outputPath string) error {
	if len(slides) == 0 {
		return fmt.Errorf("no slides to encode")
	}
	if fps <= 0 {
		fps = 30
	}

	listPath := outputPath + ".txt"
	if err := os.WriteFile(listPath, []byte(ConcatList(slides)), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	defer os.Remove(listPath)

	output, err := f.runner.Run(ctx, "ffmpeg", "-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-vsync", "vfr",
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(fps),
		outputPath,
	)
	if err != nil {
		return fmt.Errorf("ffmpeg slideshow failed: %w, output: %s", err, output)
	}
	return nil
}

// MuxAudio combines a video stream and an audio track into one MP4. The
// video is stream-copied and the audio re-encoded to AAC.
func (f *FFmpeg) MuxAudio(ctx context.Context, videoPath, audioPath, outputPath string) error {
	output, err := f.runner.Run(ctx, "ffmpeg", "-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		"-map", "0:v:0",
		"-map", "1:a:0",
		outputPath,
	)
	if err != nil {
		return fmt.Errorf("ffmpeg mux failed: %w, output: %s", err, output)
	}
	return nil
}

// Silence generates a silent audio clip of the given length
func (f *FFmpeg) Silence(ctx context.Context, duration time.Duration, outputPath string) error {
	output, err := f.runner.Run(ctx, "ffmpeg", "-y",
		"-f", "lavfi",
		"-i", "anullsrc=r=44100:cl=mono",
		"-t", formatSeconds(duration),
		"-q:a", "9",
		outputPath,
	)
	if err != nil {
		return fmt.Errorf("ffmpeg silence failed: %w, output: %s", err, output)
	}
	return nil
}

// ConcatAudio joins MP3 clips by appending their bytes. MP3 frames are
// self-contained so players handle the result without re-encoding.
func ConcatAudio(paths []string, outputPath string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no audio clips to concatenate")
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output audio: %w", err)
	}
	defer out.Close()

	for _, path := range paths {
		in, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open clip %s: %w", path, err)
		}
		if _, err := io.Copy(out, in); err != nil {
			in.Close()
			return fmt.Errorf("failed to append clip %s: %w", path, err)
		}
		in.Close()
	}
	return nil
}

// ConcatList renders the ffmpeg concat demuxer script for a slideshow.
// The final image repeats without a duration so the last frame holds.
func ConcatList(slides []Slide) string {
	var b strings.Builder
	for _, s := range slides {
		fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(s.ImagePath))
		fmt.Fprintf(&b, "duration %s\n", formatSeconds(s.Duration))
	}
	if len(slides) > 0 {
		fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(slides[len(slides)-1].ImagePath))
	}
	return b.String()
}

func escapeConcatPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return strings.ReplaceAll(abs, "'", `'\''`)
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
