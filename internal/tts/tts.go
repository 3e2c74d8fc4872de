package tts

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/haguro/elevenlabs-go"

	"leetviz/pkg/types"
)

const defaultTimeout = 60 * time.Second

// Synthesizer converts narration text into an audio file
type Synthesizer interface {
	Name() string
	IsEnabled() bool
	Synthesize(ctx context.Context, text, outputPath string) error
}

// ElevenLabs implements Synthesizer using the ElevenLabs TTS API
type ElevenLabs struct {
	apiKey          string
	voiceID         string
	modelID         string
	stability       float32
	similarityBoost float32
	timeout         time.Duration
	enabled         bool
}

// NewElevenLabs creates a new ElevenLabs synthesizer. A missing API key
// yields a disabled synthesizer rather than an error so the pipeline can
// fall back to a silent video.
func NewElevenLabs(config types.TTSConfig) *ElevenLabs {
	if config.APIKey == "" || !config.Enabled {
		return &ElevenLabs{enabled: false}
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &ElevenLabs{
		apiKey:          config.APIKey,
		voiceID:         config.VoiceID,
		modelID:         config.ModelID,
		stability:       float32(config.Stability),
		similarityBoost: float32(config.SimilarityBoost),
		timeout:         timeout,
		enabled:         true,
	}
}

// Name returns the synthesizer name
func (e *ElevenLabs) Name() string {
	return "elevenlabs"
}

// IsEnabled returns whether the synthesizer is configured
func (e *ElevenLabs) IsEnabled() bool {
	return e.enabled
}

// Synthesize converts text to speech and writes the MP3 to outputPath
func (e *ElevenLabs) Synthesize(ctx context.Context, text, outputPath string) error {
	if !e.enabled {
		return fmt.Errorf("elevenlabs synthesizer is not configured")
	}
	if text == "" {
		return fmt.Errorf("cannot synthesize empty text")
	}

	client := elevenlabs.NewClient(ctx, e.apiKey, e.timeout)

	audio, err := client.TextToSpeech(e.voiceID, elevenlabs.TextToSpeechRequest{
		Text:    text,
		ModelID: e.modelID,
		VoiceSettings: &elevenlabs.VoiceSettings{
			Stability:       e.stability,
			SimilarityBoost: e.similarityBoost,
		},
	})
	if err != nil {
		return fmt.Errorf("elevenlabs request failed: %w", err)
	}

	if err := os.WriteFile(outputPath, audio, 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	log.Printf("[TTS] Wrote %d bytes to %s", len(audio), outputPath)
	return nil
}
