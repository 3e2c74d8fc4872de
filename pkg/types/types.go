package types

import "time"

// Config represents the application configuration
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	TTS      TTSConfig      `yaml:"tts"`
	Video    VideoConfig    `yaml:"video"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// LLMConfig selects and configures the explanation model
type LLMConfig struct {
	Provider string `yaml:"provider"` // "anthropic", "openai", "google"

	// Provider-specific configurations
	Anthropic AnthropicConfig `yaml:"anthropic"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Google    GoogleConfig    `yaml:"google"`
}

// AnthropicConfig for Claude
type AnthropicConfig struct {
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"` // e.g., "claude-3-5-sonnet-20240620"
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// OpenAIConfig for GPT models
type OpenAIConfig struct {
	APIKey       string        `yaml:"api_key"`
	Model        string        `yaml:"model"`        // e.g., "gpt-4o"
	Organization string        `yaml:"organization"` // Optional
	MaxTokens    int           `yaml:"max_tokens"`
	Timeout      time.Duration `yaml:"timeout"`
}

// GoogleConfig for Gemini
type GoogleConfig struct {
	APIKey    string        `yaml:"api_key"`
	Model     string        `yaml:"model"` // e.g., "gemini-2.0-flash"
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// TTSConfig configures narration synthesis
type TTSConfig struct {
	Enabled         bool          `yaml:"enabled"`
	APIKey          string        `yaml:"api_key"`
	VoiceID         string        `yaml:"voice_id"`
	ModelID         string        `yaml:"model_id"` // e.g., "eleven_multilingual_v2"
	Stability       float64       `yaml:"stability"`
	SimilarityBoost float64       `yaml:"similarity_boost"`
	Timeout         time.Duration `yaml:"timeout"`
}

// VideoConfig controls frame rendering and encoding
type VideoConfig struct {
	Width  int `yaml:"width"`  // default 1080
	Height int `yaml:"height"` // default 1920
	FPS    int `yaml:"fps"`    // default 30
}

// PipelineConfig defines pipeline execution parameters
type PipelineConfig struct {
	MaxRetries   int    `yaml:"max_retries"`
	ManifestPath string `yaml:"manifest_path"`
}

// PipelineInput contains the initial pipeline parameters
type PipelineInput struct {
	SolutionPath string `json:"solution_path"` // Source file with the Leetcode solution
	SolutionCode string `json:"solution_code"` // Loaded solution text
	OutputDir    string `json:"output_dir"`    // Output directory for the final video
	OutputName   string `json:"output_name"`   // Base name of the final video file
	TempDir      string `json:"temp_dir"`      // Working directory for intermediate files
}

// PipelineStage represents a stage in the execution pipeline
type PipelineStage string

const (
	StageInit     PipelineStage = "init"
	StageAnalyze  PipelineStage = "analyze_solution"
	StageScript   PipelineStage = "generate_script"
	StageFrames   PipelineStage = "generate_frames"
	StageNarrate  PipelineStage = "narrate"
	StageRender   PipelineStage = "render_frames"
	StageCompose  PipelineStage = "compose"
	StageComplete PipelineStage = "complete"
)

// StageStatus represents the execution status of a stage
type StageStatus string

const (
	StatusPending   StageStatus = "pending"
	StatusRunning   StageStatus = "running"
	StatusCompleted StageStatus = "completed"
	StatusFailed    StageStatus = "failed"
	StatusSkipped   StageStatus = "skipped"
)
