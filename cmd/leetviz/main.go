package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"leetviz/internal/llm"
	"leetviz/internal/llm/providers/claude"
	"leetviz/internal/llm/providers/gemini"
	"leetviz/internal/llm/providers/openai"
	"leetviz/internal/media"
	"leetviz/internal/pipeline"
	"leetviz/internal/render"
	"leetviz/internal/tts"
	"leetviz/pkg/types"
)

// createLLMProvider creates the appropriate LLM provider based on configuration
func createLLMProvider(config types.LLMConfig) (llm.Provider, error) {
	switch config.Provider {
	case "anthropic", "claude":
		return claude.NewProvider(config.Anthropic)

	case "google", "gemini":
		return gemini.NewProvider(config.Google)

	case "openai":
		return openai.NewProvider(config.OpenAI)

	case "":
		return nil, fmt.Errorf("llm.provider not specified in config")

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: anthropic, google, openai)", config.Provider)
	}
}

func main() {
	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Parse command-line flags
	var (
		configPath   = flag.String("config", "configs/leetviz.yaml", "Path to configuration file")
		solutionPath = flag.String("solution", "", "Path to the Leetcode solution file (required)")
		outputDir    = flag.String("output", "output", "Output directory for the final video")
		outputName   = flag.String("name", "", "Base name of the output video (default: solution file name)")
		manifestPath = flag.String("manifest", "", "Path to pipeline manifest (default: from config)")
		pipelineID   = flag.String("id", "", "Pipeline ID for resume (default: auto-generate)")
	)
	flag.Parse()

	// Validate required flags
	if *solutionPath == "" {
		log.Fatal("Error: --solution flag is required")
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, shutting down...")
		cancel()
	}()

	// Load configuration
	config, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set manifest path
	if *manifestPath == "" {
		*manifestPath = config.Pipeline.ManifestPath
	}
	if *manifestPath == "" {
		*manifestPath = "pipeline_manifest.json"
	}

	// Generate pipeline ID if not provided
	if *pipelineID == "" {
		*pipelineID = uuid.NewString()[:8]
	}

	// Default the video name to the solution file name
	if *outputName == "" {
		base := filepath.Base(*solutionPath)
		*outputName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	solutionCode, err := os.ReadFile(*solutionPath)
	if err != nil {
		log.Fatalf("Failed to read solution file: %v", err)
	}

	log.Printf("Starting leetviz")
	log.Printf("Pipeline ID: %s", *pipelineID)
	log.Printf("Solution: %s", *solutionPath)
	log.Printf("Output Directory: %s", *outputDir)

	// Create temporary directory for intermediate files
	tempDir := fmt.Sprintf(".pipeline_tmp/%s", *pipelineID)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		log.Fatalf("Failed to create temporary directory: %v", err)
	}
	log.Printf("Temporary Directory: %s", tempDir)

	// Initialize LLM provider
	log.Printf("Initializing LLM provider: %s...", config.LLM.Provider)
	provider, err := createLLMProvider(config.LLM)
	if err != nil {
		log.Fatalf("Failed to create LLM provider: %v", err)
	}
	if !provider.IsEnabled() {
		log.Fatalf("LLM provider %s has no API key configured", provider.Name())
	}
	log.Printf("%s enabled", provider.Name())

	// Initialize TTS
	synthesizer := tts.NewElevenLabs(config.TTS)
	if synthesizer.IsEnabled() {
		log.Printf("TTS enabled (%s)", synthesizer.Name())
	} else {
		log.Println("TTS disabled, the video will be silent")
	}

	// Initialize frame renderer
	renderer, err := render.NewRenderer(config.Video)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}

	// Verify ffmpeg availability before spending on API calls
	encoder := media.New()
	if err := encoder.Check(ctx); err != nil {
		log.Fatalf("Media tooling unavailable: %v", err)
	}

	pipe := pipeline.NewPipeline(
		provider,
		synthesizer,
		renderer,
		encoder,
		config.Video,
		config.Pipeline.MaxRetries,
		*manifestPath,
	)

	// Prepare input
	input := types.PipelineInput{
		SolutionPath: *solutionPath,
		SolutionCode: string(solutionCode),
		OutputDir:    *outputDir,
		OutputName:   *outputName,
		TempDir:      tempDir,
	}

	// Validate input
	if err := pipeline.ValidateInput(input); err != nil {
		log.Fatalf("Invalid input: %v", err)
	}

	// Execute pipeline
	log.Println("Starting pipeline execution...")
	result, err := pipe.Execute(ctx, input, *pipelineID)
	if err != nil {
		log.Fatalf("Pipeline execution failed: %v", err)
	}

	// Display results
	log.Println("\n=== Pipeline Completed Successfully ===")
	log.Printf("Data Structure: %s", result.DataStructure)
	log.Printf("Frames: %d", len(result.Frames))
	if result.AudioPath != "" {
		log.Printf("Narration: %s", result.AudioPath)
	}
	log.Printf("Final Output: %s", result.FinalOutputPath)
	log.Println("=======================================")
}

// loadConfig reads and parses the YAML configuration file
func loadConfig(path string) (*types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the config file
	expandedData := os.ExpandEnv(string(data))

	var config types.Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}
