package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"scanmatch-utils/internal/config"
	"scanmatch-utils/internal/logging"
)

const defaultGeminiModel = "gemini-2.5-pro"

// GeminiProvider implements the analyzer provider interface using Google's
// Gemini API
type GeminiProvider struct {
	client    *genai.Client
	config    *config.Config
	modelName string
	logger    logging.Logger
}

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(ctx context.Context, cfg *config.Config, logger logging.Logger) (*GeminiProvider, error) {
	apiKey := strings.TrimSpace(cfg.Analyzer.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	modelName := strings.TrimSpace(cfg.Analyzer.Model)
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	return &GeminiProvider{
		client:    client,
		config:    cfg,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// GenerateAnalysis sends the analysis prompt to Gemini and returns the
// concatenated textual response
func (gp *GeminiProvider) GenerateAnalysis(ctx context.Context, prompt string) (string, error) {
	if gp == nil || gp.client == nil {
		return "", errors.New("gemini provider is not initialized")
	}

	temperature := gp.config.Analyzer.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if gp.config.Analyzer.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(gp.config.Analyzer.MaxTokens)
	}

	resp, err := gp.client.Models.GenerateContent(ctx, gp.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// IsHealthy checks if the Gemini provider is configured
func (gp *GeminiProvider) IsHealthy(ctx context.Context) error {
	if gp == nil || gp.client == nil {
		return errors.New("gemini provider is not initialized")
	}
	if strings.TrimSpace(gp.config.Analyzer.APIKey) == "" {
		return errors.New("gemini api key not configured - set ANALYZER_API_KEY environment variable")
	}
	return nil
}

// GetProviderName returns the name of the provider
func (gp *GeminiProvider) GetProviderName() string {
	return "gemini"
}
