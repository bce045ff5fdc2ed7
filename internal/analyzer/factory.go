package analyzer

import (
	"context"
	"fmt"

	"scanmatch-utils/internal/analyzer/providers"
	"scanmatch-utils/internal/config"
	"scanmatch-utils/internal/logging"
)

// NewProvider creates the LLM provider selected by configuration
func NewProvider(ctx context.Context, cfg *config.Config, logger logging.Logger) (Provider, error) {
	switch cfg.Analyzer.Provider {
	case "claude":
		return providers.NewClaudeProvider(cfg, logger), nil
	case "gemini":
		return providers.NewGeminiProvider(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported analyzer provider: %s", cfg.Analyzer.Provider)
	}
}
