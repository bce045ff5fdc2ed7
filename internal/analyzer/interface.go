package analyzer

import (
	"context"
)

// Provider defines the interface for LLM providers that back the analysis
// engine. Providers take a fully built prompt and return the raw textual
// response; parsing, validation and retries live in the Engine.
type Provider interface {
	// GenerateAnalysis sends the prompt to the provider and returns the
	// raw text of its response
	GenerateAnalysis(ctx context.Context, prompt string) (string, error)

	// IsHealthy checks if the provider is configured and reachable
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the provider
	GetProviderName() string
}
