// Package analyzer implements the analysis engine: a retry-and-validation
// wrapper around interchangeable LLM providers that turns resume and job
// description text into a structured multi-section Analysis.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scanmatch-utils/internal/config"
	"scanmatch-utils/internal/logging"
	"scanmatch-utils/pkg/models"
	"scanmatch-utils/pkg/utils"
)

// ErrAnalysisFailed is returned when every attempt against the provider has
// been exhausted. It carries the last underlying failure.
var ErrAnalysisFailed = errors.New("analysis failed")

// Engine wraps a Provider with input truncation, response validation and
// bounded retries. Retries issue fresh provider calls, so results are not
// idempotent across attempts; that is an accepted property.
type Engine struct {
	provider   Provider
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
	logger     logging.Logger
}

// NewEngine creates an analysis engine around the given provider
func NewEngine(provider Provider, cfg *config.Config, logger logging.Logger) *Engine {
	maxRetries := cfg.Analyzer.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Engine{
		provider:   provider,
		maxRetries: maxRetries,
		retryDelay: cfg.Analyzer.RetryDelay,
		timeout:    cfg.Analyzer.Timeout,
		logger:     logger,
	}
}

// Analyze scores the resume against the job description. Inputs are
// truncated to provider-safe lengths before the prompt is built.
func (e *Engine) Analyze(ctx context.Context, resumeText, jobDescriptionText string) (*models.Analysis, error) {
	resumeText = utils.TruncateString(resumeText, maxResumeLength)
	jobDescriptionText = utils.TruncateString(jobDescriptionText, maxJobDescriptionLength)

	prompt := buildAnalysisPrompt(resumeText, jobDescriptionText)

	var lastErr error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		analysis, err := e.attempt(ctx, prompt)
		if err == nil {
			e.logger.Info("Resume analysis completed", map[string]interface{}{
				"provider": e.provider.GetProviderName(),
				"attempt":  attempt,
			})
			return analysis, nil
		}

		lastErr = err
		e.logger.Warn("Analysis attempt failed", map[string]interface{}{
			"provider": e.provider.GetProviderName(),
			"attempt":  attempt,
			"attempts": e.maxRetries,
			"error":    err.Error(),
		})

		if attempt < e.maxRetries {
			select {
			case <-time.After(e.retryDelay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrAnalysisFailed, e.maxRetries, lastErr)
}

// IsHealthy reports whether the underlying provider is usable
func (e *Engine) IsHealthy(ctx context.Context) error {
	return e.provider.IsHealthy(ctx)
}

// GetProviderName returns the backing provider's name
func (e *Engine) GetProviderName() string {
	return e.provider.GetProviderName()
}

// attempt makes one provider call under the per-attempt timeout; a slow
// attempt is cut off without consuming the remaining retries' time budget
func (e *Engine) attempt(ctx context.Context, prompt string) (*models.Analysis, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	responseText, err := e.provider.GenerateAnalysis(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("provider call failed: %w", err)
	}

	if strings.TrimSpace(responseText) == "" {
		return nil, errors.New("empty response from provider")
	}

	payload, err := parseAndValidate(responseText)
	if err != nil {
		return nil, err
	}

	return mapToAnalysis(payload), nil
}
