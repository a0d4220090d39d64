package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shohruz/portfolio-backend-go/internal/constants"
	"github.com/shohruz/portfolio-backend-go/internal/util"
	"github.com/shohruz/portfolio-backend-go/pkg/errors"
)

// ModelManager routes completion requests to the primary provider and, when
// enabled, retries the fallback provider once. A circuit breaker skips remote
// calls entirely while the backends are known to be down.
type ModelManager struct {
	primary        Provider
	fallback       Provider
	enableFallback bool
	circuitBreaker *util.CircuitBreaker
	logger         *zap.Logger
}

type ModelManagerConfig struct {
	GeminiAPIKey   string
	OpenAIAPIKey   string
	GeminiModel    string
	OpenAIModel    string
	EnableFallback bool
}

type GenerateMetadata struct {
	Provider     string
	Model        string
	UsedFallback bool
}

// ErrNotConfigured marks the expected "no credential" condition; callers treat
// it as a degraded mode, not a failure.
var ErrNotConfigured = fmt.Errorf("no AI provider configured")

func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	gemini, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		return nil, err
	}

	openai := NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)

	mm := &ModelManager{
		logger: logger,
		circuitBreaker: util.NewCircuitBreaker(
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
	}

	switch {
	case gemini != nil:
		mm.primary = gemini
		if cfg.EnableFallback && openai != nil {
			mm.fallback = openai
			mm.enableFallback = true
			logger.Info("OpenAI fallback enabled", zap.String("model", cfg.OpenAIModel))
		}
	case openai != nil:
		// No Gemini key but an OpenAI one: promote the fallback.
		mm.primary = openai
		logger.Info("Gemini key absent, using OpenAI as primary")
	default:
		logger.Warn("No AI credentials configured, assistant runs in degraded mode")
	}

	return mm, nil
}

// Configured reports whether any provider credential is present.
func (mm *ModelManager) Configured() bool {
	return mm.primary != nil
}

func (mm *ModelManager) Generate(ctx context.Context, system, user string) (ProviderResult, *GenerateMetadata, error) {
	if mm.primary == nil {
		return ProviderResult{}, nil, ErrNotConfigured
	}

	if !mm.circuitBreaker.CanExecute() {
		return ProviderResult{}, nil, errors.NewAIError("providers unavailable, circuit open", mm.primary.Name(), nil)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.AIConfig.RequestTimeout)
	defer cancel()

	result, err := mm.primary.Complete(ctx, system, user)
	if err == nil {
		mm.circuitBreaker.RecordSuccess()
		return result, &GenerateMetadata{Provider: mm.primary.Name(), Model: result.Model}, nil
	}

	if mm.enableFallback && mm.fallback != nil {
		fallbackResult, fallbackErr := mm.fallback.Complete(ctx, system, user)
		if fallbackErr == nil {
			mm.circuitBreaker.RecordSuccess()
			return fallbackResult, &GenerateMetadata{
				Provider:     mm.fallback.Name(),
				Model:        fallbackResult.Model,
				UsedFallback: true,
			}, nil
		}
		mm.circuitBreaker.RecordFailure()
		return ProviderResult{}, nil, errors.NewAIError(
			fmt.Sprintf("all providers failed: %v", err), mm.fallback.Name(), fallbackErr)
	}

	mm.circuitBreaker.RecordFailure()
	return ProviderResult{}, nil, errors.NewAIError("generation failed", mm.primary.Name(), err)
}
