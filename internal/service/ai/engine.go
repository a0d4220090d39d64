package ai

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/shohruz/portfolio-backend-go/internal/constants"
	"github.com/shohruz/portfolio-backend-go/internal/domain"
	"github.com/shohruz/portfolio-backend-go/internal/prompt"
)

// Fallback replies for the degraded modes. The visitor always gets a reply;
// failures never propagate past the engine.
const (
	MsgNotConfigured = "Kechirasiz, AI yordamchi hozirda o'chirilgan (API kaliti sozlanmagan)."
	MsgServiceError  = "AI xizmatida xatolik yuz berdi."
	MsgEmptyQuestion = "Savolingizni yozib yuboring, men javob berishga harakat qilaman."
)

// Generator abstracts the model manager so the engine can be tested with a
// fake backend.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, system, user string) (ProviderResult, *GenerateMetadata, error)
}

// Engine builds a grounded conversational turn: the current snapshot becomes
// the system context and the utterance the user turn.
type Engine struct {
	generator Generator
	prompts   *prompt.PromptBuilder
	logger    *zap.Logger
}

func NewEngine(generator Generator, prompts *prompt.PromptBuilder, logger *zap.Logger) *Engine {
	return &Engine{
		generator: generator,
		prompts:   prompts,
		logger:    logger,
	}
}

// Respond answers the utterance from the snapshot's facts only. It never
// returns an error; every failure path yields a user-facing fallback string.
func (e *Engine) Respond(ctx context.Context, utterance string, snapshot *domain.Snapshot) string {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return MsgEmptyQuestion
	}
	if runes := []rune(utterance); len(runes) > constants.AIConfig.MaxQueryLength {
		utterance = string(runes[:constants.AIConfig.MaxQueryLength])
	}

	if e.generator == nil || !e.generator.Configured() {
		e.logger.Warn("Assistant invoked without AI credentials")
		return MsgNotConfigured
	}

	system, err := e.prompts.BuildGroundingContext(snapshot)
	if err != nil {
		e.logger.Error("Failed to build grounding context", zap.Error(err))
		return MsgServiceError
	}

	result, metadata, err := e.generator.Generate(ctx, system, utterance)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return MsgNotConfigured
		}
		e.logger.Error("Assistant generation failed", zap.Error(err))
		return MsgServiceError
	}

	reply := strings.TrimSpace(result.Text)
	if reply == "" {
		return MsgServiceError
	}

	e.logger.Debug("Assistant reply generated",
		zap.String("provider", metadata.Provider),
		zap.String("model", metadata.Model),
		zap.Bool("used_fallback", metadata.UsedFallback),
	)
	return reply
}
