package recipe

import (
	"context"
	"encoding/json"

	"github.com/ongoza/cyberhub/internal/domain/recipe"
	"github.com/ongoza/cyberhub/internal/ports/outbound"
	"go.uber.org/zap"
)

// Validator runs the validation stage: a code-oriented model assesses
// command safety and syntax, with a structural heuristic as fallback.
type Validator struct {
	completion outbound.CompletionClient
	model      string
	logger     *zap.Logger
}

// NewValidator creates a validation stage backed by the secondary provider
func NewValidator(completion outbound.CompletionClient, model string, logger *zap.Logger) *Validator {
	return &Validator{
		completion: completion,
		model:      model,
		logger:     logger.Named("validator"),
	}
}

// Validate assesses one draft. The input is never mutated; the caller
// attaches the verdict. Any provider or parse failure falls back to the
// heuristic: valid iff a steps section with steps exists.
func (v *Validator) Validate(ctx context.Context, draft recipe.RecipeDraft) bool {
	sectionsJSON, err := json.Marshal(draft.Content.Sections)
	if err != nil {
		return v.heuristic(draft)
	}

	prompt := BuildValidationPrompt(string(sectionsJSON))
	response, err := v.completion.GenerateCompletion(ctx, prompt, outbound.GenerateOptions{
		Model: v.model,
	})
	if err != nil {
		v.logger.Warn("validator model unavailable, using heuristic",
			zap.String("recipe", draft.Slug),
			zap.Error(err))
		return v.heuristic(draft)
	}

	verdict, err := parseValidationVerdict("ollama", response)
	if err != nil {
		v.logger.Warn("validator output unparseable, using heuristic",
			zap.String("recipe", draft.Slug),
			zap.Error(err))
		return v.heuristic(draft)
	}

	if len(verdict.Issues) > 0 {
		v.logger.Info("validator reported issues",
			zap.String("recipe", draft.Slug),
			zap.Strings("issues", verdict.Issues))
	}

	validationTotal.WithLabelValues(modeModel, boolResult(verdict.Validated)).Inc()
	return verdict.Validated
}

// heuristic is the structural fallback check
func (v *Validator) heuristic(draft recipe.RecipeDraft) bool {
	valid := draft.Content.HasSteps()
	if !valid {
		v.logger.Warn("recipe failed structural check",
			zap.String("recipe", draft.Slug),
			zap.Error(recipe.ErrNoSteps))
	}
	validationTotal.WithLabelValues(modeHeuristic, boolResult(valid)).Inc()
	return valid
}
