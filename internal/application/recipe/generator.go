package recipe

import (
	"context"
	"sync"

	"github.com/ongoza/cyberhub/internal/domain/recipe"
	"github.com/ongoza/cyberhub/internal/domain/training"
	"github.com/ongoza/cyberhub/internal/ports/outbound"
	apperrors "github.com/ongoza/cyberhub/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Generator produces validated, persisted recipes for a training context.
// Generation failures are absorbed by the fallback chain (secondary
// provider, then a deterministic placeholder); only a persistence failure
// propagates to the caller.
type Generator struct {
	chat       outbound.ChatClient
	completion outbound.CompletionClient
	validator  *Validator
	repo       outbound.RecipeRepository
	cache      outbound.CacheRepository
	sem        *semaphore.Weighted
	logger     *zap.Logger
}

// NewGenerator creates a generation orchestrator. maxConcurrency bounds the
// validation fan-out per batch; a validation call that would exceed the
// bound goes straight to the heuristic instead of queuing.
func NewGenerator(
	chat outbound.ChatClient,
	completion outbound.CompletionClient,
	validator *Validator,
	repo outbound.RecipeRepository,
	cache outbound.CacheRepository,
	maxConcurrency int,
	logger *zap.Logger,
) *Generator {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Generator{
		chat:       chat,
		completion: completion,
		validator:  validator,
		repo:       repo,
		cache:      cache,
		sem:        semaphore.NewWeighted(int64(maxConcurrency)),
		logger:     logger.Named("generator"),
	}
}

// Generate runs the full pipeline for a context: prompt, primary call,
// fallback chain, bounded validation fan-out, persistence and link creation.
// The returned slice is never empty.
func (g *Generator) Generate(ctx context.Context, tc training.Context, contextType recipe.ContextType, contextID, track, userID string) ([]recipe.Recipe, error) {
	prompt := BuildGenerationPrompt(tc, track)
	drafts := g.produceDrafts(ctx, prompt, tc.Title, track)
	return g.finalize(ctx, drafts, contextType, contextID, track, userID)
}

// GenerateForGaps backfills recipes for capability gaps reported by the
// ranking stage, capped at two recipes.
func (g *Generator) GenerateForGaps(ctx context.Context, gaps []string, contextType recipe.ContextType, contextID, track, userID string) ([]recipe.Recipe, error) {
	prompt := BuildGapGenerationPrompt(gaps, track)
	drafts := g.produceDrafts(ctx, prompt, "capability gaps", track)
	if len(drafts) > 2 {
		drafts = drafts[:2]
	}
	return g.finalize(ctx, drafts, contextType, contextID, track, userID)
}

// produceDrafts drives the fallback chain: primary chat provider, then the
// secondary completion provider, then exactly one deterministic placeholder.
// Total: it never fails for this failure class.
func (g *Generator) produceDrafts(ctx context.Context, prompt, focus, track string) []recipe.RecipeDraft {
	tracer := otel.Tracer("cyberhub/pipeline")
	ctx, span := tracer.Start(ctx, "generate.drafts")
	defer span.End()

	messages := []outbound.ChatMessage{
		{Role: "system", Content: generationSystemPrompt},
		{Role: "user", Content: prompt},
	}

	content, err := g.chat.ChatCompletion(ctx, messages, outbound.ChatOptions{})
	if err == nil {
		drafts, parseErr := parseDraftArray("grok", content)
		if parseErr == nil {
			span.SetAttributes(attribute.String("source", sourcePrimary))
			generationTotal.WithLabelValues(sourcePrimary).Inc()
			return normalizeAll(drafts, track)
		}
		err = parseErr
	}

	g.logger.Warn("primary provider failed, trying fallback",
		zap.String("track", track),
		zap.String("cause", string(apperrors.GetCode(err))),
		zap.Error(err))

	fallback := BuildFallbackPrompt(focus, track)
	response, err := g.completion.GenerateCompletion(ctx, fallback, outbound.GenerateOptions{})
	if err == nil {
		drafts, parseErr := parseDraftArray("ollama", response)
		if parseErr == nil {
			span.SetAttributes(attribute.String("source", sourceFallback))
			generationTotal.WithLabelValues(sourceFallback).Inc()
			return normalizeAll(drafts, track)
		}
		err = parseErr
	}

	g.logger.Warn("fallback provider failed, synthesizing placeholder",
		zap.String("track", track),
		zap.String("cause", string(apperrors.GetCode(err))),
		zap.Error(err))

	span.SetAttributes(attribute.String("source", sourcePlaceholder))
	generationTotal.WithLabelValues(sourcePlaceholder).Inc()
	return []recipe.RecipeDraft{recipe.NewPlaceholder(track)}
}

// finalize validates drafts concurrently, persists them and creates context
// links mirroring the saved-record order.
func (g *Generator) finalize(ctx context.Context, drafts []recipe.RecipeDraft, contextType recipe.ContextType, contextID, track, userID string) ([]recipe.Recipe, error) {
	validated := g.validateAll(ctx, drafts)

	records := make([]recipe.ValidatedRecipe, len(drafts))
	for i, draft := range drafts {
		records[i] = recipe.NewValidatedRecipe(draft, validated[i], userID)
	}

	saved, err := g.repo.SaveRecipes(ctx, records)
	if err != nil {
		return nil, apperrors.NewPersistenceError("save recipes", err)
	}

	// Links are created only when the save returned at least one record,
	// in saved-record order with position defaulting to insertion index.
	if len(saved) > 0 {
		links := recipe.NewContextLinks(saved, contextType, contextID)
		if err := g.repo.CreateContextLinks(ctx, links); err != nil {
			return nil, apperrors.NewPersistenceError("create context links", err)
		}
	}

	g.invalidateCandidates(ctx, track)

	return saved, nil
}

// validateAll fans validation out across drafts with no ordering dependency.
// The semaphore caps concurrent outbound validation calls; drafts that
// cannot acquire a slot fall back to the heuristic immediately.
func (g *Generator) validateAll(ctx context.Context, drafts []recipe.RecipeDraft) []bool {
	results := make([]bool, len(drafts))
	var wg sync.WaitGroup

	for i, draft := range drafts {
		wg.Add(1)
		go func(i int, draft recipe.RecipeDraft) {
			defer wg.Done()
			if !g.sem.TryAcquire(1) {
				results[i] = draft.Content.HasSteps()
				validationTotal.WithLabelValues(modeHeuristic, boolResult(results[i])).Inc()
				return
			}
			defer g.sem.Release(1)
			results[i] = g.validator.Validate(ctx, draft)
		}(i, draft)
	}

	wg.Wait()
	return results
}

// invalidateCandidates drops the cached candidate list for a track after new
// recipes were persisted. Best effort.
func (g *Generator) invalidateCandidates(ctx context.Context, track string) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Delete(ctx, candidateCacheKey(track)); err != nil {
		g.logger.Debug("candidate cache invalidation failed",
			zap.String("track", track),
			zap.Error(err))
	}
}

func normalizeAll(drafts []recipe.RecipeDraft, track string) []recipe.RecipeDraft {
	for i := range drafts {
		drafts[i].Normalize(track)
	}
	return drafts
}
