package recipe

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ongoza/cyberhub/internal/domain/recipe"
	"github.com/ongoza/cyberhub/internal/ports/inbound"
	"github.com/ongoza/cyberhub/internal/ports/outbound"
	apperrors "github.com/ongoza/cyberhub/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const (
	candidateLimit = 20
	rankedLimit    = 5
)

// emptyTrackMessage is returned when no candidates exist for a track
const emptyTrackMessage = "No recipes are available for this track yet. Generate recipes for the context to get started."

// Recommender returns a ranked, possibly gap-filled recipe list for a
// context. Once candidates exist, ranking failures degrade to rating order;
// gap-fill failures are swallowed.
type Recommender struct {
	repo         outbound.RecipeRepository
	contexts     outbound.ContextRepository
	chat         outbound.ChatClient
	generator    *Generator
	cache        outbound.CacheRepository
	candidateTTL time.Duration
	logger       *zap.Logger
}

// NewRecommender creates a recommendation orchestrator
func NewRecommender(
	repo outbound.RecipeRepository,
	contexts outbound.ContextRepository,
	chat outbound.ChatClient,
	generator *Generator,
	cache outbound.CacheRepository,
	candidateTTL time.Duration,
	logger *zap.Logger,
) *Recommender {
	return &Recommender{
		repo:         repo,
		contexts:     contexts,
		chat:         chat,
		generator:    generator,
		cache:        cache,
		candidateTTL: candidateTTL,
		logger:       logger.Named("recommender"),
	}
}

// Recommend runs the recommendation pipeline for one context
func (r *Recommender) Recommend(ctx context.Context, cmd inbound.RecommendCommand) (*inbound.Recommendation, error) {
	tracer := otel.Tracer("cyberhub/pipeline")
	ctx, span := tracer.Start(ctx, "recommend")
	defer span.End()

	candidates, err := r.loadCandidates(ctx, cmd.TrackCode)
	if err != nil {
		return nil, apperrors.NewPersistenceError("load candidate recipes", err)
	}

	// Terminal: nothing to rank, nothing to generate.
	if len(candidates) == 0 {
		return &inbound.Recommendation{
			Recipes: []recipe.Recipe{},
			Message: emptyTrackMessage,
		}, nil
	}

	ranked, gaps := r.rank(ctx, candidates, cmd)

	if len(gaps) > 0 {
		if gapRecipes := r.fillGaps(ctx, gaps, cmd); len(gapRecipes) > 0 {
			ranked = append(gapRecipes, ranked...)
		}
	}

	return &inbound.Recommendation{Recipes: ranked}, nil
}

// loadCandidates reads the candidate list through the cache. Cache failures
// fall through to the repository read.
func (r *Recommender) loadCandidates(ctx context.Context, track string) ([]recipe.Recipe, error) {
	key := candidateCacheKey(track)

	if r.cache != nil {
		if data, err := r.cache.Get(ctx, key); err == nil {
			var cached []recipe.Recipe
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	candidates, err := r.repo.FindCandidates(ctx, track, candidateLimit)
	if err != nil {
		return nil, err
	}

	if r.cache != nil && len(candidates) > 0 {
		if data, err := json.Marshal(candidates); err == nil {
			if err := r.cache.Set(ctx, key, data, r.candidateTTL); err != nil {
				r.logger.Debug("candidate cache write failed", zap.Error(err))
			}
		}
	}

	return candidates, nil
}

// rank asks the primary model to order candidates and report gaps. This is
// the resilience boundary: any failure here returns the top candidates in
// their existing rating order with no gaps, never an error.
func (r *Recommender) rank(ctx context.Context, candidates []recipe.Recipe, cmd inbound.RecommendCommand) ([]recipe.Recipe, []string) {
	tc, err := r.contexts.FindContext(ctx, cmd.ContextType, cmd.ContextID)
	if err != nil {
		r.logger.Warn("context fetch failed, falling back to rating order",
			zap.String("context_id", cmd.ContextID),
			zap.Error(err))
		recommendFallbackTotal.WithLabelValues("context_error").Inc()
		return topN(candidates, rankedLimit), nil
	}

	prompt := BuildRankingPrompt(candidates, *tc)
	messages := []outbound.ChatMessage{
		{Role: "system", Content: "You rank cybersecurity training recipes. Respond with only the requested JSON object."},
		{Role: "user", Content: prompt},
	}

	content, err := r.chat.ChatCompletion(ctx, messages, outbound.ChatOptions{})
	if err != nil {
		r.logger.Warn("ranking call failed, falling back to rating order",
			zap.String("cause", string(apperrors.GetCode(err))),
			zap.Error(err))
		recommendFallbackTotal.WithLabelValues("ranking_error").Inc()
		return topN(candidates, rankedLimit), nil
	}

	result, err := parseRankingResult("grok", content)
	if err != nil {
		r.logger.Warn("ranking output unparseable, falling back to rating order",
			zap.Error(err))
		recommendFallbackTotal.WithLabelValues("ranking_error").Inc()
		return topN(candidates, rankedLimit), nil
	}

	// Reasons are kept for diagnostics only, never returned to clients.
	if len(result.Reasons) > 0 {
		r.logger.Debug("ranking rationale", zap.Any("reasons", result.Reasons))
	}

	byID := make(map[string]recipe.Recipe, len(candidates))
	for _, c := range candidates {
		byID[c.ID.String()] = c
	}

	ranked := make([]recipe.Recipe, 0, rankedLimit)
	for _, id := range result.RankedIDs {
		c, ok := byID[id]
		if !ok {
			// The model sometimes hallucinates ids; drop them.
			r.logger.Debug("ranked id not among candidates",
				zap.Error(apperrors.NewRecipeNotFoundError(id)))
			continue
		}
		ranked = append(ranked, c)
		if len(ranked) == rankedLimit {
			break
		}
	}

	// A ranking that matched nothing is as useless as no ranking at all.
	if len(ranked) == 0 {
		recommendFallbackTotal.WithLabelValues("ranking_error").Inc()
		return topN(candidates, rankedLimit), result.Gaps
	}

	return ranked, result.Gaps
}

// fillGaps backfills 1-2 recipes for reported gaps. Failures are swallowed;
// the previously computed ranked list is still returned.
func (r *Recommender) fillGaps(ctx context.Context, gaps []string, cmd inbound.RecommendCommand) []recipe.Recipe {
	generated, err := r.generator.GenerateForGaps(ctx, gaps, cmd.ContextType, cmd.ContextID, cmd.TrackCode, cmd.UserID)
	if err != nil {
		r.logger.Warn("gap backfill failed, returning ranked list unchanged",
			zap.Strings("gaps", gaps),
			zap.Error(err))
		gapFillFailureTotal.Inc()
		return nil
	}
	return generated
}

func topN(candidates []recipe.Recipe, n int) []recipe.Recipe {
	if len(candidates) > n {
		return candidates[:n]
	}
	return candidates
}

func candidateCacheKey(track string) string {
	return "recipes:candidates:" + track
}
