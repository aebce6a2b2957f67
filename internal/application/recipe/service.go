package recipe

import (
	"context"

	"github.com/ongoza/cyberhub/internal/domain/recipe"
	"github.com/ongoza/cyberhub/internal/infrastructure/config"
	"github.com/ongoza/cyberhub/internal/ports/inbound"
	"github.com/ongoza/cyberhub/internal/ports/outbound"
	apperrors "github.com/ongoza/cyberhub/pkg/errors"
	"go.uber.org/zap"
)

// Service wires the generation and recommendation orchestrators behind the
// inbound RecipeService port
type Service struct {
	cfg         config.AIConfig
	contexts    outbound.ContextRepository
	generator   *Generator
	recommender *Recommender
	logger      *zap.Logger
}

// NewService creates the recipe application service
func NewService(
	cfg config.AIConfig,
	contexts outbound.ContextRepository,
	generator *Generator,
	recommender *Recommender,
	logger *zap.Logger,
) *Service {
	return &Service{
		cfg:         cfg,
		contexts:    contexts,
		generator:   generator,
		recommender: recommender,
		logger:      logger.Named("recipe-service"),
	}
}

var _ inbound.RecipeService = (*Service)(nil)

// GenerateForContext produces validated, persisted recipes for a context.
// AI credentials are checked per request before any network call.
func (s *Service) GenerateForContext(ctx context.Context, cmd inbound.GenerateCommand) ([]recipe.Recipe, error) {
	if err := s.checkAIConfig(); err != nil {
		return nil, err
	}
	if !cmd.ContextType.Valid() {
		return nil, apperrors.NewBadRequestError(recipe.ErrInvalidContextType.Error())
	}

	tc, err := s.contexts.FindContext(ctx, cmd.ContextType, cmd.ContextID)
	if err != nil {
		return nil, apperrors.NewContextNotFoundError(string(cmd.ContextType), cmd.ContextID).WithCause(err)
	}

	s.logger.Info("generating recipes",
		zap.String("context_type", string(cmd.ContextType)),
		zap.String("context_id", cmd.ContextID),
		zap.String("track", cmd.TrackCode),
		zap.String("user_id", cmd.UserID),
	)

	return s.generator.Generate(ctx, *tc, cmd.ContextType, cmd.ContextID, cmd.TrackCode, cmd.UserID)
}

// Recommend returns a ranked, possibly gap-filled recipe list for a context
func (s *Service) Recommend(ctx context.Context, cmd inbound.RecommendCommand) (*inbound.Recommendation, error) {
	if err := s.checkAIConfig(); err != nil {
		return nil, err
	}
	if !cmd.ContextType.Valid() {
		return nil, apperrors.NewBadRequestError(recipe.ErrInvalidContextType.Error())
	}

	s.logger.Info("recommending recipes",
		zap.String("context_type", string(cmd.ContextType)),
		zap.String("context_id", cmd.ContextID),
		zap.String("track", cmd.TrackCode),
		zap.String("user_id", cmd.UserID),
	)

	return s.recommender.Recommend(ctx, cmd)
}

// checkAIConfig fails fast with a configuration error before any network
// call when provider settings are absent
func (s *Service) checkAIConfig() error {
	if s.cfg.GrokAPIKey == "" {
		return apperrors.NewConfigError("ai.grok_api_key")
	}
	if s.cfg.OllamaEndpoint == "" {
		return apperrors.NewConfigError("ai.ollama_endpoint")
	}
	return nil
}
