package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ongoza/cyberhub/internal/domain/recipe"
	"github.com/ongoza/cyberhub/internal/domain/training"
	"github.com/ongoza/cyberhub/internal/ports/outbound"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContextRepository reads mission and curriculum module records. These tables
// are owned by the platform backend; this repository never writes them.
type ContextRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewContextRepository creates a GORM-backed training context repository
func NewContextRepository(db *gorm.DB, logger *zap.Logger) *ContextRepository {
	return &ContextRepository{
		db:     db,
		logger: logger.Named("context-repository"),
	}
}

var _ outbound.ContextRepository = (*ContextRepository)(nil)

// FindContext loads a mission or curriculum module as a training context
func (r *ContextRepository) FindContext(ctx context.Context, contextType recipe.ContextType, contextID string) (*training.Context, error) {
	switch contextType {
	case recipe.ContextMission:
		return r.findMission(ctx, contextID)
	case recipe.ContextModule:
		return r.findModule(ctx, contextID)
	default:
		return nil, fmt.Errorf("unknown context type %q", contextType)
	}
}

func (r *ContextRepository) findMission(ctx context.Context, id string) (*training.Context, error) {
	var model MissionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("mission %q not found", id)
		}
		return nil, fmt.Errorf("load mission %q: %w", id, err)
	}

	return &training.Context{
		ID:             model.ID,
		Type:           string(recipe.ContextMission),
		Title:          model.Title,
		Instructions:   model.Instructions,
		Skills:         unmarshalStrings(model.RequiredSkills),
		CommonFailures: unmarshalStrings(model.CommonFailures),
	}, nil
}

func (r *ContextRepository) findModule(ctx context.Context, id string) (*training.Context, error) {
	var model ModuleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("module %q not found", id)
		}
		return nil, fmt.Errorf("load module %q: %w", id, err)
	}

	return &training.Context{
		ID:             model.ID,
		Type:           string(recipe.ContextModule),
		Title:          model.Title,
		Instructions:   model.Description,
		Skills:         unmarshalStrings(model.LearningObjectives),
		CommonFailures: unmarshalStrings(model.CommonFailures),
	}, nil
}
