package gorm

import (
	"context"
	"fmt"

	"github.com/ongoza/cyberhub/internal/domain/recipe"
	"github.com/ongoza/cyberhub/internal/ports/outbound"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecipeRepository implements outbound.RecipeRepository on GORM
type RecipeRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRecipeRepository creates a GORM-backed recipe repository
func NewRecipeRepository(db *gorm.DB, logger *zap.Logger) *RecipeRepository {
	return &RecipeRepository{
		db:     db,
		logger: logger.Named("recipe-repository"),
	}
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// SaveRecipes persists a batch of validated recipes in one transaction and
// returns the saved records in insertion order.
func (r *RecipeRepository) SaveRecipes(ctx context.Context, records []recipe.ValidatedRecipe) ([]recipe.Recipe, error) {
	if len(records) == 0 {
		return []recipe.Recipe{}, nil
	}

	models := make([]RecipeModel, len(records))
	for i, rec := range records {
		model, err := toRecipeModel(rec)
		if err != nil {
			return nil, fmt.Errorf("encode recipe %q: %w", rec.Slug, err)
		}
		models[i] = model
	}

	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return nil, fmt.Errorf("insert recipes: %w", err)
	}

	saved := make([]recipe.Recipe, len(models))
	for i, m := range models {
		rec, err := toDomainRecipe(m)
		if err != nil {
			return nil, fmt.Errorf("decode saved recipe %q: %w", m.Slug, err)
		}
		saved[i] = rec
	}

	r.logger.Debug("recipes saved", zap.Int("count", len(saved)))
	return saved, nil
}

// CreateContextLinks persists recipe-to-context links. Independent of the
// recipe insert: a failure here does not roll back saved recipes.
func (r *RecipeRepository) CreateContextLinks(ctx context.Context, links []recipe.ContextLink) error {
	if len(links) == 0 {
		return nil
	}

	models := make([]ContextLinkModel, len(links))
	for i, l := range links {
		models[i] = toLinkModel(l)
	}

	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return fmt.Errorf("insert context links: %w", err)
	}

	r.logger.Debug("context links created", zap.Int("count", len(models)))
	return nil
}

// FindCandidates returns active recipes for a track ordered by average rating
// descending, capped to limit. Recipes without at least one context link are
// not candidates.
func (r *RecipeRepository) FindCandidates(ctx context.Context, track string, limit int) ([]recipe.Recipe, error) {
	var models []RecipeModel

	// track_codes is a JSON-encoded string array, so membership is a
	// substring match on the quoted code. Portable across Postgres and the
	// SQLite databases used in tests.
	trackPattern := fmt.Sprintf(`%%"%s"%%`, track)

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("track_codes LIKE ?", trackPattern).
		Where("EXISTS (SELECT 1 FROM recipe_context_links l WHERE l.recipe_id = recipes.id)").
		Order("avg_rating DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("query candidates for track %q: %w", track, err)
	}

	candidates := make([]recipe.Recipe, 0, len(models))
	for _, m := range models {
		rec, err := toDomainRecipe(m)
		if err != nil {
			r.logger.Warn("skipping undecodable recipe row",
				zap.String("id", m.ID),
				zap.Error(err))
			continue
		}
		candidates = append(candidates, rec)
	}

	return candidates, nil
}
