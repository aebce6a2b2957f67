package outbound

import (
	"context"
	"time"

	"github.com/ongoza/cyberhub/internal/domain/recipe"
	"github.com/ongoza/cyberhub/internal/domain/training"
)

// RecipeRepository defines the persistence bridge for recipes and their
// context links. Recipes and links are two independent writes; callers
// create links only when the save returned at least one record.
type RecipeRepository interface {
	// SaveRecipes persists validated recipes and returns the saved records
	// in insertion order.
	SaveRecipes(ctx context.Context, recipes []recipe.ValidatedRecipe) ([]recipe.Recipe, error)

	// CreateContextLinks persists links relating saved recipes to a context.
	CreateContextLinks(ctx context.Context, links []recipe.ContextLink) error

	// FindCandidates returns active recipes for a track ordered by average
	// rating descending, capped to limit.
	FindCandidates(ctx context.Context, track string, limit int) ([]recipe.Recipe, error)
}

// ContextRepository reads mission and curriculum module records owned by the
// upstream platform backend.
type ContextRepository interface {
	FindContext(ctx context.Context, contextType recipe.ContextType, contextID string) (*training.Context, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
