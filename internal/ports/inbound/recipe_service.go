// Package inbound defines the interfaces for inbound ports (primary/driving
// adapters). HTTP handlers depend on these, not on the application structs.
package inbound

import (
	"context"

	"github.com/ongoza/cyberhub/internal/domain/recipe"
)

// GenerateCommand requests recipe generation for a training context
type GenerateCommand struct {
	ContextType recipe.ContextType
	ContextID   string
	TrackCode   string
	UserID      string
}

// RecommendCommand requests ranked recipe recommendations for a context
type RecommendCommand struct {
	ContextType recipe.ContextType
	ContextID   string
	TrackCode   string
	UserID      string
}

// Recommendation is the recommend operation result. Message is set only when
// no candidates exist for the track.
type Recommendation struct {
	Recipes []recipe.Recipe `json:"recommendations"`
	Message string          `json:"message,omitempty"`
}

// RecipeService drives the AI recipe pipeline
type RecipeService interface {
	// GenerateForContext produces validated, persisted recipes for a context.
	// The result is never empty: the fallback chain bottoms out at a
	// deterministic placeholder. Only persistence failures propagate.
	GenerateForContext(ctx context.Context, cmd GenerateCommand) ([]recipe.Recipe, error)

	// Recommend returns a ranked, possibly gap-filled recipe list. Once
	// candidates exist, ranking failures degrade to rating order instead of
	// erroring.
	Recommend(ctx context.Context, cmd RecommendCommand) (*Recommendation, error)
}
