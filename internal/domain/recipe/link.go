package recipe

import "github.com/google/uuid"

// ContextType identifies what kind of training context a recipe is linked to
type ContextType string

const (
	ContextMission ContextType = "mission"
	ContextModule  ContextType = "module"
)

// Valid reports whether the context type is known
func (t ContextType) Valid() bool {
	return t == ContextMission || t == ContextModule
}

// ContextLink relates a persisted recipe to a mission or module. The
// position order defaults to the recipe's insertion index within the batch
// that created it.
type ContextLink struct {
	RecipeID      uuid.UUID   `json:"recipe_id"`
	ContextType   ContextType `json:"context_type"`
	ContextID     string      `json:"context_id"`
	PositionOrder int         `json:"position_order"`
}

// NewContextLinks builds one link per saved recipe, ordered to mirror the
// saved records, with position order set to the insertion index.
func NewContextLinks(recipes []Recipe, contextType ContextType, contextID string) []ContextLink {
	links := make([]ContextLink, len(recipes))
	for i, r := range recipes {
		links[i] = ContextLink{
			RecipeID:      r.ID,
			ContextType:   contextType,
			ContextID:     contextID,
			PositionOrder: i,
		}
	}
	return links
}

// RankingResult is the ephemeral outcome of asking the primary model to
// rank candidate recipes for a context
type RankingResult struct {
	RankedIDs []string          `json:"ranked_ids"`
	Gaps      []string          `json:"gaps"`
	Reasons   map[string]string `json:"reasons"`
}
