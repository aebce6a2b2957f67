package gorm

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ongoza/cyberhub/internal/domain/recipe"
)

// toRecipeModel converts a validated recipe to its database model
func toRecipeModel(r recipe.ValidatedRecipe) (RecipeModel, error) {
	content, err := json.Marshal(r.Content)
	if err != nil {
		return RecipeModel{}, err
	}

	return RecipeModel{
		ID:               r.ID.String(),
		Title:            r.Title,
		Slug:             r.Slug,
		Summary:          r.Summary,
		Difficulty:       string(r.Difficulty),
		EstimatedMinutes: r.EstimatedMinutes,
		TrackCodes:       marshalStrings(r.TrackCodes),
		SkillCodes:       marshalStrings(r.SkillCodes),
		ToolsUsed:        marshalStrings(r.ToolsUsed),
		Content:          string(content),
		Validated:        r.Validated,
		CreatedBy:        r.CreatedBy,
		IsActive:         r.IsActive,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        time.Now(),
	}, nil
}

// toDomainRecipe converts a database model to the domain recipe
func toDomainRecipe(m RecipeModel) (recipe.Recipe, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return recipe.Recipe{}, err
	}

	var content recipe.Content
	if err := json.Unmarshal([]byte(m.Content), &content); err != nil {
		return recipe.Recipe{}, err
	}

	return recipe.Recipe{
		ID:               id,
		Title:            m.Title,
		Slug:             m.Slug,
		Summary:          m.Summary,
		Difficulty:       recipe.Difficulty(m.Difficulty),
		EstimatedMinutes: m.EstimatedMinutes,
		TrackCodes:       unmarshalStrings(m.TrackCodes),
		SkillCodes:       unmarshalStrings(m.SkillCodes),
		ToolsUsed:        unmarshalStrings(m.ToolsUsed),
		Content:          content,
		Validated:        m.Validated,
		CreatedBy:        m.CreatedBy,
		IsActive:         m.IsActive,
		AvgRating:        m.AvgRating,
		UsageCount:       m.UsageCount,
		CreatedAt:        m.CreatedAt,
	}, nil
}

// toLinkModel converts a context link to its database model
func toLinkModel(l recipe.ContextLink) ContextLinkModel {
	return ContextLinkModel{
		ID:            uuid.New().String(),
		RecipeID:      l.RecipeID.String(),
		ContextType:   string(l.ContextType),
		ContextID:     l.ContextID,
		PositionOrder: l.PositionOrder,
		CreatedAt:     time.Now(),
	}
}

func marshalStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return string(data)
}

func unmarshalStrings(data string) []string {
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return []string{}
	}
	return values
}
