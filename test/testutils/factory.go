// Package testutils provides deterministic test data factories for the
// recipe pipeline test suites.
package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/ongoza/cyberhub/internal/domain/recipe"
	"github.com/ongoza/cyberhub/internal/domain/training"
)

// RecipeFactory builds seeded, realistic recipe test data
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a factory with a fixed seed for reproducible data
func NewRecipeFactory(seed uint64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(int64(seed)),
	}
}

// Draft builds a structurally valid recipe draft for a track
func (f *RecipeFactory) Draft(track string) recipe.RecipeDraft {
	title := fmt.Sprintf("%s %s Walkthrough", f.faker.HackerVerb(), f.faker.HackerNoun())
	return recipe.RecipeDraft{
		Title:            title,
		Slug:             recipe.Slugify(title),
		Summary:          f.faker.Sentence(8),
		Difficulty:       recipe.DifficultyIntermediate,
		EstimatedMinutes: f.faker.Number(recipe.MinEstimatedMinutes, recipe.MaxEstimatedMinutes),
		TrackCodes:       []string{track},
		SkillCodes:       []string{f.faker.HackerAbbreviation()},
		ToolsUsed:        []string{"nmap"},
		Content: recipe.Content{
			Sections: []recipe.Section{
				{
					Type:    recipe.SectionIntro,
					Title:   "Overview",
					Content: f.faker.Sentence(10),
				},
				{
					Type: recipe.SectionSteps,
					Steps: []recipe.Step{
						{
							Step:        1,
							Title:       "Scan the target",
							Commands:    []string{"nmap -sV 10.0.0.5"},
							Explanation: f.faker.Sentence(6),
						},
					},
				},
				{
					Type:     recipe.SectionValidation,
					Commands: []string{"grep open scan.txt"},
				},
			},
		},
	}
}

// Recipe builds a persisted recipe with a rating, for recommendation tests
func (f *RecipeFactory) Recipe(track string, rating float64) recipe.Recipe {
	draft := f.Draft(track)
	return recipe.Recipe{
		ID:               uuid.New(),
		Title:            draft.Title,
		Slug:             draft.Slug,
		Summary:          draft.Summary,
		Difficulty:       draft.Difficulty,
		EstimatedMinutes: draft.EstimatedMinutes,
		TrackCodes:       draft.TrackCodes,
		SkillCodes:       draft.SkillCodes,
		ToolsUsed:        draft.ToolsUsed,
		Content:          draft.Content,
		Validated:        true,
		CreatedBy:        uuid.New().String(),
		IsActive:         true,
		AvgRating:        rating,
		UsageCount:       f.faker.Number(0, 100),
	}
}

// Context builds a mission training context
func (f *RecipeFactory) Context(id string) training.Context {
	return training.Context{
		ID:             id,
		Type:           string(recipe.ContextMission),
		Title:          fmt.Sprintf("Investigate %s", f.faker.HackerNoun()),
		Instructions:   f.faker.Paragraph(1, 3, 8, " "),
		Skills:         []string{"log-analysis", "network-forensics"},
		CommonFailures: []string{"skipping packet capture filters"},
	}
}
