// Package recipe contains the core domain model for CyberHub training
// recipes: structured, step-by-step command guides generated for a mission
// or curriculum module and scoped to a curriculum track.
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty classifies how advanced a recipe is
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether the difficulty is a known level
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// SectionType tags the variant of a content section
type SectionType string

const (
	SectionIntro         SectionType = "intro"
	SectionPrerequisites SectionType = "prerequisites"
	SectionSteps         SectionType = "steps"
	SectionValidation    SectionType = "validation"
)

// Step is a single numbered action within a steps section
type Step struct {
	Step        int      `json:"step"`
	Title       string   `json:"title"`
	Commands    []string `json:"commands"`
	Explanation string   `json:"explanation"`
}

// Section is a tagged content variant. Which fields are populated depends
// on Type: intro uses Title/Content, prerequisites uses Items, steps uses
// Steps, validation uses Commands.
type Section struct {
	Type     SectionType `json:"type"`
	Title    string      `json:"title,omitempty"`
	Content  string      `json:"content,omitempty"`
	Items    []string    `json:"items,omitempty"`
	Steps    []Step      `json:"steps,omitempty"`
	Commands []string    `json:"commands,omitempty"`
}

// Content is the ordered section list making up a recipe body
type Content struct {
	Sections []Section `json:"sections"`
}

// HasSteps reports whether the content contains at least one steps section
// with a non-empty step list. This is the heuristic validity check used when
// the validator model is unavailable.
func (c Content) HasSteps() bool {
	for _, s := range c.Sections {
		if s.Type == SectionSteps && len(s.Steps) > 0 {
			return true
		}
	}
	return false
}

// RecipeDraft is an in-memory recipe that has not been persisted yet. Its
// JSON shape is the contract demanded from the LLM providers.
type RecipeDraft struct {
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Summary          string     `json:"summary"`
	Difficulty       Difficulty `json:"difficulty"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	TrackCodes       []string   `json:"track_codes"`
	SkillCodes       []string   `json:"skill_codes"`
	ToolsUsed        []string   `json:"tools_used"`
	Content          Content    `json:"content"`
}

// Validate checks the structural invariants of a draft
func (d *RecipeDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if len(d.Content.Sections) == 0 {
		return ErrNoSections
	}
	if !d.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}
	if d.EstimatedMinutes < MinEstimatedMinutes || d.EstimatedMinutes > MaxEstimatedMinutes {
		return ErrInvalidMinutes
	}
	return nil
}

// Normalize fills derivable fields the model may have omitted. A missing
// slug is derived from the title; a track list that lacks the requested
// track gets it appended.
func (d *RecipeDraft) Normalize(track string) {
	if d.Slug == "" {
		d.Slug = Slugify(d.Title)
	}
	for _, t := range d.TrackCodes {
		if t == track {
			return
		}
	}
	d.TrackCodes = append(d.TrackCodes, track)
}

// Estimated duration bounds for a recipe, in minutes
const (
	MinEstimatedMinutes = 5
	MaxEstimatedMinutes = 45
)

// ValidatedRecipe is a draft that has passed through the validation stage
// and is ready for persistence
type ValidatedRecipe struct {
	RecipeDraft
	ID        uuid.UUID `json:"id"`
	Validated bool      `json:"validated"`
	CreatedBy string    `json:"created_by"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewValidatedRecipe attaches validation outcome and ownership to a draft
func NewValidatedRecipe(draft RecipeDraft, validated bool, createdBy string) ValidatedRecipe {
	return ValidatedRecipe{
		RecipeDraft: draft,
		ID:          uuid.New(),
		Validated:   validated,
		CreatedBy:   createdBy,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
}

// Recipe is a persisted recipe as seen by the recommendation read path,
// including the rating and usage aggregates maintained by the backing store.
type Recipe struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Summary          string     `json:"summary"`
	Difficulty       Difficulty `json:"difficulty"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	TrackCodes       []string   `json:"track_codes"`
	SkillCodes       []string   `json:"skill_codes"`
	ToolsUsed        []string   `json:"tools_used"`
	Content          Content    `json:"content"`
	Validated        bool       `json:"validated"`
	CreatedBy        string     `json:"created_by"`
	IsActive         bool       `json:"is_active"`
	AvgRating        float64    `json:"avg_rating"`
	UsageCount       int        `json:"usage_count"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewPlaceholder synthesizes the deterministic single-step recipe used when
// every provider in the fallback chain has failed. The slug keeps the raw
// lowercased track string; uniqueness is owned by the store's constraint.
func NewPlaceholder(track string) RecipeDraft {
	return RecipeDraft{
		Title:            "Basic " + track + " Recipe",
		Slug:             "basic-" + strings.ToLower(track) + "-recipe",
		Summary:          "A starter recipe for the " + track + " track.",
		Difficulty:       DifficultyBeginner,
		EstimatedMinutes: MinEstimatedMinutes,
		TrackCodes:       []string{track},
		SkillCodes:       []string{},
		ToolsUsed:        []string{},
		Content: Content{
			Sections: []Section{
				{
					Type: SectionSteps,
					Steps: []Step{
						{
							Step:        1,
							Title:       "Review track fundamentals",
							Commands:    []string{"echo 'Review the " + track + " track fundamentals'"},
							Explanation: "Walk through the core concepts for this track before attempting advanced recipes.",
						},
					},
				},
				{
					Type:     SectionValidation,
					Commands: []string{"echo 'done'"},
				},
			},
		},
	}
}

// Slugify derives a kebab-case slug from a recipe title
func Slugify(title string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
