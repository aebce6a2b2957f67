// Package recipe provides the application layer driving the AI recipe
// pipeline: prompt construction, generation with provider fallback,
// validation, and recommendation ranking.
package recipe

import (
	"fmt"
	"strings"

	"github.com/ongoza/cyberhub/internal/domain/recipe"
	"github.com/ongoza/cyberhub/internal/domain/training"
)

// generationSystemPrompt is the fixed instruction demanding a JSON array of
// recipe objects matching the draft shape.
const generationSystemPrompt = `You are a cybersecurity training content developer. Create practical, hands-on recipes: step-by-step command guides a learner can execute.

CRITICAL: Respond with ONLY a valid JSON array of recipe objects in this exact format:
[
  {
    "title": "Recipe Name",
    "slug": "recipe-name",
    "summary": "One-sentence summary of what the learner accomplishes",
    "difficulty": "beginner|intermediate|advanced",
    "estimated_minutes": 20,
    "track_codes": ["track"],
    "skill_codes": ["skill-code"],
    "tools_used": ["tool"],
    "content": {
      "sections": [
        {"type": "intro", "title": "Overview", "content": "What this recipe covers"},
        {"type": "prerequisites", "items": ["requirement 1"]},
        {"type": "steps", "steps": [
          {"step": 1, "title": "Step title", "commands": ["command --flag"], "explanation": "Why this step matters"}
        ]},
        {"type": "validation", "commands": ["command to verify success"]}
      ]
    }
  }
]

Remember: Respond with ONLY valid JSON. No additional text, explanations, or formatting.`

// qualityConstraints is the fixed block of requirements embedded into every
// generation prompt.
const qualityConstraints = `Quality requirements:
- Every step must include actionable, copy-pasteable commands
- Recipes must be specific to the requested track
- Include a validation section with commands that verify the outcome
- Be security-aware: never include destructive or credential-leaking commands
- Scope each recipe to 5-45 minutes of hands-on work`

// BuildGenerationPrompt assembles the user prompt requesting 3-5 recipes for
// a training context and track. Pure string formatting; identical inputs
// yield byte-identical output.
func BuildGenerationPrompt(tc training.Context, track string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create 3-5 recipes for the %q track based on this %s:\n\n", track, tc.Type)
	b.WriteString(tc.Summary())
	b.WriteString("\n")
	b.WriteString(qualityConstraints)
	return b.String()
}

// BuildGapGenerationPrompt assembles the user prompt for gap backfilling,
// naming the reported capability gaps instead of the generic context.
func BuildGapGenerationPrompt(gaps []string, track string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create 1-2 recipes for the %q track that address these capability gaps:\n\n", track)
	for _, gap := range gaps {
		b.WriteString("- " + gap + "\n")
	}
	b.WriteString("\n")
	b.WriteString(qualityConstraints)
	return b.String()
}

// BuildFallbackPrompt assembles the simplified single-string prompt for the
// secondary provider, which takes no separate system message.
func BuildFallbackPrompt(focus, track string) string {
	var b strings.Builder
	b.WriteString(generationSystemPrompt)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Create 3-5 recipes for the %q track. Focus: %s\n", track, focus)
	return b.String()
}

// BuildValidationPrompt assembles the prompt asking a code-oriented model to
// assess command safety and syntax for serialized recipe sections.
func BuildValidationPrompt(sectionsJSON string) string {
	var b strings.Builder
	b.WriteString("You are a command-line safety and syntax reviewer. Assess the commands in these recipe sections:\n\n")
	b.WriteString(sectionsJSON)
	b.WriteString("\n\nCheck that commands are syntactically valid, non-destructive, and match their explanations.\n")
	b.WriteString(`Respond with ONLY this JSON object: {"validated": true|false, "issues": ["issue description"]}`)
	return b.String()
}

// BuildRankingPrompt assembles the prompt listing candidate summaries and
// context data, requiring a strict ranking JSON object.
func BuildRankingPrompt(candidates []recipe.Recipe, tc training.Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rank these recipes by relevance to the following %s, most relevant first.\n\n", tc.Type)
	b.WriteString(tc.Summary())
	b.WriteString("\nCandidate recipes:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- id=%s title=%q difficulty=%s avg_rating=%.1f usage_count=%d\n",
			c.ID, c.Title, c.Difficulty, c.AvgRating, c.UsageCount)
	}
	b.WriteString("\nAlso identify capability areas the context requires that no candidate covers.\n")
	b.WriteString(`Respond with ONLY this JSON object: {"ranked_ids": ["id"], "gaps": ["capability gap"], "reasons": {"id": "rationale"}}`)
	return b.String()
}
