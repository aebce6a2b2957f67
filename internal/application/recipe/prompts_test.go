package recipe

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ongoza/cyberhub/internal/domain/recipe"
	"github.com/ongoza/cyberhub/internal/domain/training"
	"github.com/stretchr/testify/assert"
)

func promptContext() training.Context {
	return training.Context{
		ID:             "m-12",
		Type:           "mission",
		Title:          "Trace the beacon",
		Instructions:   "Identify the C2 callback interval from the packet capture.",
		Skills:         []string{"pcap-analysis", "dns-tunneling"},
		CommonFailures: []string{"filtering only on port 80"},
	}
}

func TestBuildGenerationPrompt(t *testing.T) {
	t.Run("SameInputs_ShouldBeByteIdentical", func(t *testing.T) {
		tc := promptContext()

		first := BuildGenerationPrompt(tc, "defender")
		second := BuildGenerationPrompt(tc, "defender")

		assert.Equal(t, first, second)
	})

	t.Run("Prompt_ShouldEmbedContextAndTrack", func(t *testing.T) {
		prompt := BuildGenerationPrompt(promptContext(), "defender")

		assert.Contains(t, prompt, `"defender"`)
		assert.Contains(t, prompt, "Trace the beacon")
		assert.Contains(t, prompt, "pcap-analysis")
		assert.Contains(t, prompt, "filtering only on port 80")
		assert.Contains(t, prompt, "validation section")
	})
}

func TestBuildGapGenerationPrompt(t *testing.T) {
	prompt := BuildGapGenerationPrompt([]string{"memory forensics", "yara rules"}, "defender")

	assert.Contains(t, prompt, "1-2 recipes")
	assert.Contains(t, prompt, "- memory forensics\n")
	assert.Contains(t, prompt, "- yara rules\n")
	assert.Contains(t, prompt, `"defender"`)
}

func TestBuildFallbackPrompt(t *testing.T) {
	prompt := BuildFallbackPrompt("Trace the beacon", "defender")

	// The secondary provider takes no separate system message, so the JSON
	// contract must be embedded into the single prompt string.
	assert.Contains(t, prompt, "ONLY a valid JSON array")
	assert.Contains(t, prompt, "Focus: Trace the beacon")
}

func TestBuildValidationPrompt(t *testing.T) {
	prompt := BuildValidationPrompt(`[{"type":"steps"}]`)

	assert.Contains(t, prompt, `[{"type":"steps"}]`)
	assert.Contains(t, prompt, `{"validated": true|false`)
}

func TestBuildRankingPrompt(t *testing.T) {
	id := uuid.New()
	candidates := []recipe.Recipe{
		{ID: id, Title: "Capture DNS traffic", Difficulty: recipe.DifficultyBeginner, AvgRating: 4.5, UsageCount: 12},
	}

	prompt := BuildRankingPrompt(candidates, promptContext())

	assert.Contains(t, prompt, "id="+id.String())
	assert.Contains(t, prompt, `title="Capture DNS traffic"`)
	assert.Contains(t, prompt, "avg_rating=4.5")
	assert.Contains(t, prompt, `"ranked_ids"`)
	assert.Contains(t, prompt, `"gaps"`)
}
