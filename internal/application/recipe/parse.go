package recipe

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/ongoza/cyberhub/internal/domain/recipe"
	apperrors "github.com/ongoza/cyberhub/pkg/errors"
)

var errNoJSON = errors.New("no valid JSON found in response")

// extractJSON cuts the substring between the first open and last close
// delimiter. Models sometimes wrap JSON in prose or markdown fences.
func extractJSON(response string, open, closing byte) (string, error) {
	response = strings.TrimSpace(response)
	start := strings.IndexByte(response, open)
	end := strings.LastIndexByte(response, closing)
	if start == -1 || end == -1 || end <= start {
		return "", errNoJSON
	}
	return response[start : end+1], nil
}

// parseDraftArray parses assistant output as a non-empty array of recipe
// drafts. An empty array is a parse failure: it triggers the same fallback
// as malformed JSON.
func parseDraftArray(provider, response string) ([]recipe.RecipeDraft, error) {
	jsonStr, err := extractJSON(response, '[', ']')
	if err != nil {
		return nil, apperrors.NewParseError(provider, err)
	}

	var drafts []recipe.RecipeDraft
	if err := json.Unmarshal([]byte(jsonStr), &drafts); err != nil {
		return nil, apperrors.NewParseError(provider, err)
	}
	if len(drafts) == 0 {
		return nil, apperrors.NewParseError(provider, errors.New("empty recipe array"))
	}
	return drafts, nil
}

// validationVerdict is the strict shape demanded from the validator model
type validationVerdict struct {
	Validated bool     `json:"validated"`
	Issues    []string `json:"issues"`
}

// parseValidationVerdict parses the validator model's JSON object. A missing
// "validated" field defaults to false via the zero value.
func parseValidationVerdict(provider, response string) (*validationVerdict, error) {
	jsonStr, err := extractJSON(response, '{', '}')
	if err != nil {
		return nil, apperrors.NewParseError(provider, err)
	}

	var verdict validationVerdict
	if err := json.Unmarshal([]byte(jsonStr), &verdict); err != nil {
		return nil, apperrors.NewParseError(provider, err)
	}
	return &verdict, nil
}

// parseRankingResult parses the strict ranking JSON object
func parseRankingResult(provider, response string) (*recipe.RankingResult, error) {
	jsonStr, err := extractJSON(response, '{', '}')
	if err != nil {
		return nil, apperrors.NewParseError(provider, err)
	}

	var result recipe.RankingResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, apperrors.NewParseError(provider, err)
	}
	return &result, nil
}
