package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ongoza/cyberhub/internal/domain/recipe"
	"github.com/ongoza/cyberhub/internal/ports/inbound"
	apperrors "github.com/ongoza/cyberhub/pkg/errors"
	"github.com/ongoza/cyberhub/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// RecommenderTestSuite exercises the recommendation pipeline with scripted
// ranking replies
type RecommenderTestSuite struct {
	suite.Suite
	factory *testutils.RecipeFactory
}

func (suite *RecommenderTestSuite) SetupSuite() {
	suite.factory = testutils.NewRecipeFactory(7)
}

func (suite *RecommenderTestSuite) command() inbound.RecommendCommand {
	return inbound.RecommendCommand{
		ContextType: recipe.ContextMission,
		ContextID:   "m-1",
		TrackCode:   "defender",
		UserID:      "user-9",
	}
}

func (suite *RecommenderTestSuite) contextRepo() *fakeContexts {
	tc := suite.factory.Context("m-1")
	return &fakeContexts{tc: &tc}
}

// candidates builds n rated candidates in descending rating order, the order
// the repository query guarantees
func (suite *RecommenderTestSuite) candidates(n int) []recipe.Recipe {
	out := make([]recipe.Recipe, n)
	for i := range out {
		out[i] = suite.factory.Recipe("defender", 5.0-float64(i)*0.3)
	}
	return out
}

// deadGenerator builds a generator whose every provider fails and whose
// repository rejects writes, so gap fill always errors
func deadGenerator() *Generator {
	failing := errors.New("provider down")
	chat := &fakeChat{replies: []reply{{err: failing}}}
	completion := &fakeCompletion{replies: []reply{{err: failing}}}
	validator := NewValidator(completion, "codellama:7b", zap.NewNop())
	repo := &fakeRepo{failSave: errors.New("read-only replica")}
	return NewGenerator(chat, completion, validator, repo, newFakeCache(), 5, zap.NewNop())
}

// workingGenerator builds a generator that produces drafts from its primary
// provider and persists them to its own repository
func (suite *RecommenderTestSuite) workingGenerator(draftCount int) *Generator {
	drafts := make([]recipe.RecipeDraft, draftCount)
	for i := range drafts {
		drafts[i] = suite.factory.Draft("defender")
	}
	data, err := json.Marshal(drafts)
	require.NoError(suite.T(), err)

	chat := &fakeChat{replies: []reply{{content: string(data)}}}
	completion := &fakeCompletion{replies: []reply{{err: errors.New("validator down")}}}
	validator := NewValidator(completion, "codellama:7b", zap.NewNop())
	return NewGenerator(chat, completion, validator, &fakeRepo{}, newFakeCache(), 5, zap.NewNop())
}

func (suite *RecommenderTestSuite) newRecommender(
	repo *fakeRepo,
	contexts *fakeContexts,
	chat *fakeChat,
	generator *Generator,
	cache *fakeCache,
) *Recommender {
	return NewRecommender(repo, contexts, chat, generator, cache, time.Minute, zap.NewNop())
}

func rankingReply(ids []string, gaps []string) string {
	payload := map[string]interface{}{
		"ranked_ids": ids,
		"gaps":       gaps,
		"reasons":    map[string]string{},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func (suite *RecommenderTestSuite) TestRecommend() {
	suite.Run("NoCandidates_ShouldReturnEmptyListWithMessage", func() {
		r := suite.newRecommender(&fakeRepo{}, suite.contextRepo(), &fakeChat{}, deadGenerator(), newFakeCache())

		result, err := r.Recommend(context.Background(), suite.command())

		require.NoError(suite.T(), err)
		assert.Empty(suite.T(), result.Recipes)
		assert.NotEmpty(suite.T(), result.Message)
	})

	suite.Run("RankingSucceeds_ShouldReturnModelOrder", func() {
		candidates := suite.candidates(4)
		reversed := []string{
			candidates[3].ID.String(),
			candidates[2].ID.String(),
			candidates[1].ID.String(),
			candidates[0].ID.String(),
		}
		chat := &fakeChat{replies: []reply{{content: rankingReply(reversed, nil)}}}
		r := suite.newRecommender(&fakeRepo{candidates: candidates}, suite.contextRepo(), chat, deadGenerator(), newFakeCache())

		result, err := r.Recommend(context.Background(), suite.command())

		require.NoError(suite.T(), err)
		require.Len(suite.T(), result.Recipes, 4)
		assert.Equal(suite.T(), candidates[3].ID, result.Recipes[0].ID)
		assert.Equal(suite.T(), candidates[0].ID, result.Recipes[3].ID)
		assert.Empty(suite.T(), result.Message)
	})

	suite.Run("RankingTooLong_ShouldCapAtFive", func() {
		candidates := suite.candidates(8)
		ids := make([]string, len(candidates))
		for i, c := range candidates {
			ids[i] = c.ID.String()
		}
		chat := &fakeChat{replies: []reply{{content: rankingReply(ids, nil)}}}
		r := suite.newRecommender(&fakeRepo{candidates: candidates}, suite.contextRepo(), chat, deadGenerator(), newFakeCache())

		result, err := r.Recommend(context.Background(), suite.command())

		require.NoError(suite.T(), err)
		assert.Len(suite.T(), result.Recipes, 5)
	})

	suite.Run("UnknownRankedIDs_ShouldBeDropped", func() {
		candidates := suite.candidates(2)
		ids := []string{"not-a-candidate", candidates[1].ID.String()}
		chat := &fakeChat{replies: []reply{{content: rankingReply(ids, nil)}}}
		core, logs := observer.New(zapcore.DebugLevel)
		r := NewRecommender(&fakeRepo{candidates: candidates}, suite.contextRepo(), chat, deadGenerator(), newFakeCache(), time.Minute, zap.New(core))

		result, err := r.Recommend(context.Background(), suite.command())

		require.NoError(suite.T(), err)
		require.Len(suite.T(), result.Recipes, 1)
		assert.Equal(suite.T(), candidates[1].ID, result.Recipes[0].ID)

		dropped := logs.FilterMessage("ranked id not among candidates").All()
		require.Len(suite.T(), dropped, 1)
		assert.Contains(suite.T(), dropped[0].ContextMap()["error"], "not-a-candidate")
	})

	suite.Run("RankingCallFails_ShouldFallBackToRatingOrder", func() {
		candidates := suite.candidates(7)
		chat := &fakeChat{replies: []reply{{err: apperrors.NewProviderError("grok", 503, "overloaded")}}}
		r := suite.newRecommender(&fakeRepo{candidates: candidates}, suite.contextRepo(), chat, deadGenerator(), newFakeCache())

		result, err := r.Recommend(context.Background(), suite.command())

		require.NoError(suite.T(), err)
		require.Len(suite.T(), result.Recipes, 5)
		for i := range result.Recipes {
			assert.Equal(suite.T(), candidates[i].ID, result.Recipes[i].ID)
		}
	})

	suite.Run("RankingUnparseable_ShouldFallBackToRatingOrder", func() {
		candidates := suite.candidates(3)
		chat := &fakeChat{replies: []reply{{content: "1. the best recipe\n2. another one"}}}
		r := suite.newRecommender(&fakeRepo{candidates: candidates}, suite.contextRepo(), chat, deadGenerator(), newFakeCache())

		result, err := r.Recommend(context.Background(), suite.command())

		require.NoError(suite.T(), err)
		assert.Len(suite.T(), result.Recipes, 3)
	})

	suite.Run("ContextFetchFails_ShouldFallBackToRatingOrder", func() {
		candidates := suite.candidates(3)
		contexts := &fakeContexts{fail: errors.New("mission table unavailable")}
		chat := &fakeChat{}
		r := suite.newRecommender(&fakeRepo{candidates: candidates}, contexts, chat, deadGenerator(), newFakeCache())

		result, err := r.Recommend(context.Background(), suite.command())

		require.NoError(suite.T(), err)
		assert.Len(suite.T(), result.Recipes, 3)
		assert.Equal(suite.T(), 0, chat.calls)
	})

	suite.Run("CandidateQueryFails_ShouldReturnPersistenceError", func() {
		repo := &fakeRepo{failFind: errors.New("connection refused")}
		r := suite.newRecommender(repo, suite.contextRepo(), &fakeChat{}, deadGenerator(), newFakeCache())

		_, err := r.Recommend(context.Background(), suite.command())

		require.Error(suite.T(), err)
		assert.True(suite.T(), apperrors.Is(err, apperrors.CodePersistence))
	})
}

func (suite *RecommenderTestSuite) TestGapFill() {
	suite.Run("GapsReported_ShouldPrependGapRecipes", func() {
		candidates := suite.candidates(3)
		ids := []string{candidates[0].ID.String(), candidates[1].ID.String()}
		chat := &fakeChat{replies: []reply{{content: rankingReply(ids, []string{"memory forensics"})}}}
		r := suite.newRecommender(&fakeRepo{candidates: candidates}, suite.contextRepo(), chat, suite.workingGenerator(2), newFakeCache())

		result, err := r.Recommend(context.Background(), suite.command())

		require.NoError(suite.T(), err)
		require.Len(suite.T(), result.Recipes, 4)
		// Gap recipes come first, then the ranked candidates.
		assert.Equal(suite.T(), candidates[0].ID, result.Recipes[2].ID)
		assert.Equal(suite.T(), candidates[1].ID, result.Recipes[3].ID)
	})

	suite.Run("GapFillFails_ShouldReturnRankedListUnchanged", func() {
		candidates := suite.candidates(2)
		ids := []string{candidates[0].ID.String(), candidates[1].ID.String()}
		chat := &fakeChat{replies: []reply{{content: rankingReply(ids, []string{"memory forensics"})}}}
		r := suite.newRecommender(&fakeRepo{candidates: candidates}, suite.contextRepo(), chat, deadGenerator(), newFakeCache())

		result, err := r.Recommend(context.Background(), suite.command())

		require.NoError(suite.T(), err)
		require.Len(suite.T(), result.Recipes, 2)
		assert.Equal(suite.T(), candidates[0].ID, result.Recipes[0].ID)
	})
}

func (suite *RecommenderTestSuite) TestCandidateCache() {
	suite.Run("CacheHit_ShouldSkipRepository", func() {
		candidates := suite.candidates(2)
		cache := newFakeCache()
		data, err := json.Marshal(candidates)
		require.NoError(suite.T(), err)
		require.NoError(suite.T(), cache.Set(context.Background(), "recipes:candidates:defender", data, time.Minute))

		// The repository would fail if consulted.
		repo := &fakeRepo{failFind: errors.New("should not be called")}
		ids := []string{candidates[0].ID.String()}
		chat := &fakeChat{replies: []reply{{content: rankingReply(ids, nil)}}}
		r := suite.newRecommender(repo, suite.contextRepo(), chat, deadGenerator(), cache)

		result, err := r.Recommend(context.Background(), suite.command())

		require.NoError(suite.T(), err)
		require.Len(suite.T(), result.Recipes, 1)
		assert.Equal(suite.T(), candidates[0].ID, result.Recipes[0].ID)
	})

	suite.Run("CacheMiss_ShouldPopulateCache", func() {
		candidates := suite.candidates(1)
		cache := newFakeCache()
		ids := []string{candidates[0].ID.String()}
		chat := &fakeChat{replies: []reply{{content: rankingReply(ids, nil)}}}
		r := suite.newRecommender(&fakeRepo{candidates: candidates}, suite.contextRepo(), chat, deadGenerator(), cache)

		_, err := r.Recommend(context.Background(), suite.command())

		require.NoError(suite.T(), err)
		_, getErr := cache.Get(context.Background(), "recipes:candidates:defender")
		assert.NoError(suite.T(), getErr)
	})
}

func TestRecommenderTestSuite(t *testing.T) {
	suite.Run(t, new(RecommenderTestSuite))
}
