package recipe

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ongoza/cyberhub/internal/domain/recipe"
	"github.com/ongoza/cyberhub/internal/domain/training"
	"github.com/ongoza/cyberhub/internal/ports/outbound"
)

// scripted reply for a fake provider call
type reply struct {
	content string
	err     error
}

// fakeChat is a scripted ChatClient. Calls consume replies in order; extra
// calls repeat the last reply.
type fakeChat struct {
	mu      sync.Mutex
	replies []reply
	calls   int
	prompts []string
}

func (f *fakeChat) ChatCompletion(_ context.Context, messages []outbound.ChatMessage, _ outbound.ChatOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if len(messages) > 0 {
		f.prompts = append(f.prompts, messages[len(messages)-1].Content)
	}

	r := f.take()
	return r.content, r.err
}

func (f *fakeChat) take() reply {
	if len(f.replies) == 0 {
		return reply{err: errors.New("no scripted reply")}
	}
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return r
}

// fakeCompletion is a scripted CompletionClient
type fakeCompletion struct {
	mu      sync.Mutex
	replies []reply
	calls   int
}

func (f *fakeCompletion) GenerateCompletion(_ context.Context, _ string, _ outbound.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if len(f.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return r.content, r.err
}

// fakeRepo is an in-memory RecipeRepository
type fakeRepo struct {
	mu         sync.Mutex
	saved      []recipe.Recipe
	links      []recipe.ContextLink
	candidates []recipe.Recipe

	failSave  error
	failLinks error
	failFind  error
}

func (f *fakeRepo) SaveRecipes(_ context.Context, records []recipe.ValidatedRecipe) ([]recipe.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSave != nil {
		return nil, f.failSave
	}

	saved := make([]recipe.Recipe, len(records))
	for i, r := range records {
		saved[i] = recipe.Recipe{
			ID:               r.ID,
			Title:            r.Title,
			Slug:             r.Slug,
			Summary:          r.Summary,
			Difficulty:       r.Difficulty,
			EstimatedMinutes: r.EstimatedMinutes,
			TrackCodes:       r.TrackCodes,
			SkillCodes:       r.SkillCodes,
			ToolsUsed:        r.ToolsUsed,
			Content:          r.Content,
			Validated:        r.Validated,
			CreatedBy:        r.CreatedBy,
			IsActive:         r.IsActive,
			CreatedAt:        r.CreatedAt,
		}
	}
	f.saved = append(f.saved, saved...)
	return saved, nil
}

func (f *fakeRepo) CreateContextLinks(_ context.Context, links []recipe.ContextLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failLinks != nil {
		return f.failLinks
	}
	f.links = append(f.links, links...)
	return nil
}

func (f *fakeRepo) FindCandidates(_ context.Context, track string, limit int) ([]recipe.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFind != nil {
		return nil, f.failFind
	}
	if len(f.candidates) > limit {
		return f.candidates[:limit], nil
	}
	return f.candidates, nil
}

// fakeContexts is a ContextRepository returning a fixed context
type fakeContexts struct {
	tc   *training.Context
	fail error
}

func (f *fakeContexts) FindContext(_ context.Context, _ recipe.ContextType, _ string) (*training.Context, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.tc, nil
}

// fakeCache is an in-memory CacheRepository
type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes []string
	failGet error
	failSet error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failGet != nil {
		return nil, f.failGet
	}
	data, ok := f.data[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return data, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSet != nil {
		return f.failSet
	}
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletes = append(f.deletes, key)
	delete(f.data, key)
	return nil
}
