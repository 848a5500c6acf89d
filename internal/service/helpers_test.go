package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mealcatalog/internal/catalog"
	"mealcatalog/internal/model"
	"mealcatalog/internal/source"
	"mealcatalog/internal/store"
)

func testMeals() []model.Meal {
	return []model.Meal{
		{ID: "m1", Name: "Pizza Margherita", ChefName: "Luigi", Ingredients: model.JSONArray{"tomato", "mozzarella", "basil"},
			Price: 12, Rating: model.Float64Ptr(4.6), DeliveryMinutes: model.IntPtr(25), ChefExperienceYears: model.IntPtr(8), Category: model.StringPtr("Italian")},
		{ID: "m2", Name: "Chicken Biryani", ChefName: "Asha", Ingredients: model.JSONArray{"rice", "chicken", "saffron"},
			Price: 14, Rating: model.Float64Ptr(4.8), DeliveryMinutes: model.IntPtr(40), ChefExperienceYears: model.IntPtr(12), Category: model.StringPtr("Indian")},
		{ID: "m3", Name: "Paneer Tikka", ChefName: "Asha", Ingredients: model.JSONArray{"paneer", "yogurt"},
			Price: 10, Rating: model.Float64Ptr(4.1), DeliveryMinutes: model.IntPtr(30), Category: model.StringPtr("Vegetarian")},
		{ID: "m4", Name: "Tiramisu", ChefName: "Luigi", Ingredients: model.JSONArray{"mascarpone", "coffee"},
			Price: 7, Category: model.StringPtr("Dessert")},
		{ID: "m5", Name: "Mushroom Pizza", ChefName: "Marco", Ingredients: model.JSONArray{"mushroom", "mozzarella"},
			Price: 11, Rating: model.Float64Ptr(3.9), DeliveryMinutes: model.IntPtr(50), ChefExperienceYears: model.IntPtr(2)},
	}
}

func newTestCatalog(t *testing.T, meals []model.Meal, pageSize int) *CatalogService {
	t.Helper()
	opts := catalog.DefaultOptions()
	opts.PageSize = pageSize
	svc := NewCatalogService(source.StaticSource{Meals: meals}, catalog.NewEngine(opts), store.NewMemoryStore(time.Minute), nil)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

// fakeAI is a scripted AIClient
type fakeAI struct {
	enabled  bool
	intent   *AIIntentResponse
	err      error
	thinking []string
	vectors  [][]float32
	texts    []string
}

func (f *fakeAI) IsEnabled() bool { return f.enabled }

func (f *fakeAI) ParseIntentWithAI(ctx context.Context, query string) (*AIIntentResponse, error) {
	return f.intent, f.err
}

func (f *fakeAI) ParseIntentWithAIStream(ctx context.Context, query string, callback func(thinking, content string) error) (*AIIntentResponse, error) {
	for _, t := range f.thinking {
		if err := callback(t, ""); err != nil {
			return nil, err
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	if err := callback("", `{"ok":true}`); err != nil {
		return nil, err
	}
	return f.intent, nil
}

func (f *fakeAI) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	f.texts = texts
	return f.vectors, f.err
}

// recordingLogger is a SearchLogger that keeps everything in memory
type recordingLogger struct {
	mu       sync.Mutex
	searches []model.SearchLog
	feedback []string
	logged   chan struct{}
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{logged: make(chan struct{}, 10)}
}

func (r *recordingLogger) LogSearch(ctx context.Context, entry model.SearchLog) error {
	r.mu.Lock()
	r.searches = append(r.searches, entry)
	r.mu.Unlock()
	r.logged <- struct{}{}
	return nil
}

func (r *recordingLogger) LogFeedback(ctx context.Context, searchID, mealID, action string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feedback = append(r.feedback, searchID+"/"+mealID+"/"+action)
	return nil
}

// recordingEmbeddings is an EmbeddingStore that keeps items in memory
type recordingEmbeddings struct {
	items []model.EmbeddingItem
}

func (r *recordingEmbeddings) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	r.items = append(r.items, items...)
	return len(items), nil
}

func resultIDs(results []model.MealSearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func visibleIDs(meals []model.Meal) []string {
	out := make([]string, len(meals))
	for i, m := range meals {
		out[i] = m.ID
	}
	return out
}
