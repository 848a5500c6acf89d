package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealcatalog/internal/config"
	"mealcatalog/internal/model"
)

var testLimits = config.SearchConfig{DefaultPageSize: 12, MaxPageSize: 50, MaxPages: 10}

func TestSearchService_Search(t *testing.T) {
	cat := newTestCatalog(t, testMeals(), 12)
	ai := &fakeAI{enabled: true, intent: &AIIntentResponse{
		SearchTerm: model.StringPtr("pizza"),
		RatingMin:  model.Float64Ptr(4.5),
	}}
	logs := newRecordingLogger()
	svc := NewSearchService(cat, NewIntentParser(ai, cat.Categories, nil), logs, testLimits, nil)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{Query: "top rated pizza"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.SearchID)
	assert.Equal(t, []string{"m1"}, resultIDs(resp.Results))
	assert.Equal(t, []string{ReasonHighlyRated, ReasonNameMatch}, resp.Results[0].MatchedReasons)
	assert.Equal(t, "4.6", resp.Results[0].DisplayedRating)
	assert.Equal(t, 1, resp.TotalFiltered)
	assert.False(t, resp.HasMore)
	assert.Len(t, resp.ActiveFilters, 2)

	select {
	case <-logs.logged:
	case <-time.After(time.Second):
		t.Fatal("search was not logged")
	}
	logs.mu.Lock()
	defer logs.mu.Unlock()
	require.Len(t, logs.searches, 1)
	assert.Equal(t, resp.SearchID, logs.searches[0].SearchID)
	assert.Equal(t, []string{"m1"}, logs.searches[0].ReturnedMeals)
}

func TestSearchService_SearchWithoutAI(t *testing.T) {
	cat := newTestCatalog(t, testMeals(), 12)
	svc := NewSearchService(cat, NewIntentParser(nil, nil, nil), nil, testLimits, nil)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{
		Query:   "asha",
		Filters: &model.FilterState{SortKey: model.SortByPrice, SortDirection: model.SortAsc},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"m3", "m2"}, resultIDs(resp.Results))
	assert.Equal(t, []string{ReasonChefMatch}, resp.Results[0].MatchedReasons)
	assert.Equal(t, 0.0, resp.Intent.Confidence)
}

func TestSearchService_Window(t *testing.T) {
	cat := newTestCatalog(t, testMeals(), 12)
	svc := NewSearchService(cat, NewIntentParser(nil, nil, nil), nil,
		config.SearchConfig{DefaultPageSize: 2, MaxPageSize: 3, MaxPages: 2}, nil)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{Query: " "})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 2)
	assert.True(t, resp.HasMore)

	resp, err = svc.Search(context.Background(), &model.SearchRequest{
		Query:   " ",
		Options: &model.SearchOptions{Pages: 9, PageSize: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.PageSize)
	assert.Equal(t, 2, resp.LoadedPages)
	assert.Len(t, resp.Results, 5)
}

func TestSearchService_InvalidExplicitFilters(t *testing.T) {
	cat := newTestCatalog(t, testMeals(), 12)
	svc := NewSearchService(cat, NewIntentParser(nil, nil, nil), nil, testLimits, nil)

	_, err := svc.Search(context.Background(), &model.SearchRequest{
		Query:   "pizza",
		Filters: &model.FilterState{ExperienceFloor: model.IntPtr(7)},
	})
	assert.ErrorIs(t, err, model.ErrInvalidFilter)
}

func TestSearchService_SearchStream(t *testing.T) {
	cat := newTestCatalog(t, testMeals(), 12)
	ai := &fakeAI{
		enabled:  true,
		thinking: []string{"dessert..."},
		intent:   &AIIntentResponse{Category: model.StringPtr("sweets")},
	}
	svc := NewSearchService(cat, NewIntentParser(ai, cat.Categories, nil), nil, testLimits, nil)

	var events []string
	resp, err := svc.SearchStream(context.Background(), &model.SearchRequest{Query: "something sweet"}, func(event string, data any) error {
		events = append(events, event)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"parsing", "thinking", "content", "intent", "searching"}, events)
	assert.Equal(t, []string{"m4"}, resultIDs(resp.Results))
	assert.Equal(t, "4.5", resp.Results[0].DisplayedRating)
}

func TestSearchService_SearchStreamCallbackError(t *testing.T) {
	cat := newTestCatalog(t, testMeals(), 12)
	svc := NewSearchService(cat, NewIntentParser(nil, nil, nil), nil, testLimits, nil)

	stop := errors.New("client gone")
	_, err := svc.SearchStream(context.Background(), &model.SearchRequest{Query: "x"}, func(string, any) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestSearchService_LogFeedback(t *testing.T) {
	cat := newTestCatalog(t, testMeals(), 12)
	logs := newRecordingLogger()
	svc := NewSearchService(cat, NewIntentParser(nil, nil, nil), logs, testLimits, nil)

	require.NoError(t, svc.LogFeedback(context.Background(), &model.FeedbackRequest{SearchID: "s1", MealID: "m1", Action: "Order"}))
	assert.Equal(t, []string{"s1/m1/order"}, logs.feedback)

	err := svc.LogFeedback(context.Background(), &model.FeedbackRequest{SearchID: "s1", MealID: "m1", Action: "share"})
	assert.ErrorIs(t, err, ErrInvalidAction)

	noLogs := NewSearchService(cat, NewIntentParser(nil, nil, nil), nil, testLimits, nil)
	err = noLogs.LogFeedback(context.Background(), &model.FeedbackRequest{SearchID: "s1", MealID: "m1", Action: "click"})
	assert.ErrorIs(t, err, ErrLoggingDisabled)
}
