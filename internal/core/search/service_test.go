package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"recipe-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	queries []Query
	results func(q Query) (*Results, error)
}

func (f *fakeSearcher) Search(_ context.Context, q Query) (*Results, error) {
	f.queries = append(f.queries, q)
	return f.results(q)
}

func resultsFrom(t *testing.T, body string) *Results {
	t.Helper()
	var res Results
	require.NoError(t, common.ParseJSON(body, &res))
	return &res
}

func TestPaginationArithmetic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		page       int
		count      int
		wantOffset int
		wantPages  int
	}{
		{name: "first page", page: 1, count: 30, wantOffset: 0, wantPages: 3},
		{name: "third page", page: 3, count: 30, wantOffset: 24, wantPages: 3},
		{name: "exact multiple", page: 2, count: 24, wantOffset: 12, wantPages: 2},
		{name: "single result", page: 1, count: 1, wantOffset: 0, wantPages: 1},
		{name: "no results", page: 1, count: 0, wantOffset: 0, wantPages: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantOffset, Offset(tc.page, DefaultPageSize))
			assert.Equal(t, tc.wantPages, TotalPages(tc.count, DefaultPageSize))
		})
	}
}

func TestServiceSearch(t *testing.T) {
	t.Parallel()

	fake := &fakeSearcher{results: func(q Query) (*Results, error) {
		return resultsFrom(t, `{
			"count": 25,
			"hits": [
				{"id": "a", "score": 1.2, "document": {"id": "38", "name": "Berry Dessert", "servings": "4"}},
				{"id": "b", "score": 1.1, "document": null},
				{"id": "c", "score": 1.0, "document": "not an object"},
				{"id": "d", "score": 0.9, "document": {"id": "39", "timing": {"totalTime": "PT45M"}}}
			]
		}`), nil
	}}

	svc := NewService(fake, 12)
	page, err := svc.Search(context.Background(), "berry", 2)
	require.NoError(t, err)

	require.Len(t, fake.queries, 1)
	assert.Equal(t, Query{Term: "berry", Mode: ModeFullText, Limit: 12, Offset: 12}, fake.queries[0])

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 25, page.Count)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Skipped)
	require.Len(t, page.Recipes, 2)
	assert.Equal(t, "Berry Dessert", page.Recipes[0].Name)
	assert.Equal(t, 4.0, page.Recipes[0].Servings)
	assert.Equal(t, "45 minutes ", page.Recipes[1].Timing.TotalTime)
}

func TestServiceSearchClampsPage(t *testing.T) {
	t.Parallel()

	fake := &fakeSearcher{results: func(q Query) (*Results, error) {
		return &Results{}, nil
	}}

	page, err := NewService(fake, 0).Search(context.Background(), "", -3)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.Equal(t, 0, fake.queries[0].Offset)
	assert.Equal(t, 0, page.TotalPages)
	assert.NotNil(t, page.Recipes)
	assert.Empty(t, page.Recipes)
}

func TestServiceSearchKeepsCountWithoutHits(t *testing.T) {
	t.Parallel()

	fake := &fakeSearcher{results: func(q Query) (*Results, error) {
		return resultsFrom(t, `{"count": 30, "hits": null}`), nil
	}}

	page, err := NewService(fake, 12).Search(context.Background(), "soup", 4)
	require.NoError(t, err)

	assert.Equal(t, 30, page.Count)
	assert.Equal(t, 3, page.TotalPages)
	assert.NotNil(t, page.Recipes)
	assert.Empty(t, page.Recipes)
}

func TestServiceSearchErrors(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, 12).Search(context.Background(), "soup", 1)
	assert.ErrorIs(t, err, common.ErrSearchNotConfigured)

	boom := common.ErrSearchUnavailable.Wrap(errors.New("connection refused"))
	fake := &fakeSearcher{results: func(q Query) (*Results, error) { return nil, boom }}
	_, err = NewService(fake, 12).Search(context.Background(), "soup", 1)
	assert.ErrorIs(t, err, common.ErrSearchUnavailable)
}

func TestServiceGetRecipe(t *testing.T) {
	t.Parallel()

	fake := &fakeSearcher{results: func(q Query) (*Results, error) {
		if strings.Contains(q.Term, "Hot Dogs") {
			return resultsFrom(t, `{"count":1,"hits":[{"id":"x","document":{"id":"77","name":"BBQ Hot Dogs"}}]}`), nil
		}
		return resultsFrom(t, `{"count":2,"hits":[
			{"id":"x","document":{"id":"380","name":"Other"}},
			{"id":"y","document":{"id":"38","name":"Berry Dessert"}}
		]}`), nil
	}}
	svc := NewService(fake, 12)

	got, err := svc.GetRecipe(context.Background(), "38", "")
	require.NoError(t, err)
	assert.Equal(t, "Berry Dessert", got.Name)
	assert.Equal(t, []string{"id"}, fake.queries[0].Properties)

	got, err = svc.GetRecipe(context.Background(), "77", "BBQ Hot Dogs")
	require.NoError(t, err)
	assert.Equal(t, "BBQ Hot Dogs", got.Name)

	_, err = svc.GetRecipe(context.Background(), "999", "")
	assert.ErrorIs(t, err, common.ErrRecipeNotFound)

	_, err = svc.GetRecipe(context.Background(), "", "")
	assert.ErrorIs(t, err, common.ErrRecipeNotFound)
}
