package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-finder/internal/core/planner"
	"recipe-finder/internal/core/search"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSearcher struct {
	results *search.Results
	err     error
	queries []search.Query
}

func (f *fakeSearcher) Search(_ context.Context, q search.Query) (*search.Results, error) {
	f.queries = append(f.queries, q)
	return f.results, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		App:            config.AppConfig{Debug: true, Version: "test", Env: "test"},
		Server:         config.ServerConfig{Port: 8080, RequestTimeout: 5 * time.Second},
		Search:         config.SearchConfig{Endpoint: "https://cloud.orama.run/v1/indexes/recipes", APIKey: "test-key", Timeout: time.Second, PageSize: 12},
		Planner:        config.PlannerConfig{StorageKey: "weeklyMeals", ResetWeekday: time.Sunday, ResetHour: 20},
		DedupWindow:    time.Second,
		BodyLimitBytes: 1 << 20,
	}
}

func newTestRouter(t *testing.T, searcher search.Searcher) (*gin.Engine, *planner.MemoryStore) {
	t.Helper()
	cfg := testConfig()
	store := planner.NewMemoryStore()
	now := time.Date(2026, time.October, 21, 10, 0, 0, 0, time.UTC)
	plannerSvc := planner.NewService(store, planner.WithClock(func() time.Time { return now }))
	return SetupRouter(cfg, search.NewService(searcher, cfg.Search.PageSize), plannerSvc), store
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestSearchEndpoint(t *testing.T) {
	searcher := &fakeSearcher{results: &search.Results{
		Count: 25,
		Hits: []search.Hit{
			{ID: "1", Document: map[string]any{"id": "38", "name": "Berry Dessert", "servings": json.Number("4")}},
			{ID: "2", Document: nil},
		},
	}}
	r, _ := newTestRouter(t, searcher)

	w := doRequest(r, http.MethodGet, "/api/v1/recipes/search?q=berry&page=2", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(3), body["total_pages"])
	assert.Equal(t, float64(25), body["count"])
	recipes := body["recipes"].([]any)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Uncategorized", recipes[0].(map[string]any)["category"])

	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "berry", searcher.queries[0].Term)
	assert.Equal(t, 12, searcher.queries[0].Offset)
	assert.Equal(t, 12, searcher.queries[0].Limit)
}

func TestSearchEndpointClampsPage(t *testing.T) {
	for _, raw := range []string{"0", "-3"} {
		searcher := &fakeSearcher{results: &search.Results{Count: 5}}
		r, _ := newTestRouter(t, searcher)

		w := doRequest(r, http.MethodGet, "/api/v1/recipes/search?q=x&page="+raw, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decodeBody(t, w)
		assert.Equal(t, float64(1), body["page"], raw)
		assert.Equal(t, float64(1), body["total_pages"], raw)
		require.Len(t, searcher.queries, 1)
		assert.Equal(t, 0, searcher.queries[0].Offset, raw)
	}
}

func TestSearchEndpointErrors(t *testing.T) {
	r, _ := newTestRouter(t, &fakeSearcher{err: common.ErrSearchUnavailable.Wrap(errors.New("dial tcp: refused"))})

	w := doRequest(r, http.MethodGet, "/api/v1/recipes/search?q=berry&page=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/recipes/search?q=berry", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "SEARCH_UNAVAILABLE", body["code"])
	assert.Contains(t, body["details"], "refused")
}

func TestSearchNotConfigured(t *testing.T) {
	cfg := testConfig()
	r := SetupRouter(cfg, search.NewService(nil, 12), planner.NewService(planner.NewMemoryStore()))

	w := doRequest(r, http.MethodGet, "/api/v1/recipes/search?q=berry", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SEARCH_NOT_CONFIGURED", decodeBody(t, w)["code"])
}

func TestGetRecipeEndpoint(t *testing.T) {
	searcher := &fakeSearcher{results: &search.Results{
		Count: 1,
		Hits:  []search.Hit{{ID: "1", Document: map[string]any{"id": "38", "name": "Berry Dessert"}}},
	}}
	r, _ := newTestRouter(t, searcher)

	w := doRequest(r, http.MethodGet, "/api/v1/recipes/38", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Berry Dessert", decodeBody(t, w)["name"])

	w = doRequest(r, http.MethodGet, "/api/v1/recipes/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RECIPE_NOT_FOUND", decodeBody(t, w)["code"])
}

func TestNormalizeEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &fakeSearcher{})

	w := doRequest(r, http.MethodPost, "/api/v1/recipes/normalize", `{
		"id": "38",
		"images": ["https://img.sndimg.com/food/image/upload/a.jpg", "x"],
		"timing": {"totalTime": "PT1H30M"},
		"nutrition": {"calories": "170.9", "fat": 2.5}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "38", body["id"])
	assert.Equal(t, float64(1), body["servings"])
	assert.Len(t, body["images"], 1)
	assert.Equal(t, "1 hours  30 minutes ", body["timing"].(map[string]any)["totalTime"])
	assert.Equal(t, map[string]any{"calories": 170.9, "fat": 2.5}, body["nutrition"])

	for _, bad := range []string{`[1,2]`, `"recipe"`, `{broken`, ``} {
		w := doRequest(r, http.MethodPost, "/api/v1/recipes/normalize", bad)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestNormalizeEndpointNonFiniteNumbers(t *testing.T) {
	r, _ := newTestRouter(t, &fakeSearcher{})

	w := doRequest(r, http.MethodPost, "/api/v1/recipes/normalize", `{"id":"1","servings":"Infinity","nutrition":{"calories":"inf"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["servings"])
	assert.Equal(t, float64(0), body["nutrition"].(map[string]any)["calories"])
}

func TestDebugEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &fakeSearcher{})

	w := doRequest(r, http.MethodPost, "/api/v1/recipes/debug", `{
		"id": "38",
		"ingredients": {"quantities": ["1", "2"], "parts": ["egg"]},
		"instructions": "Mix"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	report := body["report"].(map[string]any)
	assert.Equal(t, "No (Quantities: 2, Parts: 1)", report["ingredients_match"])
	assert.Equal(t, float64(1), report["instructions_count"])
	assert.Equal(t, "38", body["recipe"].(map[string]any)["id"])
}

func TestPlannerEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, &fakeSearcher{})

	w := doRequest(r, http.MethodPut, "/api/v1/planner/2026-10-21/dinner", `{
		"id": "38",
		"name": "Berry Dessert",
		"description": "Frozen",
		"servings": 4,
		"nutrition": {"calories": 170.9}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	meals := decodeBody(t, w)["meals"].(map[string]any)
	assert.Nil(t, meals["breakfast"])
	assert.Equal(t, "Berry Dessert", meals["dinner"].(map[string]any)["title"])

	w = doRequest(r, http.MethodGet, "/api/v1/planner/week", "")
	require.Equal(t, http.StatusOK, w.Code)
	week := decodeBody(t, w)
	assert.Equal(t, "2026-10-19", week["start"])
	days := week["days"].([]any)
	require.Len(t, days, 7)
	wed := days[2].(map[string]any)
	assert.Equal(t, "Wednesday", wed["day_name"])
	assert.Equal(t, "38", wed["meals"].(map[string]any)["dinner"].(map[string]any)["id"])

	w = doRequest(r, http.MethodDelete, "/api/v1/planner/2026-10-21/dinner", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["removed"])

	w = doRequest(r, http.MethodDelete, "/api/v1/planner/2026-10-24/lunch", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["removed"])
}

func TestPlannerValidation(t *testing.T) {
	r, _ := newTestRouter(t, &fakeSearcher{})

	w := doRequest(r, http.MethodPut, "/api/v1/planner/2026-10-21/snack", `{"id":"1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_MEAL_SLOT", decodeBody(t, w)["code"])

	w = doRequest(r, http.MethodPut, "/api/v1/planner/10-21-2026/lunch", `{"id":"1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PLAN_DATE", decodeBody(t, w)["code"])

	w = doRequest(r, http.MethodPut, "/api/v1/planner/2026-10-21/lunch", `["not an object"]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeBody(t, w)["code"])
}

func TestPlannerCorruptStorage(t *testing.T) {
	r, store := newTestRouter(t, &fakeSearcher{})
	store.SetRaw([]byte("not json"))

	w := doRequest(r, http.MethodGet, "/api/v1/planner/week", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["days"], 7)
}

func TestHealthEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, &fakeSearcher{})

	w := doRequest(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", decodeBody(t, w)["version"])

	w = doRequest(r, http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", decodeBody(t, w)["status"])
}

func TestReadyWithoutSearch(t *testing.T) {
	cfg := testConfig()
	cfg.Search.APIKey = ""
	r := SetupRouter(cfg, search.NewService(nil, 12), planner.NewService(planner.NewMemoryStore()))

	w := doRequest(r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "not_ready", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "unavailable", checks["search"].(map[string]any)["status"])
	assert.Equal(t, "ok", checks["planner_store"].(map[string]any)["status"])
}
