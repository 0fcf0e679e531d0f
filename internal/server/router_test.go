package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Werneck0live/alca-hub/internal/handlers"
	"github.com/Werneck0live/alca-hub/internal/metrics"
	"github.com/Werneck0live/alca-hub/internal/models"
	"github.com/Werneck0live/alca-hub/internal/repository"
)

// stubStore registra qual operação a rota acionou
type stubStore struct{ called string }

func (s *stubStore) Search(context.Context, repository.ProviderQuery) ([]models.Provider, int64, error) {
	s.called = "search"
	return nil, 0, nil
}
func (s *stubStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Provider, error) {
	s.called = "get"
	return &models.Provider{ID: id, Name: "ACME"}, nil
}
func (s *stubStore) Create(context.Context, *models.Provider) error { return errors.New("not used") }
func (s *stubStore) Update(context.Context, primitive.ObjectID, *models.ProviderPatch) (*models.Provider, error) {
	return nil, repository.ErrNotFound
}
func (s *stubStore) Delete(context.Context, primitive.ObjectID) error { return nil }
func (s *stubStore) Stats(context.Context) (*models.ProviderStats, error) {
	s.called = "stats"
	return &models.ProviderStats{ByCategory: []models.NamedCount{}, ByCity: []models.NamedCount{}}, nil
}

type stubCategories struct{}

func (stubCategories) FindByName(context.Context, string) (*models.Category, error) {
	return nil, repository.ErrNotFound
}
func (stubCategories) List(context.Context) ([]models.Category, error) { return []models.Category{}, nil }
func (stubCategories) Create(context.Context, *models.Category) error  { return nil }
func (stubCategories) Exists(context.Context, primitive.ObjectID) (bool, error) {
	return true, nil
}
func (stubCategories) NamesByIDs(context.Context, []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	return map[primitive.ObjectID]string{}, nil
}

func newTestRouter() (http.Handler, *stubStore, *metrics.Metrics) {
	st := &stubStore{}
	m := metrics.New()
	h := &handlers.Handler{Providers: st, Categories: stubCategories{}, Metrics: m}
	return NewRouter(h, m, nil), st, m
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestRouter_StatsBeforeID(t *testing.T) {
	r, st, _ := newTestRouter()
	rr := do(t, r, http.MethodGet, "/providers/stats")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "stats", st.called)
}

func TestRouter_ProviderRoutes(t *testing.T) {
	r, st, _ := newTestRouter()

	rr := do(t, r, http.MethodGet, "/providers")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "search", st.called)

	rr = do(t, r, http.MethodGet, "/providers/"+primitive.NewObjectID().Hex())
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "get", st.called)

	rr = do(t, r, http.MethodGet, "/providers/abc")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid_id")
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	r, _, _ := newTestRouter()

	rr := do(t, r, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"not_found","message":"route not found"}`, rr.Body.String())

	rr = do(t, r, http.MethodPut, "/categories")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouter_RequestID(t *testing.T) {
	r, _, _ := newTestRouter()

	rr := do(t, r, http.MethodGet, "/healthz")
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

// label de rota usa o pattern, não o id
func TestRouter_MetricsRouteLabel(t *testing.T) {
	r, _, _ := newTestRouter()
	do(t, r, http.MethodGet, "/providers/"+primitive.NewObjectID().Hex())

	rr := do(t, r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, `route="/providers/{id}/"`) || strings.Contains(body, `route="/providers/{id}"`), body)
	assert.Contains(t, body, "http_requests_total")
}
