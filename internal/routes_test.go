package internal

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbd/internal/controllers"
	"sbd/internal/events"
	"sbd/internal/storage"
	"sbd/internal/structures"
	"sbd/internal/testutil"
)

func newRouteTestController(t *testing.T) *controllers.ApiController {
	t.Helper()
	conf := &structures.Config{}
	conf.Persistence.FilePath = filepath.Join(t.TempDir(), "state.bin")

	logger := &testutil.MockLogger{}
	store := storage.NewStore(conf, &testutil.MockCompressor{}, logger)
	require.NoError(t, store.Load())
	return controllers.NewApiController(logger, &testutil.MockStreamService{}, store, testutil.NewMockCache(), events.NewBus(logger))
}

func TestInitRoutes_RegistersFiveRoutes(t *testing.T) {
	router := InitRoutes(newRouteTestController(t), &structures.Config{})
	routes := router.GetRoutes()

	require.Len(t, routes, 5)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/streams")
	assert.Contains(t, urls, "/status")
	assert.Contains(t, urls, "/whoami")
	assert.Contains(t, urls, "/refresh")
	assert.Contains(t, urls, "/credential")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	router := InitRoutes(newRouteTestController(t), &structures.Config{})

	mux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		mux.Handle(route.Url, route.Handler)
	}

	// GET routes refuse POST and vice versa.
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/streams", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/refresh", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/streams", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
