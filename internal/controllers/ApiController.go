package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"sbd/internal/events"
	"sbd/internal/providers"
	"sbd/internal/services"
	"sbd/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger  providers.Logger
	service services.StreamServiceInterface
	store   *storage.Store
	cache   providers.CacheProviderInterface
	bus     *events.Bus
}

func NewApiController(logger providers.Logger, service services.StreamServiceInterface, store *storage.Store, cache providers.CacheProviderInterface, bus *events.Bus) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		store:   store,
		cache:   cache,
		bus:     bus,
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// GetStreams serves the stored snapshot. Cached for at most one poll
// interval, so a fresh publish is picked up by the next cycle's
// readers at the latest.
func (ac *ApiController) GetStreams(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "streams", func() (any, error) {
		return ac.service.Snapshot(), nil
	})
}

type statusResponse struct {
	Badge     any    `json:"badge"`
	UpdatedAt string `json:"updated_ts"`
	LiveCount int    `json:"live_count"`
}

// GetStatus serves the badge and snapshot metadata. Never cached: the
// alert badge must show up immediately after a 401.
func (ac *ApiController) GetStatus(w http.ResponseWriter, r *http.Request) {
	snapshot := ac.service.Snapshot()
	resp := statusResponse{
		Badge:     ac.service.Badge(),
		UpdatedAt: snapshot.UpdatedAt,
		LiveCount: len(snapshot.Streams),
	}
	writeJSON(w, resp)
}

// WhoAmI resolves the user behind the stored token.
func (ac *ApiController) WhoAmI(w http.ResponseWriter, r *http.Request) {
	user, err := ac.service.WhoAmI(r.Context())
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "whoami: %s", err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}
	writeJSON(w, user)
}

// Refresh requests an update cycle. The scheduler picks the event up;
// a cycle already in flight absorbs the trigger.
func (ac *ApiController) Refresh(w http.ResponseWriter, r *http.Request) {
	ac.bus.Publish(events.TopicUpdateRequest)
	w.WriteHeader(http.StatusAccepted)
}

type credentialRequest struct {
	Token      string `json:"token"`
	FollowerID string `json:"follower_id"`
}

// PutCredential stores an externally acquired bearer token and
// follower id. Token acquisition itself happens outside this daemon.
func (ac *ApiController) PutCredential(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if payload.Token == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.store.SetCredentials(payload.Token, payload.FollowerID); err != nil {
		ac.logger.Errorf(providers.TypePost, "storing credential: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
