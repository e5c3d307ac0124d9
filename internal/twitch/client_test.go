package twitch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sbd/internal/structures"
	"sbd/internal/testutil"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type sentinelSpy struct {
	mu    sync.Mutex
	calls int
}

func (s *sentinelSpy) HandleUnauthorized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
}

func (s *sentinelSpy) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestClient(baseURL string) (*Client, *sentinelSpy, *testutil.MockMetrics) {
	conf := &structures.Config{}
	conf.Twitch.BaseURL = baseURL
	conf.Twitch.ClientID = "client-id-1"
	conf.Twitch.Timeout = 5 * time.Second

	sentinel := &sentinelSpy{}
	metrics := testutil.NewMockMetrics()
	client := NewClient(conf, &testutil.MockLogger{}, metrics, staticToken("token-abc"), sentinel)
	return client, sentinel, metrics
}

func TestClientSendsAuthHeaders(t *testing.T) {
	var gotClientID, gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClientID = r.Header.Get("Client-Id")
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data": [{"id": "42", "login": "me"}]}`))
	}))
	defer server.Close()

	client, _, _ := newTestClient(server.URL)
	user, err := client.MyInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "client-id-1", gotClientID)
	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.Empty(t, gotQuery, "no-filter lookup must not carry a query string")
	assert.Equal(t, "42", user.ID)
	assert.Equal(t, "me", user.Login)
}

func TestClientUnauthorizedFiresSentinelAndReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Unauthorized", "status": 401, "message": "Invalid OAuth token"}`))
	}))
	defer server.Close()

	client, sentinel, metrics := newTestClient(server.URL)
	_, err := client.MyInfo(context.Background())

	require.ErrorIs(t, err, ErrMissingData)
	assert.Equal(t, 1, sentinel.Calls())
	assert.Equal(t, 1, metrics.Unauthorized)
	assert.Equal(t, 1, metrics.HelixRequests["/users"])
}

func TestClientTransportErrorDoesNotFireSentinel(t *testing.T) {
	client, sentinel, _ := newTestClient("http://127.0.0.1:1")
	_, err := client.MyInfo(context.Background())

	require.Error(t, err)
	assert.Equal(t, 0, sentinel.Calls())
}

func TestDecodeEnvelope(t *testing.T) {
	env, err := decodeEnvelope([]byte(`{"data": [], "pagination": {}}`))
	require.NoError(t, err)
	assert.NotNil(t, env.Data)
	assert.Empty(t, env.Pagination.Cursor)

	env, err = decodeEnvelope([]byte(`{"data": [{}], "pagination": {"cursor": "abc"}}`))
	require.NoError(t, err)
	assert.Equal(t, "abc", env.Pagination.Cursor)

	_, err = decodeEnvelope([]byte(`{"error": "Unauthorized", "status": 401}`))
	assert.ErrorIs(t, err, ErrMissingData)

	_, err = decodeEnvelope([]byte(`not json`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingData)
}
