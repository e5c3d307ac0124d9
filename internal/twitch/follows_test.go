package twitch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// followsPage renders a follow-edges response with n edges starting at
// offset, and the given cursor (empty string omits nothing; the field
// is simply empty).
func followsPage(offset, n int, cursor string) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf(`{"from_id": "me", "to_id": "%d", "to_name": "chan%d"}`, offset+i+1, offset+i+1))
	}
	return fmt.Sprintf(`{"data": [%s], "pagination": {"cursor": %q}}`, strings.Join(items, ","), cursor)
}

func serveFollowPages(t *testing.T, pages []string) (*httptest.Server, *[]string) {
	t.Helper()
	cursors := &[]string{}
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/follows", r.URL.Path)
		assert.Equal(t, "me", r.URL.Query().Get("from_id"))
		assert.Equal(t, "100", r.URL.Query().Get("first"))
		*cursors = append(*cursors, r.URL.Query().Get("after"))

		require.Less(t, calls, len(pages), "more requests than scripted pages")
		w.Write([]byte(pages[calls]))
		calls++
	}))
	return server, cursors
}

func TestFollowsWalksAllPages(t *testing.T) {
	server, cursors := serveFollowPages(t, []string{
		followsPage(0, 100, "c1"),
		followsPage(100, 100, "c2"),
		followsPage(200, 37, "c3"),
	})
	defer server.Close()

	client, _, _ := newTestClient(server.URL)
	edges, err := client.Follows(context.Background(), "me")
	require.NoError(t, err)

	require.Len(t, edges, 237)
	assert.Equal(t, "1", edges[0].ToID)
	assert.Equal(t, "237", edges[236].ToID)
	// First request has no after param, the rest carry the previous
	// cursor.
	assert.Equal(t, []string{"", "c1", "c2"}, *cursors)
}

func TestFollowsStopsOnShortPageDespiteCursor(t *testing.T) {
	server, cursors := serveFollowPages(t, []string{
		followsPage(0, 100, "c1"),
		followsPage(100, 42, "c2"),
	})
	defer server.Close()

	client, _, _ := newTestClient(server.URL)
	edges, err := client.Follows(context.Background(), "me")
	require.NoError(t, err)

	assert.Len(t, edges, 142)
	assert.Len(t, *cursors, 2, "a short page ends the walk even with a cursor present")
}

func TestFollowsStopsOnFullPageWithoutCursor(t *testing.T) {
	server, cursors := serveFollowPages(t, []string{
		followsPage(0, 100, "c1"),
		followsPage(100, 100, ""),
	})
	defer server.Close()

	client, _, _ := newTestClient(server.URL)
	edges, err := client.Follows(context.Background(), "me")
	require.NoError(t, err)

	assert.Len(t, edges, 200)
	assert.Len(t, *cursors, 2, "a full page without a cursor ends the walk")
}

func TestFollowsFullFinalPageCostsOneExtraRequest(t *testing.T) {
	server, cursors := serveFollowPages(t, []string{
		followsPage(0, 100, "c1"),
		followsPage(100, 0, ""),
	})
	defer server.Close()

	client, _, _ := newTestClient(server.URL)
	edges, err := client.Follows(context.Background(), "me")
	require.NoError(t, err)

	assert.Len(t, edges, 100)
	assert.Len(t, *cursors, 2, "a full page plus cursor always continues")
}

func TestFollowsErrorBodyAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Unauthorized", "status": 401}`))
	}))
	defer server.Close()

	client, sentinel, _ := newTestClient(server.URL)
	_, err := client.Follows(context.Background(), "me")

	require.ErrorIs(t, err, ErrMissingData)
	assert.Equal(t, 1, sentinel.Calls())
}
