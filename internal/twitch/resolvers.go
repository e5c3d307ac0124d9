package twitch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	json "github.com/goccy/go-json"

	"sbd/internal/models"
)

// chunkSize is the Helix limit on repeated id query keys per request.
const chunkSize = 100

// chunkQueries splits ids into query objects of at most chunkSize
// repeated keys, values trimmed of whitespace.
func chunkQueries(key string, ids []string) []url.Values {
	queries := make([]url.Values, 0, (len(ids)+chunkSize-1)/chunkSize)
	for start := 0; start < len(ids); start += chunkSize {
		end := min(start+chunkSize, len(ids))
		query := url.Values{}
		for _, id := range ids[start:end] {
			query.Add(key, strings.TrimSpace(id))
		}
		queries = append(queries, query)
	}
	return queries
}

// fanOut issues one request per query concurrently and returns the
// bodies in query order. A single failed request fails the whole
// fan-out; there is no partial-success tolerance.
func (c *Client) fanOut(ctx context.Context, endpoint string, queries []url.Values) ([][]byte, error) {
	bodies := make([][]byte, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(i int, query url.Values) {
			defer wg.Done()
			bodies[i], errs[i] = c.get(ctx, endpoint, query)
		}(i, query)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return bodies, nil
}

func decodeChunks[T any](bodies [][]byte) ([]T, error) {
	var out []T
	for _, body := range bodies {
		env, err := decodeEnvelope(body)
		if err != nil {
			return nil, err
		}
		var page []T
		if err := json.Unmarshal(env.Data, &page); err != nil {
			return nil, fmt.Errorf("twitch: decode data: %w", err)
		}
		out = append(out, page...)
	}
	return out, nil
}

// MyInfo resolves the user behind the current token: the no-filter
// variant of the users lookup.
func (c *Client) MyInfo(ctx context.Context) (models.UserInfo, error) {
	body, err := c.get(ctx, endpointUsers, nil)
	if err != nil {
		return models.UserInfo{}, err
	}
	users, err := decodeChunks[models.UserInfo]([][]byte{body})
	if err != nil {
		return models.UserInfo{}, err
	}
	if len(users) == 0 {
		return models.UserInfo{}, fmt.Errorf("twitch: no user for current token")
	}
	return users[0], nil
}

// UserInfos looks up users by numeric id, 100 per request.
func (c *Client) UserInfos(ctx context.Context, ids []string) ([]models.UserInfo, error) {
	bodies, err := c.fanOut(ctx, endpointUsers, chunkQueries("id", ids))
	if err != nil {
		return nil, err
	}
	return decodeChunks[models.UserInfo](bodies)
}

// ActiveStreams returns which of the given users are streaming right
// now; users who are offline simply do not appear.
func (c *Client) ActiveStreams(ctx context.Context, ids []string) ([]models.StreamInfo, error) {
	bodies, err := c.fanOut(ctx, endpointStreams, chunkQueries("user_id", ids))
	if err != nil {
		return nil, err
	}
	return decodeChunks[models.StreamInfo](bodies)
}

// GameNames resolves game ids to names, 100 per request.
func (c *Client) GameNames(ctx context.Context, ids []string) ([]models.Game, error) {
	bodies, err := c.fanOut(ctx, endpointGames, chunkQueries("id", ids))
	if err != nil {
		return nil, err
	}
	return decodeChunks[models.Game](bodies)
}
