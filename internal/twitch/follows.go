package twitch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"

	"sbd/internal/models"
)

const followPageSize = 100

// Follows walks every page of the follow-edges endpoint for the given
// user and returns the concatenated edges.
//
// Continuation requires BOTH a full page and a cursor in the response.
// A final page of exactly followPageSize therefore triggers one extra
// (normally empty) request when the API still returns a cursor. That
// matches the upstream contract as observed; do not "fix" the
// condition without confirming against the real API.
func (c *Client) Follows(ctx context.Context, followerID string) ([]models.FollowEdge, error) {
	var edges []models.FollowEdge
	cursor := ""
	for {
		query := url.Values{}
		query.Set("from_id", followerID)
		query.Set("first", strconv.Itoa(followPageSize))
		if cursor != "" {
			query.Set("after", cursor)
		}

		body, err := c.get(ctx, endpointFollows, query)
		if err != nil {
			return nil, err
		}
		env, err := decodeEnvelope(body)
		if err != nil {
			return nil, err
		}

		var page []models.FollowEdge
		if err := json.Unmarshal(env.Data, &page); err != nil {
			return nil, fmt.Errorf("twitch: decode follows: %w", err)
		}
		edges = append(edges, page...)

		if len(page) != followPageSize || env.Pagination.Cursor == "" {
			return edges, nil
		}
		cursor = env.Pagination.Cursor
	}
}
