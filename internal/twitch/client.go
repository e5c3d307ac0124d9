package twitch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"

	"sbd/internal/models"
	"sbd/internal/providers"
	"sbd/internal/structures"
)

const (
	endpointUsers   = "/users"
	endpointFollows = "/users/follows"
	endpointStreams = "/streams"
	endpointGames   = "/games"
)

// ErrMissingData means a response decoded fine but carried no "data"
// key. 401 error bodies look like this, as do truncated responses;
// either way the batch that hit it cannot be merged.
var ErrMissingData = errors.New("twitch: response missing data field")

// TokenSource yields the current bearer token. The token is read per
// request so a credential cleared mid-cycle is never reused.
type TokenSource interface {
	Token() string
}

// UnauthorizedHandler reacts to a 401 from any endpoint: clear the
// stored credential and raise the alert badge. It is a side effect,
// not control flow; the request result is still handed to the caller.
type UnauthorizedHandler interface {
	HandleUnauthorized()
}

type API interface {
	MyInfo(ctx context.Context) (models.UserInfo, error)
	UserInfos(ctx context.Context, ids []string) ([]models.UserInfo, error)
	ActiveStreams(ctx context.Context, ids []string) ([]models.StreamInfo, error)
	GameNames(ctx context.Context, ids []string) ([]models.Game, error)
	Follows(ctx context.Context, followerID string) ([]models.FollowEdge, error)
}

type Client struct {
	baseURL        string
	clientID       string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHandler
	logger         providers.Logger
	metrics        providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, tokens TokenSource, onUnauthorized UnauthorizedHandler) *Client {
	return &Client{
		baseURL:        conf.Twitch.BaseURL,
		clientID:       conf.Twitch.ClientID,
		httpClient:     &http.Client{Timeout: conf.Twitch.Timeout},
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
		logger:         logger,
		metrics:        metrics,
	}
}

// get issues one authenticated GET. The query string is appended only
// when non-empty. On 401 the unauthorized handler fires and the error
// body is still returned; envelope decoding downstream then fails the
// data-presence check.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("twitch: build request %s: %w", endpoint, err)
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.tokens.Token())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorf(providers.TypePoll, "request %s failed: %s", endpoint, err)
		return nil, fmt.Errorf("twitch: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.metrics.IncHelixRequests(endpoint, resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warnf(providers.TypePoll, "unauthorized on %s, clearing credential", endpoint)
		c.metrics.IncUnauthorized()
		c.onUnauthorized.HandleUnauthorized()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("twitch: read %s response: %w", endpoint, err)
	}
	return body, nil
}

type pagination struct {
	Cursor string `json:"cursor"`
}

type envelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination pagination      `json:"pagination"`
}

// decodeEnvelope distinguishes "data": [] (valid, empty) from a
// missing data key (error body, malformed response).
func decodeEnvelope(body []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("twitch: decode response: %w", err)
	}
	if env.Data == nil {
		return nil, ErrMissingData
	}
	return &env, nil
}
