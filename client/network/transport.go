package network

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cbodonnell/arena/pkg/messages"
)

const (
	DefaultServerURL = "http://localhost:8080"

	// maxErrorBodyBytes caps how much of an error response is read for its message
	maxErrorBodyBytes = 4 << 10
)

// Transport is the request/response exchange with the session server.
type Transport interface {
	Join(ctx context.Context, code string) (*messages.WorldSnapshot, error)
	World(ctx context.Context, code string) (*messages.WorldSnapshot, error)
	Projectiles(ctx context.Context, code string) (*messages.ProjectilesResponse, error)
	Explosives(ctx context.Context, code string) (*messages.ExplosivesResponse, error)
	SubmitIntent(ctx context.Context, code string, intent *messages.Intent) (*messages.IntentResponse, error)
	Leave(ctx context.Context, code string, playerID string) (*messages.LeaveResponse, error)
}

// HTTPClient implements Transport against the session API.
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	contentType string
}

// NewHTTPClientOptions contains options for creating a new HTTPClient.
type NewHTTPClientOptions struct {
	// BaseURL is the server root, e.g. http://localhost:8080
	BaseURL string
	// HTTPClient defaults to a client with a 5s timeout
	HTTPClient *http.Client
	// Msgpack requests msgpack encoded responses and sends msgpack bodies
	Msgpack bool
}

// NewHTTPClient creates a new HTTPClient.
func NewHTTPClient(opts NewHTTPClientOptions) (*HTTPClient, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server url: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported server url scheme: %q", u.Scheme)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}

	contentType := messages.ContentTypeJSON
	if opts.Msgpack {
		contentType = messages.ContentTypeMsgpack
	}

	return &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		contentType: contentType,
	}, nil
}

func (c *HTTPClient) Join(ctx context.Context, code string) (*messages.WorldSnapshot, error) {
	snapshot := &messages.WorldSnapshot{}
	if err := c.do(ctx, http.MethodPost, sessionPath(code, ""), nil, snapshot); err != nil {
		return nil, fmt.Errorf("failed to join session: %w", err)
	}
	return snapshot, nil
}

func (c *HTTPClient) World(ctx context.Context, code string) (*messages.WorldSnapshot, error) {
	snapshot := &messages.WorldSnapshot{}
	if err := c.do(ctx, http.MethodGet, sessionPath(code, ""), nil, snapshot); err != nil {
		return nil, fmt.Errorf("failed to get world: %w", err)
	}
	return snapshot, nil
}

func (c *HTTPClient) Projectiles(ctx context.Context, code string) (*messages.ProjectilesResponse, error) {
	resp := &messages.ProjectilesResponse{}
	if err := c.do(ctx, http.MethodGet, sessionPath(code, "/projectiles"), nil, resp); err != nil {
		return nil, fmt.Errorf("failed to get projectiles: %w", err)
	}
	return resp, nil
}

func (c *HTTPClient) Explosives(ctx context.Context, code string) (*messages.ExplosivesResponse, error) {
	resp := &messages.ExplosivesResponse{}
	if err := c.do(ctx, http.MethodGet, sessionPath(code, "/explosives"), nil, resp); err != nil {
		return nil, fmt.Errorf("failed to get explosives: %w", err)
	}
	return resp, nil
}

func (c *HTTPClient) SubmitIntent(ctx context.Context, code string, intent *messages.Intent) (*messages.IntentResponse, error) {
	resp := &messages.IntentResponse{}
	if err := c.do(ctx, http.MethodPost, sessionPath(code, "/intents"), intent, resp); err != nil {
		return nil, fmt.Errorf("failed to submit %s intent: %w", intent.Kind, err)
	}
	return resp, nil
}

func (c *HTTPClient) Leave(ctx context.Context, code string, playerID string) (*messages.LeaveResponse, error) {
	resp := &messages.LeaveResponse{}
	req := &messages.LeaveRequest{PlayerID: playerID}
	if err := c.do(ctx, http.MethodPost, sessionPath(code, "/leave"), req, resp); err != nil {
		return nil, fmt.Errorf("failed to leave session: %w", err)
	}
	return resp, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := messages.Encode(c.contentType, body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", c.contentType)
	if body != nil {
		req.Header.Set("Content-Type", c.contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return unexpectedStatus(resp)
	}

	return messages.Decode(resp.Header.Get("Content-Type"), resp.Body, out)
}

func unexpectedStatus(resp *http.Response) error {
	errResp := &messages.ErrorResponse{}
	limited := io.LimitReader(resp.Body, maxErrorBodyBytes)
	if err := messages.Decode(resp.Header.Get("Content-Type"), limited, errResp); err != nil {
		errResp.Error = ""
	}
	return &ErrUnexpectedStatus{StatusCode: resp.StatusCode, Message: errResp.Error}
}

func sessionPath(code string, suffix string) string {
	return "/sessions/" + url.PathEscape(code) + suffix
}
