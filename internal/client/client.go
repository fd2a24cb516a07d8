// Package client talks to the posts backend over REST. It is the HTTP
// collaborator of the feed store and the terminal client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pandaloves/social-posts-app/pkg/utils"
)

const RequestIDHeader = "X-Request-ID"

type Client struct {
	logger     *zap.Logger
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func New(logger *zap.Logger, baseURL string, timeout time.Duration) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer token sent with every request. An empty token
// logs out.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Me returns the claims of the current token without verifying it.
func (c *Client) Me() (utils.Claims, error) {
	token := c.Token()
	if token == "" {
		return utils.Claims{}, ErrNotLoggedIn
	}
	return utils.PeekJWT(token)
}

// do sends one request and returns the body of a 2xx response. Any other
// status becomes a *StatusError.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body any) ([]byte, error) {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		c.logger.Sugar().Errorf("failed to create request to %s: %s", endpoint, err.Error())
		return nil, err
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Sugar().Errorf("failed to send request(%s) %s %s: %s", requestID, method, endpoint, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Sugar().Errorf("failed to read response body(%s) from %s: %s", requestID, endpoint, err.Error())
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			Method:    method,
			Endpoint:  endpoint,
			Status:    resp.StatusCode,
			Details:   errorDetails(respBody),
			RequestID: requestID,
		}
		c.logger.Sugar().Errorf("ERROR from endpoint(%s), details: %s", endpoint, statusErr.Details)
		return nil, statusErr
	}

	return respBody, nil
}

// doJSON is do followed by decoding into out. An empty body leaves out as is.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, query url.Values, body any, out any) error {
	respBody, err := c.do(ctx, method, endpoint, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		c.logger.Sugar().Errorf("failed to decode response body from %s: %s", endpoint, err.Error())
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// errorDetails pulls a readable message out of an error body. Both the
// {"details": ...} and {"message": ...} shapes are in use.
func errorDetails(body []byte) string {
	var bodyJSON map[string]interface{}
	if err := json.Unmarshal(body, &bodyJSON); err == nil {
		for _, key := range []string{"details", "message", "error"} {
			if s, ok := bodyJSON[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(body))
}
