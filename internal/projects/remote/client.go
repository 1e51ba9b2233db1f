// Package remote talks to the hosted functions API the site replicates into.
// Endpoints follow the functions naming (projects-get, projects-add, ...)
// and every response uses the {success, message, project, projects} envelope.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/takdev/portfolio-backend/internal/projects/domain"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	credential string
	httpClient *http.Client
}

// New builds a client for the remote API rooted at baseURL. credential is
// sent as X-Admin-Auth on every mutating call.
func New(baseURL, credential string) *Client {
	return &Client{
		baseURL:    baseURL,
		credential: credential,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type envelope struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Project  *domain.Project  `json:"project"`
	Projects []domain.Project `json:"projects"`
}

// FetchAll retrieves the full remote project list.
func (c *Client) FetchAll(ctx context.Context) ([]domain.Project, error) {
	env, err := c.do(ctx, http.MethodGet, "/projects-get", nil)
	if err != nil {
		return nil, err
	}
	if env.Projects == nil {
		return []domain.Project{}, nil
	}
	return env.Projects, nil
}

// PushAdd replicates a create to the remote store.
func (c *Client) PushAdd(ctx context.Context, p domain.Project) error {
	_, err := c.do(ctx, http.MethodPost, "/projects-add", p)
	return err
}

// PushUpdate replicates an update to the remote store.
func (c *Client) PushUpdate(ctx context.Context, p domain.Project) error {
	_, err := c.do(ctx, http.MethodPut, "/projects-update?id="+url.QueryEscape(p.ID), p)
	return err
}

// PushDelete replicates a delete to the remote store.
func (c *Client) PushDelete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/projects-delete?id="+url.QueryEscape(id), nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.credential != "" {
		req.Header.Set("X-Admin-Auth", c.credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode remote response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("remote returned %d: %s", resp.StatusCode, msg)
	}
	return &env, nil
}
