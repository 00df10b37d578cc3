package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/chepyr/go-todo-list/internal/models"
)

// APIError is returned for any non-2xx response from the todo API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("todo api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) List(ctx context.Context) ([]*models.Todo, error) {
	var todos []*models.Todo
	if err := c.do(ctx, http.MethodGet, "/todos", nil, http.StatusOK, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) Create(ctx context.Context, task string) (*models.Todo, error) {
	body, err := json.Marshal(map[string]string{"task": task})
	if err != nil {
		return nil, err
	}
	todo := &models.Todo{}
	if err := c.do(ctx, http.MethodPost, "/todos", body, http.StatusCreated, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+strconv.FormatInt(id, 10), nil, http.StatusOK, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, want int, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var apiErr struct {
			Error string `json:"error"`
		}
		message := http.StatusText(resp.StatusCode)
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			message = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
