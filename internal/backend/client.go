package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"waba-admin/internal/config"
	"waba-admin/internal/logging"
)

// Client talks to the reseller REST backend on behalf of a staff session.
type Client struct {
	BaseURL       string
	StaticToken   string
	AnalyticsPath string
	HTTP          *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		BaseURL:       cfg.BackendBaseURL,
		StaticToken:   cfg.StaticAuthToken,
		AnalyticsPath: cfg.AnalyticsPath,
		HTTP:          &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error: %d - %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API error: %d - %s", e.Status, e.Body)
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// ServerMessage returns the message the backend attached to a failure.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// --- Helper Functions ---

func (c *Client) sendRequest(ctx context.Context, method, path string, body interface{}, token string, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}

	if token == "" {
		token = c.StaticToken
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response of %s: %w", path, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
		var failure struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(respBody, &failure) == nil {
			apiErr.Message = failure.Message
			if apiErr.Message == "" {
				apiErr.Message = failure.Error
			}
		}
		logging.WithContext(ctx).Warnf("backend %s %s: %v", method, path, apiErr)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response of %s: %w", path, err)
	}
	return nil
}
