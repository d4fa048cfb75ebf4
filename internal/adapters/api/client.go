// Package api
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"medai/internal/config"
	"medai/internal/domain"
	"medai/internal/logger"
)

// Client talks to the portal backend. It performs exactly two remote
// operations and classifies every failure into the closed error set in
// domain, so callers never inspect HTTP details.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

func NewClient(cfg *config.Config, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		http:    &http.Client{Timeout: cfg.APITimeout},
		log:     log,
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	return c.post(ctx, "/login", domain.Credentials{
		Email:    email,
		Password: password,
	})
}

func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResponse, error) {
	return c.post(ctx, "/signup", req)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*domain.AuthResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal payload: %v", domain.ErrUnknownClient, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrUnknownClient, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	res, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("auth request failed before a response arrived", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrNetworkUnreachable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, classifyStatus(res)
	}

	var out domain.AuthResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil || out.Token == "" {
		c.log.Warn("auth response body unusable", "path", path, "status", res.StatusCode)
		return nil, &domain.ServerRejectedError{
			Status:  res.StatusCode,
			Message: "invalid server response",
		}
	}

	return &out, nil
}

func classifyStatus(res *http.Response) error {
	switch res.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrInvalidCredentials
	case http.StatusNotFound:
		return domain.ErrAccountNotFound
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	}

	var body struct {
		Message string `json:"message"`
	}
	if raw, err := io.ReadAll(io.LimitReader(res.Body, 4096)); err == nil {
		_ = json.Unmarshal(raw, &body)
	}

	return &domain.ServerRejectedError{
		Status:  res.StatusCode,
		Message: body.Message,
	}
}
