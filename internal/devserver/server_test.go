package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"medai/internal/adapters/api"
	"medai/internal/config"
	"medai/internal/domain"
	"medai/internal/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
		LogLevel:  "error",
		LogFormat: "text",
	}
	srv := httptest.NewServer(New(cfg, logger.New(cfg)).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	res, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestLoginDemoAccount(t *testing.T) {
	srv := newTestServer(t)

	res := postJSON(t, srv.URL+"/login", domain.Credentials{
		Email:    "demo@medai.health",
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out domain.AuthResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	require.NotEmpty(t, out.User.ID())
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)

	res := postJSON(t, srv.URL+"/login", domain.Credentials{
		Email:    "demo@medai.health",
		Password: "wrongpass",
	})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestLoginUnknownAccount(t *testing.T) {
	srv := newTestServer(t)

	res := postJSON(t, srv.URL+"/login", domain.Credentials{
		Email:    "nobody@example.com",
		Password: "whatever1",
	})
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	srv := newTestServer(t)

	creds := domain.Credentials{Email: "demo@medai.health", Password: "wrongpass"}
	for i := 0; i < maxFailedLogins; i++ {
		res := postJSON(t, srv.URL+"/login", creds)
		require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	}

	res := postJSON(t, srv.URL+"/login", creds)
	require.Equal(t, http.StatusTooManyRequests, res.StatusCode)

	// Even the right password is rejected while locked out.
	res = postJSON(t, srv.URL+"/login", domain.Credentials{
		Email:    "demo@medai.health",
		Password: "password123",
	})
	require.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}

func TestSignupAndLogin(t *testing.T) {
	srv := newTestServer(t)

	req := domain.SignupRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "longenough",
	}
	res := postJSON(t, srv.URL+"/signup", req)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var out domain.AuthResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	require.Equal(t, "Jane Doe", out.User["name"])

	login := postJSON(t, srv.URL+"/login", domain.Credentials{
		Email:    "jane@example.com",
		Password: "longenough",
	})
	require.Equal(t, http.StatusOK, login.StatusCode)
}

func TestSignupDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	req := domain.SignupRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "longenough",
	}
	first := postJSON(t, srv.URL+"/signup", req)
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second := postJSON(t, srv.URL+"/signup", req)
	require.Equal(t, http.StatusConflict, second.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(second.Body).Decode(&body))
	require.NotEmpty(t, body["message"])
}

// The transport client and the devserver agree on the wire contract.
func TestTransportClientAgainstDevserver(t *testing.T) {
	srv := newTestServer(t)

	cfg := &config.Config{
		APIBaseURL: srv.URL,
		APITimeout: 2 * time.Second,
		LogLevel:   "error",
		LogFormat:  "text",
	}
	client := api.NewClient(cfg, logger.New(cfg))
	ctx := context.Background()

	res, err := client.Login(ctx, "demo@medai.health", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	_, err = client.Login(ctx, "demo@medai.health", "wrongpass")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = client.Login(ctx, "nobody@example.com", "whatever1")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
