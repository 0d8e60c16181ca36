// Package client provides a Go client for the vault's secret store API.
//
// A client authenticates with its credentials, caches the issued session
// token through an injected TokenCache, and renews it automatically before
// expiry. All secret operations are scoped to a single namespace, normally
// the calling module's own.
//
// Usage:
//
//	c, err := client.New(client.Config{
//		BaseURL:      "http://vault:8080",
//		ClientID:     "telegram-bot",
//		ClientSecret: os.Getenv("VAULT_CLIENT_SECRET"),
//	})
//	if err != nil { ... }
//	values, err := c.GetAll(ctx) // everything the module needs at startup
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sentinel errors returned by client operations. Wrapped with request context;
// match with errors.Is.
var (
	// ErrNotFound indicates the requested secret does not exist.
	ErrNotFound = errors.New("secret not found")

	// ErrUnauthorized indicates the credentials were rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the namespace is outside the client's grants.
	ErrForbidden = errors.New("namespace access forbidden")
)

// defaultRenewMargin is how long before expiry a cached token is renewed, so
// a token never expires mid-request.
const defaultRenewMargin = 2 * time.Minute

// defaultTimeout bounds each HTTP request when no custom http.Client is given.
const defaultTimeout = 5 * time.Second

// Config holds the settings for a vault client.
type Config struct {
	// BaseURL is the vault server address (e.g., "http://vault:8080").
	BaseURL string

	// ClientID and ClientSecret are the registered client credentials.
	ClientID     string
	ClientSecret string

	// Namespace scopes all secret operations. Defaults to ClientID.
	Namespace string

	// HTTPClient is the underlying HTTP client. Defaults to one with a
	// 5 second timeout.
	HTTPClient *http.Client

	// TokenCache stores the session token between requests. Defaults to a
	// fresh in-process cache private to this client.
	TokenCache TokenCache

	// RenewMargin is how long before expiry the token is renewed.
	// Defaults to 2 minutes.
	RenewMargin time.Duration
}

// Client is a vault API client scoped to one namespace.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	namespace    string
	httpClient   *http.Client
	tokenCache   TokenCache
	renewMargin  time.Duration
}

// New creates a vault client from the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client ID and client secret are required")
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = cfg.ClientID
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	tokenCache := cfg.TokenCache
	if tokenCache == nil {
		tokenCache = NewMemoryTokenCache()
	}

	renewMargin := cfg.RenewMargin
	if renewMargin <= 0 {
		renewMargin = defaultRenewMargin
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		namespace:    namespace,
		httpClient:   httpClient,
		tokenCache:   tokenCache,
		renewMargin:  renewMargin,
	}, nil
}

// Namespace returns the namespace this client operates on.
func (c *Client) Namespace() string {
	return c.namespace
}

// secretResponse mirrors the server's decrypted secret payload.
type secretResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// namespaceValuesResponse mirrors the server's bulk read payload.
type namespaceValuesResponse struct {
	Data map[string]string `json:"data"`
}

// listKeysResponse mirrors the server's key listing payload.
type listKeysResponse struct {
	Data []struct {
		Key string `json:"key"`
	} `json:"data"`
}

// sessionTokenResponse mirrors the server's token issue payload.
type sessionTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get returns the value of a single secret key.
// Returns ErrNotFound when the key does not exist.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	var response secretResponse
	path := fmt.Sprintf("/secrets/%s/%s", url.PathEscape(c.namespace), url.PathEscape(key))
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return "", err
	}
	return response.Value, nil
}

// GetAll returns every secret in the client's namespace as key to value.
// Intended as the primary startup call for a module fetching its whole
// configuration in one round trip.
func (c *Client) GetAll(ctx context.Context) (map[string]string, error) {
	var response namespaceValuesResponse
	path := fmt.Sprintf("/secrets/%s", url.PathEscape(c.namespace))
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// Set writes a secret value, creating or overwriting the key.
func (c *Client) Set(ctx context.Context, key, value, description string) error {
	body := map[string]string{"value": value}
	if description != "" {
		body["description"] = description
	}
	path := fmt.Sprintf("/secrets/%s/%s", url.PathEscape(c.namespace), url.PathEscape(key))
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// Delete removes a secret key. Returns ErrNotFound when the key did not exist.
func (c *Client) Delete(ctx context.Context, key string) error {
	path := fmt.Sprintf("/secrets/%s/%s", url.PathEscape(c.namespace), url.PathEscape(key))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListKeys returns the secret keys in the namespace without decrypting values.
func (c *Client) ListKeys(ctx context.Context) ([]string, error) {
	var response listKeysResponse
	path := fmt.Sprintf("/secrets/%s/keys", url.PathEscape(c.namespace))
	if err := c.do(ctx, http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(response.Data))
	for _, item := range response.Data {
		keys = append(keys, item.Key)
	}
	return keys, nil
}

// do executes one authenticated request, renewing the session token when the
// server rejects it. A 401 clears the cache and retries exactly once with a
// fresh token.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.sessionToken(ctx)
	if err != nil {
		return err
	}

	status, responseBody, err := c.request(ctx, method, path, body, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		c.tokenCache.Clear()
		token, err = c.sessionToken(ctx)
		if err != nil {
			return err
		}
		status, responseBody, err = c.request(ctx, method, path, body, token)
		if err != nil {
			return err
		}
	}

	if err := mapStatusError(status, method, path); err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(responseBody, out); err != nil {
			return fmt.Errorf("failed to decode response for %s %s: %w", method, path, err)
		}
	}

	return nil
}

// request performs a single HTTP round trip with the given bearer token.
func (c *Client) request(
	ctx context.Context,
	method, path string,
	body interface{},
	token string,
) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return 0, nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = response.Body.Close() }()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	return response.StatusCode, responseBody, nil
}

// sessionToken returns a valid session token, authenticating when the cached
// one is absent or inside the renewal margin.
func (c *Client) sessionToken(ctx context.Context) (string, error) {
	if token, expiresAt, ok := c.tokenCache.Get(); ok {
		if time.Now().Before(expiresAt.Add(-c.renewMargin)) {
			return token, nil
		}
	}
	return c.authenticate(ctx)
}

// authenticate requests a fresh session token and stores it in the cache.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode credentials: %w", err)
	}

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/auth/token",
		bytes.NewReader(payload),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if response.StatusCode == http.StatusUnauthorized {
		return "", fmt.Errorf("authentication as %q: %w", c.clientID, ErrUnauthorized)
	}
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected token response status %d", response.StatusCode)
	}

	var tokenResponse sessionTokenResponse
	if err := json.Unmarshal(responseBody, &tokenResponse); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	c.tokenCache.Set(tokenResponse.Token, tokenResponse.ExpiresAt)
	return tokenResponse.Token, nil
}

// mapStatusError converts a non-success HTTP status into a sentinel error.
func mapStatusError(status int, method, path string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case status == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, ErrForbidden)
	default:
		return fmt.Errorf("%s %s: unexpected status %d", method, path, status)
	}
}
