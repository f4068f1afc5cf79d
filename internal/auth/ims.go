package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/aepio/aep-client/internal/constants"
)

// TokenManager provides access tokens for API requests.
type TokenManager interface {
	// GetToken returns a valid access token, refreshing if necessary.
	GetToken(ctx context.Context) (string, error)

	// RefreshToken forces a token refresh.
	RefreshToken(ctx context.Context) error
}

// Static errors for err113 compliance.
var (
	ErrNoValidCredentials = errors.New("no valid credentials available")
	ErrEmptyTokenResponse = errors.New("token response contained no access token")
)

// IMSConfig holds IMS OAuth2 configuration for the server-to-server
// client_credentials flow.
type IMSConfig struct {
	// TokenURL is the IMS token endpoint. Defaults to the production
	// endpoint when empty.
	TokenURL string

	// ClientID is the OAuth2 client ID.
	ClientID string

	// ClientSecret is the OAuth2 client secret.
	ClientSecret string

	// Scopes are requested joined with commas, as IMS expects.
	Scopes []string

	// HTTPClient is the client used for token requests. Defaults to a
	// client with a short timeout.
	HTTPClient *http.Client
}

// IMSTokenManager obtains and refreshes access tokens from IMS using the
// OAuth2 client_credentials grant. Unlike RFC 6749 servers, IMS takes the
// client credentials as form fields rather than basic auth, and the scope
// list is comma-separated.
type IMSTokenManager struct {
	config *IMSConfig
	store  *TokenStore
	mu     sync.Mutex
}

// NewIMSTokenManager creates a token manager for the given configuration.
func NewIMSTokenManager(config *IMSConfig) *IMSTokenManager {
	if config.TokenURL == "" {
		config.TokenURL = constants.DefaultIMSTokenURL
	}

	if config.HTTPClient == nil {
		// Token requests are safe to replay, so transient failures retry.
		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = constants.LowRetryMax
		retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
		retryClient.RetryWaitMax = constants.ExtendedRetryWaitMax
		retryClient.HTTPClient.Timeout = constants.ShortHTTPTimeout
		retryClient.Logger = nil

		config.HTTPClient = retryClient.StandardClient()
	}

	return &IMSTokenManager{
		config: config,
		store:  NewTokenStore(),
	}
}

// GetToken returns a valid access token, requesting a fresh one from IMS
// when the stored token is missing or expiring.
func (m *IMSTokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if token.Valid() {
		return token.AccessToken, nil
	}

	err := m.RefreshToken(ctx)
	if err != nil {
		return "", err
	}

	return m.store.Get().AccessToken, nil
}

// RefreshToken forces a token refresh.
func (m *IMSTokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	if token := m.store.Get(); token.Valid() {
		return nil
	}

	if m.config.ClientID == "" || m.config.ClientSecret == "" {
		return ErrNoValidCredentials
	}

	token, err := m.requestToken(ctx)
	if err != nil {
		return err
	}

	m.store.Set(token)

	return nil
}

// SetToken manually sets the access token.
func (m *IMSTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

// TokenExpiry returns the current token's expiration time.
func (m *IMSTokenManager) TokenExpiry() time.Time {
	token := m.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

func (m *IMSTokenManager) requestToken(ctx context.Context) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.config.ClientID)
	form.Set("client_secret", m.config.ClientSecret)
	form.Set("scope", strings.Join(m.config.Scopes, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.config.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseTokenError(resp.StatusCode, body)
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	if token.AccessToken == "" {
		return nil, ErrEmptyTokenResponse
	}

	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return &token, nil
}

// TokenError is an OAuth2 error response from the IMS token endpoint.
type TokenError struct {
	StatusCode  int
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *TokenError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("token request failed: %s: %s (status: %d)", e.Code, e.Description, e.StatusCode)
	}

	if e.Code != "" {
		return fmt.Sprintf("token request failed: %s (status: %d)", e.Code, e.StatusCode)
	}

	return fmt.Sprintf("token request failed with status %d", e.StatusCode)
}

func parseTokenError(statusCode int, body []byte) error {
	tokenErr := &TokenError{StatusCode: statusCode}
	_ = json.Unmarshal(body, tokenErr)

	return tokenErr
}

// StaticTokenManager serves a fixed token and never refreshes. Used when the
// caller supplies a pre-obtained access token.
type StaticTokenManager struct {
	token string
}

// NewStaticTokenManager creates a token manager for a fixed token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the fixed token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	if m.token == "" {
		return "", ErrNoValidCredentials
	}

	return m.token, nil
}

// RefreshToken is a no-op for static tokens.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return nil
}
