package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/makuzaza/rss-ecomm-task/internal/domain"
	"github.com/makuzaza/rss-ecomm-task/internal/storage"
)

// Config carries the platform endpoints and the storefront's API client
// credentials.
type Config struct {
	APIURL       string
	AuthURL      string
	ProjectKey   string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Factory builds client handles for the current identity. Customer
// tokens are persisted into the session store so a later start can
// resume the signed-in identity; anonymous tokens never touch the
// store.
type Factory struct {
	cfg        Config
	httpClient *http.Client
	store      *storage.Store
	logger     *log.Logger
}

// NewFactory wires a Factory. httpClient may be nil, in which case a
// default client with a 30s timeout is used.
func NewFactory(cfg Config, store *storage.Store, httpClient *http.Client, logger *log.Logger) *Factory {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Factory{
		cfg:        cfg,
		httpClient: httpClient,
		store:      store,
		logger:     logger,
	}
}

// BuildAnonymous issues a device-scoped anonymous identity and returns
// a handle bound to its token. The token lives only on the handle; the
// stored accessToken key is reserved for customer tokens, so a stored
// token always means a signed-in customer.
func (f *Factory) BuildAnonymous(ctx context.Context) (*Client, error) {
	anonymousID := f.store.EnsureAnonymousID()

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", f.scopeString())
	form.Set("anonymous_id", anonymousID)

	tok, err := f.requestToken(ctx, fmt.Sprintf("/oauth/%s/anonymous/token", f.cfg.ProjectKey), form)
	if err != nil {
		return nil, fmt.Errorf("anonymous token: %w", err)
	}
	return f.BuildWithToken(tok.AccessToken), nil
}

// BuildWithPassword exchanges customer credentials through the password
// grant and returns an authenticated handle. The issued token is
// persisted before the handle is returned.
func (f *Factory) BuildWithPassword(ctx context.Context, email, password string) (*Client, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", email)
	form.Set("password", password)
	form.Set("scope", f.scopeString())

	tok, err := f.requestToken(ctx, fmt.Sprintf("/oauth/%s/customers/token", f.cfg.ProjectKey), form)
	if err != nil {
		if isCredentialError(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("password token: %w", err)
	}
	f.persist(tok)
	return f.BuildWithToken(tok.AccessToken), nil
}

// BuildWithToken wraps an existing bearer token. No network call is
// made and the platform will not re-authenticate behind our back.
func (f *Factory) BuildWithToken(token string) *Client {
	return newClient(f.cfg.APIURL, f.cfg.ProjectKey, token, f.httpClient, f.logger)
}

// InitFromStorage resolves the startup handle: a stored, still-valid
// customer token yields an authenticated handle, anything else falls
// back to a fresh anonymous one. The fallback is unconditional so a
// corrupted or expired token can never leave the application without a
// usable handle. The second return value reports whether the handle is
// customer-token-backed (the caller still has to verify the token
// against the platform).
func (f *Factory) InitFromStorage(ctx context.Context) (*Client, bool, error) {
	if f.store.TokenValid() {
		if tok, ok := f.store.Token(); ok {
			return f.BuildWithToken(tok.Token), true, nil
		}
	}
	client, err := f.BuildAnonymous(ctx)
	if err != nil {
		return nil, false, err
	}
	return client, false, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

func (f *Factory) requestToken(ctx context.Context, path string, form url.Values) (tokenResponse, error) {
	u := strings.TrimSuffix(f.cfg.AuthURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return tokenResponse{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(f.cfg.ClientID, f.cfg.ClientSecret)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return tokenResponse{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return tokenResponse{}, err
	}
	if resp.StatusCode >= 400 {
		return tokenResponse{}, decodeError(resp.StatusCode, data)
	}

	var tok tokenResponse
	if err := json.Unmarshal(data, &tok); err != nil {
		return tokenResponse{}, fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return tokenResponse{}, errors.New("token response missing access_token")
	}
	return tok, nil
}

// persist writes an issued customer token into the session store.
// Failing to persist is logged but does not invalidate the handle
// being built.
func (f *Factory) persist(tok tokenResponse) {
	err := f.store.SetToken(domain.Token{
		Token:          tok.AccessToken,
		ExpirationTime: time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second).UnixMilli(),
		RefreshToken:   tok.RefreshToken,
	})
	if err != nil {
		f.logger.Printf("platform: persist token: %v", err)
	}
}

func (f *Factory) scopeString() string {
	return strings.Join(f.cfg.Scopes, " ")
}

// isCredentialError recognizes the platform's invalid-credentials
// answers to the password grant.
func isCredentialError(err error) bool {
	if errors.Is(err, domain.ErrUnauthorized) {
		return true
	}
	var pe *domain.PlatformError
	if errors.As(err, &pe) {
		if pe.HasCode("invalid_customer_account_credentials") {
			return true
		}
		return pe.StatusCode == http.StatusBadRequest &&
			strings.Contains(pe.Message, "credentials")
	}
	return false
}
