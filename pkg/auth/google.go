package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	ProviderGoogle = "google"

	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleOAuthConfig holds configuration for the Google provider. An empty
// ClientID disables Google sign-in.
type GoogleOAuthConfig struct {
	ClientID     string        `env:"GOOGLE_OAUTH_CLIENT_ID"`
	ClientSecret string        `env:"GOOGLE_OAUTH_CLIENT_SECRET"`
	RedirectURL  string        `env:"GOOGLE_OAUTH_REDIRECT_URL" envDefault:"http://localhost:3000/api/auth/google/callback"`
	Scopes       []string      `env:"GOOGLE_OAUTH_SCOPES" envSeparator:"," envDefault:"openid,https://www.googleapis.com/auth/userinfo.email,https://www.googleapis.com/auth/userinfo.profile"`
	StateTTL     time.Duration `env:"GOOGLE_OAUTH_STATE_TTL" envDefault:"10m"`
}

// Enabled reports whether Google credentials are configured.
func (c GoogleOAuthConfig) Enabled() bool { return c.ClientID != "" && c.ClientSecret != "" }

// GoogleProvider runs the authorization code flow against Google.
type GoogleProvider struct {
	conf        *oauth2.Config
	httpClient  *http.Client
	userInfoURL string
}

type GoogleOption func(*GoogleProvider)

// WithGoogleEndpoint overrides the OAuth endpoint and the userinfo URL.
func WithGoogleEndpoint(endpoint oauth2.Endpoint, userInfoURL string) GoogleOption {
	return func(p *GoogleProvider) {
		p.conf.Endpoint = endpoint
		p.userInfoURL = userInfoURL
	}
}

func WithGoogleHTTPClient(c *http.Client) GoogleOption {
	return func(p *GoogleProvider) {
		if c != nil {
			p.httpClient = c
		}
	}
}

func NewGoogleProvider(cfg GoogleOAuthConfig, opts ...GoogleOption) *GoogleProvider {
	p := &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     google.Endpoint,
		},
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		userInfoURL: googleUserInfoURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *GoogleProvider) Name() string { return ProviderGoogle }

// AuthURL builds the consent screen URL carrying state.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the user's profile. Failures
// are ErrOAuthExchange.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (ExternalProfile, error) {
	if code == "" {
		return ExternalProfile{}, ErrOAuthExchange
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return ExternalProfile{}, wrap(ErrOAuthExchange, err)
	}

	u, err := p.fetchUser(ctx, tok.AccessToken)
	if err != nil {
		return ExternalProfile{}, wrap(ErrOAuthExchange, err)
	}

	return ExternalProfile{
		Provider:      ProviderGoogle,
		ProviderID:    u.ID,
		Email:         u.Email,
		EmailVerified: u.VerifiedEmail,
		Name:          u.Name,
	}, nil
}

func (p *GoogleProvider) fetchUser(ctx context.Context, accessToken string) (*googleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned status %d", resp.StatusCode)
	}

	var u googleUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("failed to decode google user: %w", err)
	}
	if u.ID == "" {
		return nil, fmt.Errorf("google user has no id")
	}
	return &u, nil
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}
