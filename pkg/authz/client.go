// Package authz is a client for the external authorization server's
// resource-owner-password token endpoint. The server mints the access and
// refresh tokens; this service only relays credentials and records the
// resulting grant, so tokens are treated as opaque apart from reading the
// realm roles embedded in the access token.
package authz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrRejected reports that the authorization server refused the supplied
// credentials. It is terminal, callers must not retry it.
var ErrRejected = errors.New("authz: credentials rejected")

// Grant is a successful token response.
type Grant struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	Roles        []string
}

// Client talks to a single token endpoint. The zero value is not usable,
// TokenURL and ClientID are required.
type Client struct {
	TokenURL     string
	ClientID     string
	ClientSecret string // empty for public clients

	// HTTPClient is used for requests; nil selects a client with a sane
	// timeout so a hung authorization server cannot stall callers forever.
	HTTPClient *http.Client
}

var defaultHTTPClient = &http.Client{Timeout: 10 * time.Second}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	ErrorCode        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ObtainToken exchanges the subject's credentials for a token pair using the
// password grant. Credential rejections map to ErrRejected; any other
// failure (transport, 5xx, malformed body) is returned as-is for the caller
// to classify as transient.
func (c *Client) ObtainToken(ctx context.Context, username, password string) (Grant, error) {
	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {c.ClientID},
		"username":   {username},
		"password":   {password},
	}
	if c.ClientSecret != "" {
		form.Set("client_secret", c.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return Grant{}, fmt.Errorf("authz: building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = defaultHTTPClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return Grant{}, fmt.Errorf("authz: token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Grant{}, fmt.Errorf("authz: reading token response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decode below.
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		var tr tokenResponse
		if err := json.Unmarshal(body, &tr); err == nil && tr.ErrorDescription != "" {
			return Grant{}, fmt.Errorf("%w: %s", ErrRejected, tr.ErrorDescription)
		}
		return Grant{}, ErrRejected
	default:
		return Grant{}, fmt.Errorf("authz: token endpoint returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return Grant{}, fmt.Errorf("authz: decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return Grant{}, errors.New("authz: token response missing access_token")
	}

	return Grant{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresIn:    time.Duration(tr.ExpiresIn) * time.Second,
		Roles:        realmRoles(tr.AccessToken),
	}, nil
}

// realmRoles extracts the realm_access.roles claim from the access token.
// The claims are read without signature verification: this service is the
// grant's recipient over a trusted channel, not its audience-side verifier.
// Opaque (non-JWT) tokens simply yield no roles.
func realmRoles(accessToken string) []string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil
	}

	realmAccess, ok := claims["realm_access"].(map[string]any)
	if !ok {
		return nil
	}
	rawRoles, ok := realmAccess["roles"].([]any)
	if !ok {
		return nil
	}

	roles := make([]string, 0, len(rawRoles))
	for _, r := range rawRoles {
		if s, ok := r.(string); ok && s != "" {
			roles = append(roles, s)
		}
	}
	return roles
}
