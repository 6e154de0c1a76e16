// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/justadios/adios/internal/domain"
)

const (
	// AuthorizeURL is the Zoom OAuth consent page
	AuthorizeURL = "https://zoom.us/oauth/authorize"
	// TokenURL is the Zoom OAuth token endpoint
	TokenURL = "https://zoom.us/oauth/token"
)

// OAuthConfig holds the configuration for the Zoom OAuth provider
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Optional: override endpoints for testing
	AuthorizeURL string
	TokenURL     string
}

// OAuthClient implements the user-level OAuth flows against Zoom.
type OAuthClient struct {
	oauthConfig *oauth2.Config
	apiClient   *Client
}

// Ensure that OAuthClient implements the OAuth provider interface
var _ domain.OAuthProvider = (*OAuthClient)(nil)

// NewOAuthClient creates a new Zoom OAuth client
func NewOAuthClient(config OAuthConfig, apiClient *Client) *OAuthClient {
	if config.AuthorizeURL == "" {
		config.AuthorizeURL = AuthorizeURL
	}
	if config.TokenURL == "" {
		config.TokenURL = TokenURL
	}

	return &OAuthClient{
		oauthConfig: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.AuthorizeURL,
				TokenURL: config.TokenURL,
				// Zoom expects client credentials via HTTP basic auth.
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		apiClient: apiClient,
	}
}

// AuthCodeURL builds the consent page URL for the given state.
func (o *OAuthClient) AuthCodeURL(state string) string {
	return o.oauthConfig.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for a token set.
func (o *OAuthClient) ExchangeCode(ctx context.Context, code string) (*domain.OAuthToken, error) {
	token, err := o.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return oauthToken(token), nil
}

// RefreshAccessToken trades a refresh token for a new token set. Zoom
// rotates the refresh token on every grant, so the caller must persist
// the returned one.
func (o *OAuthClient) RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.OAuthToken, error) {
	source := o.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing access token: %w", err)
	}
	return oauthToken(token), nil
}

// zoomUserResponse represents the response from the get user endpoint
type zoomUserResponse struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// CurrentUser returns the Zoom account the access token belongs to.
func (o *OAuthClient) CurrentUser(ctx context.Context, accessToken string) (*domain.OAuthUserInfo, error) {
	resp, err := o.apiClient.doRequest(ctx, http.MethodGet, "/users/me", accessToken, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := o.apiClient.checkStatus(ctx, resp, http.StatusOK); err != nil {
		return nil, err
	}

	var user zoomUserResponse
	if err := decodeResponse(resp, &user); err != nil {
		return nil, err
	}

	displayName := user.DisplayName
	if displayName == "" {
		displayName = user.FirstName + " " + user.LastName
	}

	return &domain.OAuthUserInfo{
		ID:          user.ID,
		DisplayName: displayName,
		Email:       user.Email,
	}, nil
}

func oauthToken(token *oauth2.Token) *domain.OAuthToken {
	return &domain.OAuthToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
}
