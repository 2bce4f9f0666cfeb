package client

import (
	"context"
	"strings"

	"overcooked-delivery/storefront-svc/internal/domain"
)

// AuthClient talks to the remote auth backend.
type AuthClient struct {
	baseURL string
	client  HTTPClient
}

func NewAuthClient(baseURL string, client HTTPClient) *AuthClient {
	return &AuthClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type loginResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func (c *AuthClient) Login(ctx context.Context, credentials domain.Credentials) (*domain.Session, error) {
	var resp loginResponse
	if err := doJSON(ctx, c.client, "POST", c.baseURL+"/auth/login", "", credentials, &resp); err != nil {
		return nil, err
	}
	return &domain.Session{User: resp.User, AccessToken: resp.Token}, nil
}
