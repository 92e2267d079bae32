package client

import (
	"context"
	"net/http"

	"foundernet/pkg/users"
)

// Login exchanges credentials for a token, which the client then sends on every request.
func (c *Client) Login(ctx context.Context, email, password string) (users.AuthResult, error) {
	body := map[string]string{"email": email, "password": password}

	var res users.AuthResult
	if _, err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, body, &res); err != nil {
		return users.AuthResult{}, err
	}
	c.SetToken(res.Token)
	return res, nil
}

// Logout clears the server cookie and forgets the token even if the call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.SetToken("")
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	return err
}

// Me returns the signed-in user. The bool is false when the server answered without data.
func (c *Client) Me(ctx context.Context) (users.User, bool, error) {
	var u users.User
	present, err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &u)
	return u, present, err
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/password/forgot", nil, map[string]string{"email": email}, nil)
	return err
}

func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	body := map[string]string{"email": email, "code": code, "new_password": newPassword}
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/password/reset", nil, body, nil)
	return err
}
