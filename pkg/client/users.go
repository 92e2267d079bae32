package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"foundernet/pkg/users"
)

// SignupRequest mirrors POST /users.
type SignupRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Password      string `json:"password"`
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
	Bio           string `json:"bio,omitempty"`
	Location      string `json:"location,omitempty"`
}

type UpdateUserRequest struct {
	Name          string `json:"name"`
	ProfilePicURL string `json:"profile_pic_url"`
	Bio           string `json:"bio"`
	Location      string `json:"location"`
}

// ListQuery holds the pagination and search parameters shared by list endpoints.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// tabPath maps a directory tab onto its endpoint.
func tabPath(tab users.Tab) string {
	switch tab {
	case users.TabFounders:
		return "/users/founders/"
	case users.TabInvestors:
		return "/users/investors/"
	default:
		return "/users"
	}
}

// CreateUser registers an account and adopts the returned token.
func (c *Client) CreateUser(ctx context.Context, req SignupRequest) (users.AuthResult, error) {
	var res users.AuthResult
	if _, err := c.doJSON(ctx, http.MethodPost, "/users", nil, req, &res); err != nil {
		return users.AuthResult{}, err
	}
	if res.Token != "" {
		c.SetToken(res.Token)
	}
	return res, nil
}

func (c *Client) ListUsers(ctx context.Context, tab users.Tab, q ListQuery) (Page[users.User], error) {
	return getPage[users.User](ctx, c, tabPath(tab), q.values())
}

func (c *Client) GetUser(ctx context.Context, uuid string) (users.User, error) {
	var u users.User
	_, err := c.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(uuid), nil, nil, &u)
	return u, err
}

func (c *Client) UpdateUser(ctx context.Context, uuid string, req UpdateUserRequest) (users.User, error) {
	var u users.User
	_, err := c.doJSON(ctx, http.MethodPut, "/users/"+url.PathEscape(uuid), nil, req, &u)
	return u, err
}

func (c *Client) DeleteUser(ctx context.Context, uuid string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/users/"+url.PathEscape(uuid), nil, nil, nil)
	return err
}

// Follow makes the signed-in user follow uuid.
func (c *Client) Follow(ctx context.Context, uuid string) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/users/"+url.PathEscape(uuid)+"/follow", nil, nil, nil)
	return err
}

func (c *Client) Unfollow(ctx context.Context, uuid string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/users/"+url.PathEscape(uuid)+"/follow", nil, nil, nil)
	return err
}
