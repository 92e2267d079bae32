package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"foundernet/pkg/admin"
	"foundernet/pkg/posts"
	"foundernet/pkg/uploads"
)

type PostRequest struct {
	Title    string `json:"title,omitempty"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
}

type PostQuery struct {
	Page       int
	Limit      int
	AuthorUUID string
}

func postPath(id int64) string {
	return fmt.Sprintf("/posts/%d", id)
}

func (c *Client) CreatePost(ctx context.Context, req PostRequest) (posts.Post, error) {
	var p posts.Post
	_, err := c.doJSON(ctx, http.MethodPost, "/posts", nil, req, &p)
	return p, err
}

func (c *Client) ListPosts(ctx context.Context, q PostQuery) (Page[posts.Post], error) {
	v := ListQuery{Page: q.Page, Limit: q.Limit}.values()
	if q.AuthorUUID != "" {
		v.Set("author", q.AuthorUUID)
	}
	return getPage[posts.Post](ctx, c, "/posts", v)
}

func (c *Client) GetPost(ctx context.Context, id int64) (posts.Post, error) {
	var p posts.Post
	_, err := c.doJSON(ctx, http.MethodGet, postPath(id), nil, nil, &p)
	return p, err
}

func (c *Client) DeletePost(ctx context.Context, id int64) error {
	_, err := c.doJSON(ctx, http.MethodDelete, postPath(id), nil, nil, nil)
	return err
}

func (c *Client) LikePost(ctx context.Context, postID int64, userUUID string) (posts.LikeState, error) {
	var s posts.LikeState
	_, err := c.doJSON(ctx, http.MethodPost, postPath(postID)+"/like/"+url.PathEscape(userUUID), nil, nil, &s)
	return s, err
}

func (c *Client) UnlikePost(ctx context.Context, postID int64, userUUID string) (posts.LikeState, error) {
	var s posts.LikeState
	_, err := c.doJSON(ctx, http.MethodDelete, postPath(postID)+"/like/"+url.PathEscape(userUUID), nil, nil, &s)
	return s, err
}

func (c *Client) AddComment(ctx context.Context, postID int64, content string) (posts.Comment, error) {
	var cm posts.Comment
	_, err := c.doJSON(ctx, http.MethodPost, postPath(postID)+"/comments", nil, map[string]string{"content": content}, &cm)
	return cm, err
}

func (c *Client) ListComments(ctx context.Context, postID int64) ([]posts.Comment, error) {
	return getList[posts.Comment](ctx, c, postPath(postID)+"/comments", nil)
}

// Upload sends r as the multipart field "file" and returns the stored file's public URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (uploads.Upload, error) {
	var up uploads.Upload
	err := c.doMultipart(ctx, "/uploads", "file", filename, r, &up)
	return up, err
}

func (c *Client) AdminStats(ctx context.Context) (admin.Stats, error) {
	var s admin.Stats
	_, err := c.doJSON(ctx, http.MethodGet, "/admin/stats", nil, nil, &s)
	return s, err
}
