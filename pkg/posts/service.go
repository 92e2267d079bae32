package posts

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"foundernet/pkg/metrics"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 5000
	MaxCommentLength = 2000
)

var (
	ErrContentRequired = errors.New("content is required")
	ErrContentTooLong  = errors.New("content is too long")
	ErrTitleTooLong    = errors.New("title is too long")
)

type PostService interface {
	CreatePost(ctx context.Context, np NewPost) (Post, error)
	GetPost(ctx context.Context, id int64) (Post, error)
	ListPosts(ctx context.Context, authorUUID string, page, limit int) ([]Post, int64, error)
	DeletePost(ctx context.Context, id int64) error
	Like(ctx context.Context, postID int64, userUUID string) (LikeState, error)
	Unlike(ctx context.Context, postID int64, userUUID string) (LikeState, error)
	AddComment(ctx context.Context, postID int64, authorUUID, content string) (Comment, error)
	ListComments(ctx context.Context, postID int64) ([]Comment, error)
}

type postService struct {
	repo    PostRepository
	metrics *metrics.Metrics
}

func NewPostService(repo PostRepository, m *metrics.Metrics) PostService {
	return &postService{repo: repo, metrics: m}
}

func (s *postService) CreatePost(ctx context.Context, np NewPost) (Post, error) {
	np.Title = strings.TrimSpace(np.Title)
	np.Content = strings.TrimSpace(np.Content)
	np.ImageURL = strings.TrimSpace(np.ImageURL)

	switch {
	case np.Content == "":
		return Post{}, ErrContentRequired
	case utf8.RuneCountInString(np.Content) > MaxContentLength:
		return Post{}, ErrContentTooLong
	case utf8.RuneCountInString(np.Title) > MaxTitleLength:
		return Post{}, ErrTitleTooLong
	}
	return s.repo.CreatePost(ctx, np)
}

func (s *postService) GetPost(ctx context.Context, id int64) (Post, error) {
	return s.repo.GetPost(ctx, id)
}

func (s *postService) ListPosts(ctx context.Context, authorUUID string, page, limit int) ([]Post, int64, error) {
	return s.repo.ListPosts(ctx, ListFilter{AuthorUUID: authorUUID, Limit: limit, Offset: (page - 1) * limit})
}

func (s *postService) DeletePost(ctx context.Context, id int64) error {
	return s.repo.DeletePost(ctx, id)
}

func (s *postService) Like(ctx context.Context, postID int64, userUUID string) (LikeState, error) {
	likes, err := s.repo.Like(ctx, postID, userUUID)
	if err != nil {
		return LikeState{}, err
	}
	s.metrics.ObserveLike(true)
	return LikeState{PostID: postID, Likes: likes, Liked: true}, nil
}

func (s *postService) Unlike(ctx context.Context, postID int64, userUUID string) (LikeState, error) {
	likes, err := s.repo.Unlike(ctx, postID, userUUID)
	if err != nil {
		return LikeState{}, err
	}
	s.metrics.ObserveLike(false)
	return LikeState{PostID: postID, Likes: likes, Liked: false}, nil
}

func (s *postService) AddComment(ctx context.Context, postID int64, authorUUID, content string) (Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Comment{}, ErrContentRequired
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return Comment{}, ErrContentTooLong
	}

	c, err := s.repo.AddComment(ctx, postID, authorUUID, content)
	if err != nil {
		return Comment{}, err
	}
	s.metrics.ObserveComment()
	return c, nil
}

func (s *postService) ListComments(ctx context.Context, postID int64) ([]Comment, error) {
	return s.repo.ListComments(ctx, postID)
}
