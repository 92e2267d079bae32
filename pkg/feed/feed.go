// Package feed keeps a local copy of the community feed and applies likes and
// comments optimistically, rolling back when the server refuses.
package feed

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"foundernet/pkg/posts"
)

var (
	ErrUnknownPost  = errors.New("post not in feed")
	ErrEmptyComment = errors.New("comment is empty")
)

// API is the subset of the REST client the feed needs. *client.Client satisfies it.
type API interface {
	LikePost(ctx context.Context, postID int64, userUUID string) (posts.LikeState, error)
	UnlikePost(ctx context.Context, postID int64, userUUID string) (posts.LikeState, error)
	AddComment(ctx context.Context, postID int64, content string) (posts.Comment, error)
}

type Feed struct {
	api    API
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	order   []int64
	posts   map[int64]*posts.Post
	toggles map[int64]*semaphore.Weighted
	nextTmp int64
}

func New(api API, logger *slog.Logger) *Feed {
	return &Feed{
		api:     api,
		logger:  logger,
		now:     time.Now,
		posts:   make(map[int64]*posts.Post),
		toggles: make(map[int64]*semaphore.Weighted),
	}
}

// Load replaces the feed with ps, keeping their order.
func (f *Feed) Load(ps []posts.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.order = f.order[:0]
	f.posts = make(map[int64]*posts.Post, len(ps))
	for _, p := range ps {
		p := clonePost(p)
		f.order = append(f.order, p.ID)
		f.posts[p.ID] = &p
	}
}

func (f *Feed) Posts() []posts.Post {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]posts.Post, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, clonePost(*f.posts[id]))
	}
	return out
}

func (f *Feed) Post(id int64) (posts.Post, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.posts[id]
	if !ok {
		return posts.Post{}, false
	}
	return clonePost(*p), true
}

func (f *Feed) toggleSem(postID int64) *semaphore.Weighted {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.toggles[postID]
	if !ok {
		s = semaphore.NewWeighted(1)
		f.toggles[postID] = s
	}
	return s
}

// setLiked adds or removes userUUID from the post's likes.
func (f *Feed) setLiked(postID int64, userUUID string, liked bool) {
	p, ok := f.posts[postID]
	if !ok {
		return
	}
	kept := make([]string, 0, len(p.Likes)+1)
	for _, u := range p.Likes {
		if u != userUUID {
			kept = append(kept, u)
		}
	}
	if liked {
		kept = append(kept, userUUID)
	}
	p.Likes = kept
}

// ToggleLike flips userUUID's like on the post at once, then asks the server.
// A failure restores the previous state. Toggles on the same post run one at
// a time; a second toggle waits for the first to settle. It returns whether
// the post ends up liked.
func (f *Feed) ToggleLike(ctx context.Context, postID int64, userUUID string) (bool, error) {
	sem := f.toggleSem(postID)
	if err := sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer sem.Release(1)

	f.mu.Lock()
	p, ok := f.posts[postID]
	if !ok {
		f.mu.Unlock()
		return false, ErrUnknownPost
	}
	wasLiked := contains(p.Likes, userUUID)
	f.setLiked(postID, userUUID, !wasLiked)
	f.mu.Unlock()

	var (
		state posts.LikeState
		err   error
	)
	if wasLiked {
		state, err = f.api.UnlikePost(ctx, postID, userUUID)
	} else {
		state, err = f.api.LikePost(ctx, postID, userUUID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.setLiked(postID, userUUID, wasLiked)
		f.logger.Debug("like rolled back", "post_id", postID, "error", err)
		return wasLiked, err
	}
	if p, ok := f.posts[postID]; ok && state.Likes != nil {
		p.Likes = append([]string(nil), state.Likes...)
	}
	return !wasLiked, nil
}

// AddComment shows the comment straight away with a temporary negative id,
// swaps in the server's copy on success and drops it on failure.
func (f *Feed) AddComment(ctx context.Context, postID int64, author posts.Author, content string) (posts.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return posts.Comment{}, ErrEmptyComment
	}

	f.mu.Lock()
	p, ok := f.posts[postID]
	if !ok {
		f.mu.Unlock()
		return posts.Comment{}, ErrUnknownPost
	}
	f.nextTmp--
	pending := posts.Comment{ID: f.nextTmp, PostID: postID, Author: author, Content: content, CreatedAt: f.now()}
	p.Comments = append(p.Comments, pending)
	f.mu.Unlock()

	saved, err := f.api.AddComment(ctx, postID, content)

	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok = f.posts[postID]
	if !ok {
		return saved, err
	}
	for i, c := range p.Comments {
		if c.ID != pending.ID {
			continue
		}
		if err != nil {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
		} else {
			p.Comments[i] = saved
		}
		break
	}
	if err != nil {
		return posts.Comment{}, err
	}
	return saved, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func clonePost(p posts.Post) posts.Post {
	p.Likes = append([]string{}, p.Likes...)
	p.Comments = append([]posts.Comment{}, p.Comments...)
	return p
}
