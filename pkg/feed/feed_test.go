package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foundernet/pkg/logger"
	"foundernet/pkg/posts"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) LikePost(ctx context.Context, postID int64, userUUID string) (posts.LikeState, error) {
	args := m.Called(postID, userUUID)
	return args.Get(0).(posts.LikeState), args.Error(1)
}

func (m *mockAPI) UnlikePost(ctx context.Context, postID int64, userUUID string) (posts.LikeState, error) {
	args := m.Called(postID, userUUID)
	return args.Get(0).(posts.LikeState), args.Error(1)
}

func (m *mockAPI) AddComment(ctx context.Context, postID int64, content string) (posts.Comment, error) {
	args := m.Called(postID, content)
	return args.Get(0).(posts.Comment), args.Error(1)
}

func seeded(api API) *Feed {
	f := New(api, logger.Discard())
	f.Load([]posts.Post{
		{ID: 1, Content: "hello", Likes: []string{"bob"}},
		{ID: 2, Content: "world"},
	})
	return f
}

func likes(t *testing.T, f *Feed, id int64) []string {
	t.Helper()
	p, ok := f.Post(id)
	require.True(t, ok)
	return p.Likes
}

func TestToggleLike_TwiceRestoresMembership(t *testing.T) {
	api := new(mockAPI)
	api.On("LikePost", int64(1), "ann").Return(posts.LikeState{PostID: 1, Likes: []string{"bob", "ann"}, Liked: true}, nil).Once()
	api.On("UnlikePost", int64(1), "ann").Return(posts.LikeState{PostID: 1, Likes: []string{"bob"}}, nil).Once()

	f := seeded(api)
	ctx := context.Background()

	liked, err := f.ToggleLike(ctx, 1, "ann")
	require.NoError(t, err)
	require.True(t, liked)
	require.ElementsMatch(t, []string{"bob", "ann"}, likes(t, f, 1))

	liked, err = f.ToggleLike(ctx, 1, "ann")
	require.NoError(t, err)
	require.False(t, liked)
	require.Equal(t, []string{"bob"}, likes(t, f, 1))
	api.AssertExpectations(t)
}

func TestToggleLike_FailureReverts(t *testing.T) {
	boom := errors.New("server down")
	api := new(mockAPI)
	api.On("UnlikePost", int64(1), "bob").Return(posts.LikeState{}, boom).Once()
	api.On("LikePost", int64(2), "bob").Return(posts.LikeState{}, boom).Once()

	f := seeded(api)

	liked, err := f.ToggleLike(context.Background(), 1, "bob")
	require.ErrorIs(t, err, boom)
	require.True(t, liked)
	require.Equal(t, []string{"bob"}, likes(t, f, 1))

	liked, err = f.ToggleLike(context.Background(), 2, "bob")
	require.ErrorIs(t, err, boom)
	require.False(t, liked)
	require.Empty(t, likes(t, f, 2))
}

func TestToggleLike_UnknownPost(t *testing.T) {
	f := seeded(new(mockAPI))
	_, err := f.ToggleLike(context.Background(), 99, "ann")
	require.ErrorIs(t, err, ErrUnknownPost)
}

// gatedAPI blocks LikePost until released so a second toggle can be queued behind it.
type gatedAPI struct {
	mockAPI
	entered chan struct{}
	release chan struct{}
}

func (g *gatedAPI) LikePost(ctx context.Context, postID int64, userUUID string) (posts.LikeState, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.mockAPI.LikePost(ctx, postID, userUUID)
}

func TestToggleLike_SerializedPerPost(t *testing.T) {
	api := &gatedAPI{entered: make(chan struct{}, 1), release: make(chan struct{})}
	api.On("LikePost", int64(2), "ann").Return(posts.LikeState{Likes: []string{"ann"}, Liked: true}, nil).Once()
	api.On("UnlikePost", int64(2), "ann").Return(posts.LikeState{Likes: []string{}}, nil).Once()

	f := seeded(api)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]bool, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = f.ToggleLike(ctx, 2, "ann")
	}()
	<-api.entered

	// first toggle is in flight and applied optimistically
	require.Equal(t, []string{"ann"}, likes(t, f, 2))

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = f.ToggleLike(ctx, 2, "ann")
	}()

	// the second toggle must not reach the server before the first settles
	time.Sleep(20 * time.Millisecond)
	api.AssertNotCalled(t, "UnlikePost", int64(2), "ann")

	close(api.release)
	wg.Wait()

	require.Equal(t, []bool{true, false}, results)
	require.Empty(t, likes(t, f, 2))
	api.AssertExpectations(t)
}

func TestToggleLike_WaitRespectsContext(t *testing.T) {
	api := &gatedAPI{entered: make(chan struct{}, 1), release: make(chan struct{})}
	api.On("LikePost", int64(2), "ann").Return(posts.LikeState{Likes: []string{"ann"}}, nil).Once()

	f := seeded(api)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.ToggleLike(context.Background(), 2, "ann")
	}()
	<-api.entered

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.ToggleLike(ctx, 2, "ann")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(api.release)
	<-done
	require.Equal(t, []string{"ann"}, likes(t, f, 2))
}

func TestAddComment_ReplacesPending(t *testing.T) {
	saved := posts.Comment{ID: 77, PostID: 2, Author: posts.Author{UUID: "ann"}, Content: "nice", CreatedAt: time.Now()}
	api := new(mockAPI)
	api.On("AddComment", int64(2), "nice").Return(saved, nil).Once()

	f := seeded(api)
	got, err := f.AddComment(context.Background(), 2, posts.Author{UUID: "ann", Name: "Ann"}, "  nice ")
	require.NoError(t, err)
	require.Equal(t, saved, got)

	p, _ := f.Post(2)
	require.Len(t, p.Comments, 1)
	require.EqualValues(t, 77, p.Comments[0].ID)
}

func TestAddComment_FailureRemovesPending(t *testing.T) {
	boom := errors.New("nope")
	api := new(mockAPI)
	api.On("AddComment", int64(1), "first").Return(posts.Comment{ID: 5, Content: "first"}, nil).Once()
	api.On("AddComment", int64(1), "second").Return(posts.Comment{}, boom).Once()

	f := seeded(api)
	ctx := context.Background()
	author := posts.Author{UUID: "ann"}

	_, err := f.AddComment(ctx, 1, author, "first")
	require.NoError(t, err)
	_, err = f.AddComment(ctx, 1, author, "second")
	require.ErrorIs(t, err, boom)

	p, _ := f.Post(1)
	require.Len(t, p.Comments, 1)
	require.Equal(t, "first", p.Comments[0].Content)

	_, err = f.AddComment(ctx, 1, author, "   ")
	require.ErrorIs(t, err, ErrEmptyComment)
	_, err = f.AddComment(ctx, 42, author, "hi")
	require.ErrorIs(t, err, ErrUnknownPost)
}

func TestPosts_ReturnsCopies(t *testing.T) {
	f := seeded(new(mockAPI))
	ps := f.Posts()
	require.Len(t, ps, 2)
	ps[0].Likes[0] = "mallory"
	require.Equal(t, []string{"bob"}, likes(t, f, 1))
}
