package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foundernet/pkg/client"
	"foundernet/pkg/users"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) ListUsers(ctx context.Context, tab users.Tab, q client.ListQuery) (client.Page[users.User], error) {
	args := m.Called(ctx, tab, q)
	return args.Get(0).(client.Page[users.User]), args.Error(1)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func makeUsers(n int) []users.User {
	out := make([]users.User, n)
	for i := range out {
		out[i] = users.User{UUID: fmt.Sprintf("u-%d", i+1), Name: fmt.Sprintf("User %d", i+1)}
	}
	return out
}

func newLister(f Fetcher, pageSize int) (*Lister, *TTLCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewTTLCache(DefaultTTL)
	cache.now = clock.Now
	l := NewLister(f, cache, pageSize)
	l.now = clock.Now
	return l, cache, clock
}

func TestLister_CachesWithinTTL(t *testing.T) {
	f := new(mockFetcher)
	f.On("ListUsers", mock.Anything, users.TabAll, client.ListQuery{Page: 1, Limit: 50}).
		Return(client.Page[users.User]{Items: makeUsers(50), Total: 120}, nil).Once()

	l, _, clock := newLister(f, 10)
	ctx := context.Background()

	first, err := l.Page(ctx, users.TabAll, "", 1)
	require.NoError(t, err)
	require.False(t, first.FromCache)
	require.Len(t, first.Users, 10)
	require.Equal(t, "u-1", first.Users[0].UUID)
	require.Equal(t, 12, first.TotalPages)

	clock.Advance(4 * time.Minute)
	second, err := l.Page(ctx, users.TabAll, "", 3)
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.Equal(t, "u-21", second.Users[0].UUID)

	f.AssertNumberOfCalls(t, "ListUsers", 1)
}

func TestLister_RefetchesAfterTTL(t *testing.T) {
	f := new(mockFetcher)
	f.On("ListUsers", mock.Anything, users.TabFounders, client.ListQuery{Page: 1, Limit: 50}).
		Return(client.Page[users.User]{Items: makeUsers(3), Total: 3}, nil).Twice()

	l, _, clock := newLister(f, 10)
	ctx := context.Background()

	_, err := l.Page(ctx, users.TabFounders, "", 1)
	require.NoError(t, err)
	clock.Advance(5 * time.Minute)
	res, err := l.Page(ctx, users.TabFounders, "", 1)
	require.NoError(t, err)
	require.False(t, res.FromCache)

	f.AssertNumberOfCalls(t, "ListUsers", 2)
}

func TestLister_InvestorsEntryTwoMinutesOld(t *testing.T) {
	f := new(mockFetcher)
	l, cache, clock := newLister(f, 10)

	cache.Put(users.TabInvestors, Entry{
		Users:       makeUsers(4),
		TotalCount:  4,
		LastFetched: clock.Now().Add(-2 * time.Minute),
	})

	res, err := l.Page(context.Background(), users.TabInvestors, "", 1)
	require.NoError(t, err)
	require.True(t, res.FromCache)
	require.Len(t, res.Users, 4)
	require.Equal(t, 1, res.TotalPages)
	f.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything, mock.Anything)
}

func TestLister_SearchBypassesAndInvalidates(t *testing.T) {
	f := new(mockFetcher)
	f.On("ListUsers", mock.Anything, users.TabAll, client.ListQuery{Page: 1, Limit: 50}).
		Return(client.Page[users.User]{Items: makeUsers(12), Total: 12}, nil).Twice()
	f.On("ListUsers", mock.Anything, users.TabAll, client.ListQuery{Page: 2, Limit: 10, Search: "ann"}).
		Return(client.Page[users.User]{Items: makeUsers(2), Total: 12}, nil).Once()

	l, cache, _ := newLister(f, 10)
	ctx := context.Background()

	_, err := l.Page(ctx, users.TabAll, "", 1)
	require.NoError(t, err)

	res, err := l.Page(ctx, users.TabAll, "  ann ", 2)
	require.NoError(t, err)
	require.False(t, res.FromCache)
	require.Len(t, res.Users, 2)
	require.Equal(t, 2, res.TotalPages)

	_, ok := cache.Get(users.TabAll)
	require.False(t, ok)

	// the next unfiltered view refetches
	_, err = l.Page(ctx, users.TabAll, "", 1)
	require.NoError(t, err)
	f.AssertExpectations(t)
}

func TestLister_TabsAreIndependent(t *testing.T) {
	f := new(mockFetcher)
	f.On("ListUsers", mock.Anything, users.TabFounders, mock.Anything).
		Return(client.Page[users.User]{Items: makeUsers(2), Total: 2}, nil).Once()
	f.On("ListUsers", mock.Anything, users.TabInvestors, mock.Anything).
		Return(client.Page[users.User]{Items: makeUsers(5), Total: 5}, nil).Once()

	l, _, _ := newLister(f, 10)
	ctx := context.Background()

	founders, err := l.Page(ctx, users.TabFounders, "", 1)
	require.NoError(t, err)
	investors, err := l.Page(ctx, users.TabInvestors, "", 1)
	require.NoError(t, err)

	require.EqualValues(t, 2, founders.TotalCount)
	require.EqualValues(t, 5, investors.TotalCount)
	f.AssertExpectations(t)
}

func TestLister_PageBeyondPrefetch(t *testing.T) {
	f := new(mockFetcher)
	f.On("ListUsers", mock.Anything, users.TabAll, client.ListQuery{Page: 1, Limit: 50}).
		Return(client.Page[users.User]{Items: makeUsers(50), Total: 75}, nil).Once()
	f.On("ListUsers", mock.Anything, users.TabAll, client.ListQuery{Page: 6, Limit: 10}).
		Return(client.Page[users.User]{Items: makeUsers(10), Total: 75}, nil).Once()

	l, _, _ := newLister(f, 10)
	ctx := context.Background()

	_, err := l.Page(ctx, users.TabAll, "", 1)
	require.NoError(t, err)
	res, err := l.Page(ctx, users.TabAll, "", 6)
	require.NoError(t, err)
	require.Len(t, res.Users, 10)
	require.Equal(t, 8, res.TotalPages)

	// a page past the end is just empty
	res, err = l.Page(ctx, users.TabAll, "", 9)
	require.NoError(t, err)
	require.Empty(t, res.Users)
	f.AssertExpectations(t)
}

func TestLister_FetchErrorYieldsEmptyPage(t *testing.T) {
	boom := errors.New("offline")
	f := new(mockFetcher)
	f.On("ListUsers", mock.Anything, users.TabAll, mock.Anything).
		Return(client.Page[users.User]{}, boom).Twice()

	l, cache, _ := newLister(f, 10)

	res, err := l.Page(context.Background(), users.TabAll, "", 1)
	require.ErrorIs(t, err, boom)
	require.NotNil(t, res.Users)
	require.Empty(t, res.Users)

	_, ok := cache.Get(users.TabAll)
	require.False(t, ok)

	res, err = l.Page(context.Background(), users.TabAll, "x", 1)
	require.ErrorIs(t, err, boom)
	require.Empty(t, res.Users)
}

// blockingFetcher holds every call until release is closed.
type blockingFetcher struct {
	entered chan struct{}
	release chan struct{}

	mu     sync.Mutex
	calls  int
	ctxErr error
}

func (b *blockingFetcher) ListUsers(ctx context.Context, tab users.Tab, q client.ListQuery) (client.Page[users.User], error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	b.entered <- struct{}{}
	<-b.release

	b.mu.Lock()
	b.ctxErr = ctx.Err()
	b.mu.Unlock()
	return client.Page[users.User]{Items: makeUsers(q.Limit), Total: 100}, nil
}

func TestLister_CancelledWaiterDoesNotFailOthers(t *testing.T) {
	f := &blockingFetcher{entered: make(chan struct{}, 2), release: make(chan struct{})}
	l, _, _ := newLister(f, 10)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := l.Page(ctxA, users.TabAll, "", 1)
		errA <- err
	}()
	<-f.entered

	type result struct {
		res Result
		err error
	}
	resB := make(chan result, 1)
	go func() {
		res, err := l.Page(context.Background(), users.TabAll, "", 2)
		resB <- result{res, err}
	}()
	// let the second caller join the in-flight request
	time.Sleep(20 * time.Millisecond)

	cancelA()
	require.ErrorIs(t, <-errA, context.Canceled)

	close(f.release)
	got := <-resB
	require.NoError(t, got.err)
	require.Len(t, got.res.Users, 10)
	require.Equal(t, "u-11", got.res.Users[0].UUID)

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Equal(t, 1, f.calls)
	require.NoError(t, f.ctxErr)
}

func TestTotalPages(t *testing.T) {
	require.Equal(t, 0, TotalPages(0, 10))
	require.Equal(t, 1, TotalPages(10, 10))
	require.Equal(t, 2, TotalPages(11, 10))
	require.Equal(t, 0, TotalPages(5, 0))
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total, size int
		want                 []int
	}{
		{1, 10, 5, []int{1, 2, 3, 4, 5}},
		{5, 10, 5, []int{3, 4, 5, 6, 7}},
		{10, 10, 5, []int{6, 7, 8, 9, 10}},
		{2, 3, 5, []int{1, 2, 3}},
		{6, 10, 4, []int{4, 5, 6, 7}},
		{42, 10, 3, []int{8, 9, 10}},
		{1, 0, 5, []int{}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.current, tt.total), func(t *testing.T) {
			require.Equal(t, tt.want, PageWindow(tt.current, tt.total, tt.size))
		})
	}
}
