package listing

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"foundernet/pkg/client"
	"foundernet/pkg/users"
)

// PrefetchPages is how many pages a cache miss loads at once.
const PrefetchPages = 5

// Fetcher is the directory endpoint. *client.Client satisfies it.
type Fetcher interface {
	ListUsers(ctx context.Context, tab users.Tab, q client.ListQuery) (client.Page[users.User], error)
}

type Result struct {
	Users      []users.User
	TotalCount int64
	TotalPages int
	Page       int
	FromCache  bool
}

type Lister struct {
	fetcher  Fetcher
	cache    Cache
	pageSize int
	now      func() time.Time
	group    singleflight.Group
}

func NewLister(fetcher Fetcher, cache Cache, pageSize int) *Lister {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Lister{fetcher: fetcher, cache: cache, pageSize: pageSize, now: time.Now}
}

func (l *Lister) PageSize() int { return l.pageSize }

// TotalPages is ceil(total / pageSize).
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Page returns one page of a tab. A search term always goes to the server and
// drops the tab's cached entry; otherwise a fresh entry is sliced locally and a
// miss prefetches PrefetchPages pages. On error the result is an empty page.
func (l *Lister) Page(ctx context.Context, tab users.Tab, search string, page int) (Result, error) {
	if !tab.Valid() {
		tab = users.TabAll
	}
	if page < 1 {
		page = 1
	}

	if search = strings.TrimSpace(search); search != "" {
		l.cache.Invalidate(tab)
		return l.fetchPage(ctx, tab, search, page)
	}

	entry, hit := l.cache.Get(tab)
	if !hit {
		var err error
		entry, err = l.refresh(ctx, tab)
		if err != nil {
			return l.empty(page), err
		}
	}

	start := (page - 1) * l.pageSize
	if start >= len(entry.Users) && int64(start) < entry.TotalCount {
		// past the prefetched rows; go to the server for this page only
		return l.fetchPage(ctx, tab, "", page)
	}

	return Result{
		Users:      window(entry.Users, start, l.pageSize),
		TotalCount: entry.TotalCount,
		TotalPages: TotalPages(entry.TotalCount, l.pageSize),
		Page:       page,
		FromCache:  hit,
	}, nil
}

// refresh loads the first PrefetchPages pages of a tab and caches them.
// Concurrent misses for the same tab share one request. The shared request
// outlives any one caller; each caller stops waiting when its own ctx ends.
func (l *Lister) refresh(ctx context.Context, tab users.Tab) (Entry, error) {
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(string(tab), func() (any, error) {
		res, err := l.fetcher.ListUsers(shared, tab, client.ListQuery{Page: 1, Limit: PrefetchPages * l.pageSize})
		if err != nil {
			return Entry{}, err
		}
		e := Entry{Users: nonNil(res.Items), TotalCount: res.Total, LastFetched: l.now()}
		l.cache.Put(tab, e)
		return e, nil
	})

	select {
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Entry{}, r.Err
		}
		return r.Val.(Entry), nil
	}
}

func (l *Lister) fetchPage(ctx context.Context, tab users.Tab, search string, page int) (Result, error) {
	res, err := l.fetcher.ListUsers(ctx, tab, client.ListQuery{Page: page, Limit: l.pageSize, Search: search})
	if err != nil {
		return l.empty(page), err
	}
	return Result{
		Users:      nonNil(res.Items),
		TotalCount: res.Total,
		TotalPages: TotalPages(res.Total, l.pageSize),
		Page:       page,
	}, nil
}

func (l *Lister) empty(page int) Result {
	return Result{Users: []users.User{}, Page: page}
}

func window(rows []users.User, start, size int) []users.User {
	if start >= len(rows) {
		return []users.User{}
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	out := make([]users.User, end-start)
	copy(out, rows[start:end])
	return out
}

func nonNil(u []users.User) []users.User {
	if u == nil {
		return []users.User{}
	}
	return u
}

// PageWindow returns up to size page numbers around current, keeping current
// roughly centered and the window inside [1, totalPages].
func PageWindow(current, totalPages, size int) []int {
	if totalPages <= 0 || size <= 0 {
		return []int{}
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}
	if size > totalPages {
		size = totalPages
	}

	start := current - size/2
	if start < 1 {
		start = 1
	}
	end := start + size - 1
	if end > totalPages {
		end = totalPages
		start = end - size + 1
	}

	pages := make([]int, 0, size)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
