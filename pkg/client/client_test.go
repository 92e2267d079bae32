package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foundernet/pkg/startups"
	"foundernet/pkg/users"
)

func writeEnvelope(w http.ResponseWriter, code int, success bool, msg string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body := map[string]any{"success": success, "message": msg, "created_at": time.Now()}
	if data != nil {
		body["data"] = data
	}
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("ftp://example.com")
	require.Error(t, err)

	_, err = New("://nope")
	require.Error(t, err)

	c, err := New("https://api.example.com/v1/")
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/v1/users", c.endpoint("/users", nil))
	require.Equal(t, DefaultTimeout, c.http.Timeout)
}

func TestLogin_StoresTokenAndSendsBearer(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "a@example.com", body["email"])
			writeEnvelope(w, http.StatusOK, true, "login successful", users.AuthResult{
				User: users.User{UUID: "u-1", Name: "Ada"}, Token: "tok-123",
			})
		case "/auth/me":
			gotAuth = r.Header.Get("Authorization")
			writeEnvelope(w, http.StatusOK, true, "user fetched", users.User{UUID: "u-1", Name: "Ada"})
		default:
			http.NotFound(w, r)
		}
	})

	res, err := c.Login(context.Background(), "a@example.com", "password1")
	require.NoError(t, err)
	require.Equal(t, "u-1", res.User.UUID)
	require.Equal(t, "tok-123", c.Token())

	u, present, err := c.Me(context.Background())
	require.NoError(t, err)
	require.True(t, present)
	require.Equal(t, "Ada", u.Name)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeEnvelope(w, http.StatusUnauthorized, false, "invalid credentials", nil)
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "upstream down")
		}
	})

	_, err := c.Login(context.Background(), "a@example.com", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "invalid credentials", apiErr.Message)
	require.True(t, IsStatus(err, http.StatusUnauthorized))
	require.Empty(t, c.Token())

	_, err = c.GetUser(context.Background(), "u-1")
	require.True(t, IsStatus(err, http.StatusBadGateway))
	require.ErrorContains(t, err, "upstream down")
}

func TestListUsers_QueryAndTabPaths(t *testing.T) {
	var paths, queries []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		queries = append(queries, r.URL.RawQuery)
		writeEnvelope(w, http.StatusOK, true, "users listed", map[string]any{
			"items": []users.User{{UUID: "a"}, {UUID: "b"}}, "total": 7, "page": 1, "limit": 2,
		})
	})
	ctx := context.Background()

	page, err := c.ListUsers(ctx, users.TabInvestors, ListQuery{Page: 1, Limit: 2, Search: "ann"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.EqualValues(t, 7, page.Total)

	_, err = c.ListUsers(ctx, users.TabFounders, ListQuery{})
	require.NoError(t, err)
	_, err = c.ListUsers(ctx, users.TabAll, ListQuery{})
	require.NoError(t, err)

	require.Equal(t, []string{"/users/investors/", "/users/founders/", "/users"}, paths)
	require.Equal(t, "limit=2&page=1&search=ann", queries[0])
}

func TestListUsers_CoercesNonArrayItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "users listed", map[string]any{"items": "oops", "total": 3})
	})

	page, err := c.ListUsers(context.Background(), users.TabAll, ListQuery{})
	require.NoError(t, err)
	require.NotNil(t, page.Items)
	require.Empty(t, page.Items)
	require.EqualValues(t, 3, page.Total)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "comments listed", map[string]any{"not": "a list"})
	})
	comments, err := c.ListComments(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, comments)
	require.Empty(t, comments)
}

func TestActivePitchDeck_EmptyIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/startups/1/pitch-decks/active":
			writeEnvelope(w, http.StatusOK, true, "no active pitch deck", nil)
		case "/startups/2/pitch-decks/active":
			writeEnvelope(w, http.StatusOK, true, "active pitch deck fetched", map[string]any{"id": 9, "title": "Seed", "is_active": true})
		default:
			writeEnvelope(w, http.StatusNotFound, false, "startup not found", nil)
		}
	})
	ctx := context.Background()

	deck, err := c.ActivePitchDeck(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, deck)

	deck, err = c.ActivePitchDeck(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, deck)
	require.EqualValues(t, 9, deck.ID)

	_, err = c.ActivePitchDeck(ctx, 3)
	require.True(t, IsStatus(err, http.StatusNotFound))
}

func TestUpload_Multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		f, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		content, err := io.ReadAll(f)
		require.NoError(t, err)
		require.Equal(t, "avatar.png", fh.Filename)
		require.Equal(t, "png-bytes", string(content))
		writeEnvelope(w, http.StatusCreated, true, "file uploaded", map[string]any{"url": "http://x/files/a.png"})
	})

	up, err := c.Upload(context.Background(), "avatar.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, "http://x/files/a.png", up.URL)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, _, err = c.Me(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	require.False(t, errors.As(err, &apiErr))
}

func TestWithTimeout_LeavesSuppliedClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}
	c, err := New("http://localhost:8080", WithHTTPClient(shared), WithTimeout(time.Second))
	require.NoError(t, err)

	require.Equal(t, time.Minute, shared.Timeout)
	require.Equal(t, time.Second, c.http.Timeout)
	require.NotSame(t, shared, c.http)

	before := http.DefaultClient.Timeout
	_, err = New("http://localhost:8080", WithHTTPClient(http.DefaultClient), WithTimeout(3*time.Second))
	require.NoError(t, err)
	require.Equal(t, before, http.DefaultClient.Timeout)
}

func TestStartupRequest_Validate(t *testing.T) {
	founders := []startups.Founder{{UserID: "f1", Name: "Ada"}}

	req := StartupRequest{Name: "Acme", Founders: founders, EquitySplit: []startups.EquityHolder{
		{Type: "founder", Name: "Ada", UserID: "f1", EquityPercentage: 99.99},
	}}
	require.Error(t, req.Validate())

	req.EquitySplit[0].EquityPercentage = 100
	require.NoError(t, req.Validate())
}
