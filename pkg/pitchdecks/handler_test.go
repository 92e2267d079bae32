package pitchdecks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foundernet/pkg/auth"
	"foundernet/pkg/response"
	"foundernet/pkg/startups"
)

type mockPitchDeckService struct {
	mock.Mock
}

func (m *mockPitchDeckService) CreatePitchDeck(ctx context.Context, input PitchDeck) (PitchDeck, error) {
	args := m.Called(ctx, input)
	deck, _ := args.Get(0).(PitchDeck)
	return deck, args.Error(1)
}

func (m *mockPitchDeckService) ListByStartup(ctx context.Context, startupID int64) ([]PitchDeck, error) {
	args := m.Called(ctx, startupID)
	decks, _ := args.Get(0).([]PitchDeck)
	return decks, args.Error(1)
}

func (m *mockPitchDeckService) GetActive(ctx context.Context, startupID int64) (*PitchDeck, error) {
	args := m.Called(ctx, startupID)
	deck, _ := args.Get(0).(*PitchDeck)
	return deck, args.Error(1)
}

func (m *mockPitchDeckService) Activate(ctx context.Context, id int64) (PitchDeck, error) {
	args := m.Called(ctx, id)
	deck, _ := args.Get(0).(PitchDeck)
	return deck, args.Error(1)
}

func (m *mockPitchDeckService) DeletePitchDeck(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPitchDeckService) StartupOwner(ctx context.Context, startupID int64) (string, error) {
	args := m.Called(ctx, startupID)
	return args.String(0), args.Error(1)
}

func (m *mockPitchDeckService) DeckOwner(ctx context.Context, deckID int64) (string, error) {
	args := m.Called(ctx, deckID)
	return args.String(0), args.Error(1)
}

var testTokens = auth.NewTokenManager("test-secret", "foundernet", time.Hour)

func setupRouter(service PitchDeckService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewPitchDeckHandler(service, auth.NewMiddleware(testTokens, auth.CookieSettings{})).RegisterRoutes(r)
	return r
}

func send(t *testing.T, r *gin.Engine, method, path, body, uuid, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if uuid != "" {
		token, _, err := testTokens.Issue(uuid, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestPitchDeckHandler_Create_Owner(t *testing.T) {
	svc := new(mockPitchDeckService)
	r := setupRouter(svc)

	svc.On("StartupOwner", mock.Anything, int64(5)).Return("owner-1", nil)
	svc.On("CreatePitchDeck", mock.Anything, PitchDeck{StartupID: 5, Title: "Seed", FileURL: "/files/a.pdf"}).
		Return(PitchDeck{ID: 1, StartupID: 5, Title: "Seed", IsActive: true}, nil)

	w := send(t, r, http.MethodPost, "/startups/5/pitch-decks", `{"title":"Seed","file_url":"/files/a.pdf"}`, "owner-1", "founder")

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	require.Equal(t, true, data["is_active"])
}

func TestPitchDeckHandler_Create_Forbidden(t *testing.T) {
	svc := new(mockPitchDeckService)
	r := setupRouter(svc)

	svc.On("StartupOwner", mock.Anything, int64(5)).Return("owner-1", nil)

	w := send(t, r, http.MethodPost, "/startups/5/pitch-decks", `{"title":"Seed","file_url":"/files/a.pdf"}`, "someone", "investor")

	require.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "CreatePitchDeck", mock.Anything, mock.Anything)
}

func TestPitchDeckHandler_Create_Unauthenticated(t *testing.T) {
	r := setupRouter(new(mockPitchDeckService))

	w := send(t, r, http.MethodPost, "/startups/5/pitch-decks", `{"title":"Seed","file_url":"/files/a.pdf"}`, "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPitchDeckHandler_Create_StartupMissing(t *testing.T) {
	svc := new(mockPitchDeckService)
	r := setupRouter(svc)

	svc.On("StartupOwner", mock.Anything, int64(8)).Return("", startups.ErrStartupNotFound)

	w := send(t, r, http.MethodPost, "/startups/8/pitch-decks", `{"title":"Seed","file_url":"/files/a.pdf"}`, "owner-1", "founder")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPitchDeckHandler_GetActive_None(t *testing.T) {
	svc := new(mockPitchDeckService)
	r := setupRouter(svc)

	svc.On("GetActive", mock.Anything, int64(5)).Return(nil, nil)

	w := send(t, r, http.MethodGet, "/startups/5/pitch-decks/active", "", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.True(t, resp.Success)
	require.Nil(t, resp.Data)
	require.Equal(t, "no active pitch deck", resp.Message)
}

func TestPitchDeckHandler_GetActive_Found(t *testing.T) {
	svc := new(mockPitchDeckService)
	r := setupRouter(svc)

	svc.On("GetActive", mock.Anything, int64(5)).Return(&PitchDeck{ID: 2, StartupID: 5, IsActive: true}, nil)

	w := send(t, r, http.MethodGet, "/startups/5/pitch-decks/active", "", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	require.EqualValues(t, 2, data["id"])
}

func TestPitchDeckHandler_List(t *testing.T) {
	svc := new(mockPitchDeckService)
	r := setupRouter(svc)

	svc.On("ListByStartup", mock.Anything, int64(5)).Return([]PitchDeck{{ID: 2}, {ID: 1}}, nil)

	w := send(t, r, http.MethodGet, "/startups/5/pitch-decks", "", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode(t, w).Data, 2)
}

func TestPitchDeckHandler_Activate(t *testing.T) {
	svc := new(mockPitchDeckService)
	r := setupRouter(svc)

	svc.On("DeckOwner", mock.Anything, int64(2)).Return("owner-1", nil)
	svc.On("Activate", mock.Anything, int64(2)).Return(PitchDeck{ID: 2, IsActive: true}, nil)

	w := send(t, r, http.MethodPut, "/pitch-decks/2/activate", "", "owner-1", "founder")
	require.Equal(t, http.StatusOK, w.Code)

	svc.On("DeckOwner", mock.Anything, int64(3)).Return("", ErrPitchDeckNotFound)
	w = send(t, r, http.MethodPut, "/pitch-decks/3/activate", "", "owner-1", "founder")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPitchDeckHandler_Delete_Admin(t *testing.T) {
	svc := new(mockPitchDeckService)
	r := setupRouter(svc)

	svc.On("DeckOwner", mock.Anything, int64(2)).Return("owner-1", nil)
	svc.On("DeletePitchDeck", mock.Anything, int64(2)).Return(nil)

	w := send(t, r, http.MethodDelete, "/pitch-decks/2", "", "root", "admin")
	require.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestPitchDeckHandler_InvalidID(t *testing.T) {
	r := setupRouter(new(mockPitchDeckService))

	w := send(t, r, http.MethodGet, "/startups/abc/pitch-decks", "", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
