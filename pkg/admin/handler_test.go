package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"foundernet/pkg/auth"
	"foundernet/pkg/logger"
)

type mockStatsRepository struct {
	mock.Mock
}

func (m *mockStatsRepository) Stats(ctx context.Context) (Stats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(Stats)
	return s, args.Error(1)
}

var testTokens = auth.NewTokenManager("test-secret", "foundernet", time.Hour)

func get(t *testing.T, repo StatsRepository, uuid, role string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAdminHandler(repo, auth.NewMiddleware(testTokens, auth.CookieSettings{}), logger.Discard()).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	if uuid != "" {
		token, _, err := testTokens.Issue(uuid, role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminStats_Access(t *testing.T) {
	repo := new(mockStatsRepository)
	repo.On("Stats", mock.Anything).Return(Stats{TotalUsers: 3, UsersByRole: []LabelCount{{Label: "founder", Count: 3}}}, nil)

	require.Equal(t, http.StatusUnauthorized, get(t, repo, "", "").Code)
	require.Equal(t, http.StatusForbidden, get(t, repo, "u1", "founder").Code)

	w := get(t, repo, "root", "admin")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total_users":3`)
	require.Contains(t, w.Body.String(), `"label":"founder"`)
}

func TestAdminStats_Failure(t *testing.T) {
	repo := new(mockStatsRepository)
	repo.On("Stats", mock.Anything).Return(nil, errors.New("db down"))

	require.Equal(t, http.StatusInternalServerError, get(t, repo, "root", "admin").Code)
}
