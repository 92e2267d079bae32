package passwordreset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResetService struct {
	mock.Mock
}

func (m *mockResetService) RequestReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockResetService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return m.Called(ctx, email, code, newPassword).Error(0)
}

func setupRouter(svc ResetService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewResetHandler(svc).RegisterRoutes(r)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResetHandler_Forgot(t *testing.T) {
	svc := new(mockResetService)
	r := setupRouter(svc)

	svc.On("RequestReset", mock.Anything, "ada@example.com").Return(nil).Once()
	require.Equal(t, http.StatusOK, post(r, "/auth/password/forgot", `{"email":"ada@example.com"}`).Code)

	svc.On("RequestReset", mock.Anything, "ada@example.com").Return(ErrTooManyRequests).Once()
	require.Equal(t, http.StatusTooManyRequests, post(r, "/auth/password/forgot", `{"email":"ada@example.com"}`).Code)

	require.Equal(t, http.StatusBadRequest, post(r, "/auth/password/forgot", `{"email":"nope"}`).Code)
}

func TestResetHandler_Reset(t *testing.T) {
	svc := new(mockResetService)
	r := setupRouter(svc)

	svc.On("ResetPassword", mock.Anything, "ada@example.com", "123456", "new-secret").Return(nil).Once()
	w := post(r, "/auth/password/reset", `{"email":"ada@example.com","code":"123456","new_password":"new-secret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	svc.On("ResetPassword", mock.Anything, "ada@example.com", "000000", "new-secret").Return(ErrInvalidCode).Once()
	w = post(r, "/auth/password/reset", `{"email":"ada@example.com","code":"000000","new_password":"new-secret"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(r, "/auth/password/reset", `{"email":"ada@example.com","code":"12ab","new_password":"new-secret"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetHandler_GuardsApply(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	blocked := func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) }
	NewResetHandler(new(mockResetService)).RegisterRoutes(r, blocked)

	require.Equal(t, http.StatusTooManyRequests, post(r, "/auth/password/forgot", `{"email":"ada@example.com"}`).Code)
}
