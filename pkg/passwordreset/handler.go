package passwordreset

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"foundernet/pkg/response"
	"foundernet/pkg/users"
)

type ResetHandler struct {
	service ResetService
}

func NewResetHandler(service ResetService) *ResetHandler {
	return &ResetHandler{service: service}
}

// RegisterRoutes mounts both endpoints behind the given guards (typically a rate limiter).
func (h *ResetHandler) RegisterRoutes(router gin.IRouter, guards ...gin.HandlerFunc) {
	group := router.Group("/auth/password", guards...)
	group.POST("/forgot", h.forgotPassword)
	group.POST("/reset", h.resetPassword)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required"`
}

// @Summary      Request a password reset code
// @Description  Emails a 6-digit code valid for 10 minutes. At most 3 requests per hour per address.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body forgotPasswordRequest true "Account email"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      429 {object} response.APIResponse
// @Router       /auth/password/forgot [post]
func (h *ResetHandler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "a valid email is required", nil)
		return
	}

	if err := h.service.RequestReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, ErrTooManyRequests) {
			response.SendAPIResponse(c, http.StatusTooManyRequests, false, err.Error(), nil)
			return
		}
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to send reset code", nil)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "if the address is registered a reset code has been sent", nil)
}

// @Summary      Reset a password
// @Description  Verifies the emailed code and sets a new password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body resetPasswordRequest true "Email, code and new password"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Router       /auth/password/reset [post]
func (h *ResetHandler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "email, 6-digit code and new_password are required", nil)
		return
	}

	err := h.service.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword)
	switch {
	case err == nil:
		response.SendAPIResponse(c, http.StatusOK, true, "password updated", nil)
	case errors.Is(err, users.ErrWeakPassword):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, ErrNoPendingReset), errors.Is(err, ErrCodeExpired), errors.Is(err, ErrInvalidCode),
		errors.Is(err, users.ErrUserNotFound):
		response.SendAPIResponse(c, http.StatusUnauthorized, false, "invalid or expired code", nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to reset password", nil)
	}
}
