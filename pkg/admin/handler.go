package admin

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"foundernet/pkg/auth"
	"foundernet/pkg/response"
)

type AdminHandler struct {
	repo   StatsRepository
	auth   *auth.Middleware
	logger *slog.Logger
}

func NewAdminHandler(repo StatsRepository, authMW *auth.Middleware, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{repo: repo, auth: authMW, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/admin", h.auth.Required(), auth.RequireRole("admin"))
	group.GET("/stats", h.getStats)
}

// @Summary      Dashboard statistics
// @Description  Users per role, signups per day over the last 30 days, startups per industry and feed totals
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.APIResponse{data=Stats}
// @Failure      401  {object}  response.APIResponse
// @Failure      403  {object}  response.APIResponse
// @Router       /admin/stats [get]
func (h *AdminHandler) getStats(c *gin.Context) {
	stats, err := h.repo.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("admin stats", "error", err)
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to compute stats", nil)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "stats", stats)
}
