package startups

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foundernet/pkg/auth"
	"foundernet/pkg/response"
)

type StartupHandler struct {
	service StartupService
	auth    *auth.Middleware
}

func NewStartupHandler(service StartupService, authMW *auth.Middleware) *StartupHandler {
	return &StartupHandler{service: service, auth: authMW}
}

func (h *StartupHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/startups", h.auth.Required(), h.createStartup)
	router.PUT("/startups/:id", h.auth.Required(), h.updateStartup)
	router.DELETE("/startups/:id", h.auth.Required(), h.deleteStartup)
	router.POST("/startups/:id/rounds", h.auth.Required(), h.addFundingRound)
	router.GET("/startups", h.listStartups)
	router.GET("/startups/user/:uuid", h.listStartupsByUser)
	router.GET("/startups/:id", h.getStartupByID)
}

type startupRequest struct {
	Name          string         `json:"name" binding:"required"`
	Description   string         `json:"description"`
	Industry      string         `json:"industry"`
	Website       string         `json:"website"`
	MarketSize    string         `json:"market_size"`
	RevenueModel  string         `json:"revenue_model"`
	LogoURL       string         `json:"logo_url"`
	OwnerUUID     string         `json:"owner_uuid"`
	Founders      []Founder      `json:"founders"`
	EquitySplit   []EquityHolder `json:"equity_split"`
	FundingRounds []FundingRound `json:"funding_rounds"`
}

func (r startupRequest) toStartup() Startup {
	return Startup{
		Name:          r.Name,
		Description:   r.Description,
		Industry:      r.Industry,
		Website:       r.Website,
		MarketSize:    r.MarketSize,
		RevenueModel:  r.RevenueModel,
		LogoURL:       r.LogoURL,
		OwnerUUID:     r.OwnerUUID,
		Founders:      r.Founders,
		EquitySplit:   r.EquitySplit,
		FundingRounds: r.FundingRounds,
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid startup id", nil)
		return 0, false
	}
	return id, true
}

func writeStartupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrStartupNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "startup not found", nil)
	case errors.Is(err, ErrOwnerNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, err.Error(), nil)
	case errors.Is(err, ErrNameRequired), errors.Is(err, ErrNoFounders), errors.Is(err, ErrInvalidEquitySplit),
		errors.Is(err, ErrInvalidEquityRow), errors.Is(err, ErrMissingFounderEquity), errors.Is(err, ErrInvalidFundingRound):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "startup request failed", nil)
	}
}

// authorize loads the startup and checks the caller owns it (or is an admin).
func (h *StartupHandler) authorize(c *gin.Context, id int64) bool {
	existing, err := h.service.GetStartupByID(c.Request.Context(), id)
	if err != nil {
		writeStartupError(c, err)
		return false
	}
	if !auth.CanActFor(c, existing.OwnerUUID) {
		response.SendAPIResponse(c, http.StatusForbidden, false, "forbidden", nil)
		return false
	}
	return true
}

// @Summary      Create a new startup
// @Description  The caller becomes the owner; admins may name another owner.
// @Tags         startups
// @Accept       json
// @Produce      json
// @Param        request body startupRequest true "Startup creation request"
// @Success      201  {object}  response.APIResponse{data=Startup} "Startup created successfully"
// @Failure      400  {object}  response.APIResponse "Invalid request payload or equity split"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /startups [post]
func (h *StartupHandler) createStartup(c *gin.Context) {
	var req startupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	p, _ := auth.CurrentPrincipal(c)
	if req.OwnerUUID == "" || !p.IsAdmin() {
		req.OwnerUUID = p.UUID
	}

	startup, err := h.service.CreateStartup(c.Request.Context(), req.toStartup())
	if err != nil {
		writeStartupError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "startup created", startup)
}

// @Summary      Update a startup
// @Description  Replaces the startup's details, founders and equity split
// @Tags         startups
// @Accept       json
// @Produce      json
// @Param        id   path      int  true  "Startup ID"
// @Param        request body startupRequest true "Startup update request"
// @Success      200  {object}  response.APIResponse{data=Startup} "Startup updated successfully"
// @Failure      400  {object}  response.APIResponse "Invalid request"
// @Failure      403  {object}  response.APIResponse "Not the owner"
// @Failure      404  {object}  response.APIResponse "Startup not found"
// @Router       /startups/{id} [put]
func (h *StartupHandler) updateStartup(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req startupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	if !h.authorize(c, id) {
		return
	}

	input := req.toStartup()
	input.ID = id
	startup, err := h.service.UpdateStartup(c.Request.Context(), input)
	if err != nil {
		writeStartupError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "startup updated", startup)
}

// @Summary      Delete a startup
// @Description  Soft deletes a startup by ID
// @Tags         startups
// @Produce      json
// @Param        id   path      int  true  "Startup ID"
// @Success      200  {object}  response.APIResponse "Startup deleted successfully"
// @Failure      400  {object}  response.APIResponse "Invalid startup ID"
// @Failure      403  {object}  response.APIResponse "Not the owner"
// @Failure      404  {object}  response.APIResponse "Startup not found"
// @Router       /startups/{id} [delete]
func (h *StartupHandler) deleteStartup(c *gin.Context) {
	id, ok := parseID(c)
	if !ok || !h.authorize(c, id) {
		return
	}

	if err := h.service.DeleteStartup(c.Request.Context(), id); err != nil {
		writeStartupError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "startup deleted", nil)
}

// @Summary      Add a funding round
// @Tags         startups
// @Accept       json
// @Produce      json
// @Param        id   path      int  true  "Startup ID"
// @Param        request body FundingRound true "Funding round"
// @Success      201  {object}  response.APIResponse{data=Startup}
// @Failure      400  {object}  response.APIResponse
// @Failure      403  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /startups/{id}/rounds [post]
func (h *StartupHandler) addFundingRound(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var round FundingRound
	if err := c.ShouldBindJSON(&round); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	if !h.authorize(c, id) {
		return
	}

	startup, err := h.service.AddFundingRound(c.Request.Context(), id, round)
	if err != nil {
		writeStartupError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusCreated, true, "funding round added", startup)
}

// @Summary      Get startup by ID
// @Tags         startups
// @Produce      json
// @Param        id   path      int  true  "Startup ID"
// @Success      200  {object}  response.APIResponse{data=Startup} "Startup retrieved successfully"
// @Failure      400  {object}  response.APIResponse "Invalid startup ID"
// @Failure      404  {object}  response.APIResponse "Startup not found"
// @Router       /startups/{id} [get]
func (h *StartupHandler) getStartupByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	startup, err := h.service.GetStartupByID(c.Request.Context(), id)
	if err != nil {
		writeStartupError(c, err)
		return
	}

	response.SendAPIResponse(c, http.StatusOK, true, "startup fetched", startup)
}

// @Summary      List startups
// @Description  Paginated list, optionally narrowed by industry and a name/description search
// @Tags         startups
// @Produce      json
// @Param        page      query  int     false  "Page number" default(1)
// @Param        limit     query  int     false  "Items per page" default(10)
// @Param        industry  query  string  false  "Industry (case-insensitive)"
// @Param        search    query  string  false  "Search term"
// @Success      200  {object}  response.APIResponse{data=StartupList} "Startups retrieved successfully"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /startups [get]
func (h *StartupHandler) listStartups(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = response.Pagination(page, limit)

	startupsList, total, err := h.service.ListStartups(c.Request.Context(), c.Query("industry"), c.Query("search"), page, limit)
	if err != nil {
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to list startups", nil)
		return
	}

	data := StartupList{Items: startupsList, Total: total, Page: page, Limit: limit}
	response.SendAPIResponse(c, http.StatusOK, true, "startups listed", data)
}

// @Summary      Get startups by owner UUID
// @Tags         startups
// @Produce      json
// @Param        uuid   path      string  true  "user UUID"
// @Success      200  {object}  response.APIResponse{data=StartupList} "Startups retrieved successfully"
// @Failure      500  {object}  response.APIResponse "Internal server error"
// @Router       /startups/user/{uuid} [get]
func (h *StartupHandler) listStartupsByUser(c *gin.Context) {
	startups, err := h.service.ListStartupsByUser(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to list startups", nil)
		return
	}

	list := StartupList{Items: startups, Total: int64(len(startups))}
	response.SendAPIResponse(c, http.StatusOK, true, "startup fetched by uuid", list)
}
