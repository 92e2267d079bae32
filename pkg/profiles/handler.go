package profiles

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"foundernet/pkg/auth"
	"foundernet/pkg/response"
)

type ProfileHandler struct {
	service ProfileService
	auth    *auth.Middleware
}

func NewProfileHandler(service ProfileService, authMW *auth.Middleware) *ProfileHandler {
	return &ProfileHandler{service: service, auth: authMW}
}

func (h *ProfileHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/founders", h.auth.Required(), h.createFounder)
	router.GET("/founders/:uuid", h.getFounder)
	router.POST("/investors", h.auth.Required(), h.createInvestor)
	router.GET("/investors/:uuid", h.getInvestor)
}

type createFounderRequest struct {
	UserUUID    string   `json:"user_uuid" binding:"required"`
	Skills      []string `json:"skills" binding:"required"`
	Experience  string   `json:"experience"`
	LinkedInURL string   `json:"linkedin_url"`
}

type createInvestorRequest struct {
	UserUUID        string   `json:"user_uuid" binding:"required"`
	FirmName        string   `json:"firm_name"`
	InvestmentFocus []string `json:"investment_focus"`
	TicketMin       float64  `json:"ticket_min"`
	TicketMax       float64  `json:"ticket_max"`
	PortfolioURL    string   `json:"portfolio_url"`
}

func writeProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSkillsRequired), errors.Is(err, ErrInvalidTicketRange),
		errors.Is(err, ErrInvalidURL), errors.Is(err, ErrRoleMismatch):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrProfileNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, err.Error(), nil)
	case errors.Is(err, ErrProfileExists):
		response.SendAPIResponse(c, http.StatusConflict, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "profile request failed", nil)
	}
}

// @Summary      Create founder profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        request body createFounderRequest true "Founder profile"
// @Success      201 {object} response.APIResponse{data=FounderProfile}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /founders [post]
func (h *ProfileHandler) createFounder(c *gin.Context) {
	var req createFounderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	if !auth.CanActFor(c, req.UserUUID) {
		response.SendAPIResponse(c, http.StatusForbidden, false, "forbidden", nil)
		return
	}

	p, err := h.service.CreateFounderProfile(c.Request.Context(), FounderProfile{
		UserUUID:    req.UserUUID,
		Skills:      req.Skills,
		Experience:  req.Experience,
		LinkedInURL: req.LinkedInURL,
	})
	if err != nil {
		writeProfileError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "founder profile created", p)
}

// @Summary      Get founder profile
// @Tags         profiles
// @Produce      json
// @Param        uuid path string true "User UUID"
// @Success      200 {object} response.APIResponse{data=FounderProfile}
// @Failure      404 {object} response.APIResponse
// @Router       /founders/{uuid} [get]
func (h *ProfileHandler) getFounder(c *gin.Context) {
	p, err := h.service.GetFounderProfile(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		writeProfileError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "founder profile fetched", p)
}

// @Summary      Create investor profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        request body createInvestorRequest true "Investor profile"
// @Success      201 {object} response.APIResponse{data=InvestorProfile}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /investors [post]
func (h *ProfileHandler) createInvestor(c *gin.Context) {
	var req createInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	if !auth.CanActFor(c, req.UserUUID) {
		response.SendAPIResponse(c, http.StatusForbidden, false, "forbidden", nil)
		return
	}

	p, err := h.service.CreateInvestorProfile(c.Request.Context(), InvestorProfile{
		UserUUID:        req.UserUUID,
		FirmName:        req.FirmName,
		InvestmentFocus: req.InvestmentFocus,
		TicketMin:       req.TicketMin,
		TicketMax:       req.TicketMax,
		PortfolioURL:    req.PortfolioURL,
	})
	if err != nil {
		writeProfileError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "investor profile created", p)
}

// @Summary      Get investor profile
// @Tags         profiles
// @Produce      json
// @Param        uuid path string true "User UUID"
// @Success      200 {object} response.APIResponse{data=InvestorProfile}
// @Failure      404 {object} response.APIResponse
// @Router       /investors/{uuid} [get]
func (h *ProfileHandler) getInvestor(c *gin.Context) {
	p, err := h.service.GetInvestorProfile(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		writeProfileError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "investor profile fetched", p)
}
