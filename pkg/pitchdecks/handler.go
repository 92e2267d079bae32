package pitchdecks

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foundernet/pkg/auth"
	"foundernet/pkg/response"
	"foundernet/pkg/startups"
)

type PitchDeckHandler struct {
	service PitchDeckService
	auth    *auth.Middleware
}

func NewPitchDeckHandler(service PitchDeckService, authMW *auth.Middleware) *PitchDeckHandler {
	return &PitchDeckHandler{service: service, auth: authMW}
}

func (h *PitchDeckHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/startups/:id/pitch-decks", h.auth.Required(), h.createPitchDeck)
	router.GET("/startups/:id/pitch-decks", h.listPitchDecks)
	router.GET("/startups/:id/pitch-decks/active", h.getActivePitchDeck)
	router.PUT("/pitch-decks/:id/activate", h.auth.Required(), h.activatePitchDeck)
	router.DELETE("/pitch-decks/:id", h.auth.Required(), h.deletePitchDeck)
}

type createPitchDeckRequest struct {
	Title    string `json:"title" binding:"required"`
	FileURL  string `json:"file_url" binding:"required"`
	IsActive bool   `json:"is_active"`
}

func parseID(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid "+what+" id", nil)
		return 0, false
	}
	return id, true
}

func writeDeckError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPitchDeckNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "pitch deck not found", nil)
	case errors.Is(err, startups.ErrStartupNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "startup not found", nil)
	case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrInvalidFileURL):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "pitch deck request failed", nil)
	}
}

func (h *PitchDeckHandler) allowed(c *gin.Context, owner string, err error) bool {
	if err != nil {
		writeDeckError(c, err)
		return false
	}
	if !auth.CanActFor(c, owner) {
		response.SendAPIResponse(c, http.StatusForbidden, false, "forbidden", nil)
		return false
	}
	return true
}

// @Summary      Upload pitch deck metadata
// @Description  Registers a deck file for a startup. The first deck, or one sent with is_active, becomes the active deck.
// @Tags         pitch-decks
// @Accept       json
// @Produce      json
// @Param        id      path  int                     true  "Startup ID"
// @Param        request body  createPitchDeckRequest  true  "Pitch deck"
// @Success      201  {object}  response.APIResponse{data=PitchDeck}
// @Failure      400  {object}  response.APIResponse
// @Failure      403  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /startups/{id}/pitch-decks [post]
func (h *PitchDeckHandler) createPitchDeck(c *gin.Context) {
	startupID, ok := parseID(c, "startup")
	if !ok {
		return
	}

	var req createPitchDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	owner, err := h.service.StartupOwner(c.Request.Context(), startupID)
	if !h.allowed(c, owner, err) {
		return
	}

	deck, err := h.service.CreatePitchDeck(c.Request.Context(), PitchDeck{
		StartupID: startupID,
		Title:     req.Title,
		FileURL:   req.FileURL,
		IsActive:  req.IsActive,
	})
	if err != nil {
		writeDeckError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "pitch deck created", deck)
}

// @Summary      List pitch decks of a startup
// @Tags         pitch-decks
// @Produce      json
// @Param        id   path  int  true  "Startup ID"
// @Success      200  {object}  response.APIResponse{data=[]PitchDeck}
// @Failure      400  {object}  response.APIResponse
// @Router       /startups/{id}/pitch-decks [get]
func (h *PitchDeckHandler) listPitchDecks(c *gin.Context) {
	startupID, ok := parseID(c, "startup")
	if !ok {
		return
	}

	decks, err := h.service.ListByStartup(c.Request.Context(), startupID)
	if err != nil {
		writeDeckError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "pitch decks listed", decks)
}

// @Summary      Active pitch deck of a startup
// @Description  Answers 200 with no data when the startup has no active deck.
// @Tags         pitch-decks
// @Produce      json
// @Param        id   path  int  true  "Startup ID"
// @Success      200  {object}  response.APIResponse{data=PitchDeck}
// @Failure      400  {object}  response.APIResponse
// @Router       /startups/{id}/pitch-decks/active [get]
func (h *PitchDeckHandler) getActivePitchDeck(c *gin.Context) {
	startupID, ok := parseID(c, "startup")
	if !ok {
		return
	}

	deck, err := h.service.GetActive(c.Request.Context(), startupID)
	if err != nil {
		writeDeckError(c, err)
		return
	}
	if deck == nil {
		response.SendAPIResponse(c, http.StatusOK, true, "no active pitch deck", nil)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "active pitch deck fetched", deck)
}

// @Summary      Make a pitch deck the active one
// @Tags         pitch-decks
// @Produce      json
// @Param        id   path  int  true  "Pitch deck ID"
// @Success      200  {object}  response.APIResponse{data=PitchDeck}
// @Failure      403  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /pitch-decks/{id}/activate [put]
func (h *PitchDeckHandler) activatePitchDeck(c *gin.Context) {
	id, ok := parseID(c, "pitch deck")
	if !ok {
		return
	}

	owner, err := h.service.DeckOwner(c.Request.Context(), id)
	if !h.allowed(c, owner, err) {
		return
	}

	deck, err := h.service.Activate(c.Request.Context(), id)
	if err != nil {
		writeDeckError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "pitch deck activated", deck)
}

// @Summary      Delete a pitch deck
// @Tags         pitch-decks
// @Produce      json
// @Param        id   path  int  true  "Pitch deck ID"
// @Success      200  {object}  response.APIResponse
// @Failure      403  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /pitch-decks/{id} [delete]
func (h *PitchDeckHandler) deletePitchDeck(c *gin.Context) {
	id, ok := parseID(c, "pitch deck")
	if !ok {
		return
	}

	owner, err := h.service.DeckOwner(c.Request.Context(), id)
	if !h.allowed(c, owner, err) {
		return
	}

	if err := h.service.DeletePitchDeck(c.Request.Context(), id); err != nil {
		writeDeckError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "pitch deck deleted", nil)
}
