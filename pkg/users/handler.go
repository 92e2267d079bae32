package users

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foundernet/pkg/auth"
	"foundernet/pkg/response"
)

type UserHandler struct {
	service UserService
	auth    *auth.Middleware
}

func NewUserHandler(service UserService, authMW *auth.Middleware) *UserHandler {
	return &UserHandler{service: service, auth: authMW}
}

// RegisterRoutes mounts the user and session endpoints. loginGuards run before
// the credential-checking handlers (rate limiting in production).
func (h *UserHandler) RegisterRoutes(router gin.IRouter, loginGuards ...gin.HandlerFunc) {
	router.POST("/users", guarded(loginGuards, h.createUser)...)
	router.GET("/users", h.listUsers(TabAll))
	router.GET("/users/founders", h.listUsers(TabFounders))
	router.GET("/users/founders/", h.listUsers(TabFounders))
	router.GET("/users/investors", h.listUsers(TabInvestors))
	router.GET("/users/investors/", h.listUsers(TabInvestors))
	router.GET("/users/:uuid", h.getUserByUUID)
	router.PUT("/users/:uuid", h.auth.Required(), h.updateUser)
	router.DELETE("/users/:uuid", h.auth.Required(), h.deleteUser)
	router.POST("/users/:uuid/follow", h.auth.Required(), h.follow)
	router.DELETE("/users/:uuid/follow", h.auth.Required(), h.unfollow)

	router.POST("/auth/login", guarded(loginGuards, h.login)...)
	router.POST("/auth/logout", h.logout)
	router.GET("/auth/me", h.auth.Required(), h.me)
}

func guarded(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(guards)+1)
	chain = append(chain, guards...)
	return append(chain, h)
}

type createUserRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Role          string `json:"role" binding:"required"`
	Password      string `json:"password" binding:"required"`
	ProfilePicURL string `json:"profile_pic_url"`
	Bio           string `json:"bio"`
	Location      string `json:"location"`
	UUID          string `json:"uuid"`
}

type updateUserRequest struct {
	Name          string `json:"name" binding:"required"`
	ProfilePicURL string `json:"profile_pic_url"`
	Bio           string `json:"bio"`
	Location      string `json:"location"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) issue(c *gin.Context, u User) (AuthResult, bool) {
	token, exp, err := h.auth.Tokens().Issue(u.UUID, u.Role.Name)
	if err != nil {
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to issue token", nil)
		return AuthResult{}, false
	}
	h.auth.SetCookie(c, token, exp)
	return AuthResult{User: u, Token: token, ExpiresAt: exp}, true
}

// @Summary      Register user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body createUserRequest true "Create user request"
// @Success      201 {object} response.APIResponse{data=AuthResult}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Failure      500 {object} response.APIResponse
// @Router       /users [post]
func (h *UserHandler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	u, err := h.service.CreateUser(c.Request.Context(), CreateUserInput{
		Name:          req.Name,
		Email:         req.Email,
		Role:          req.Role,
		Password:      req.Password,
		ProfilePicURL: req.ProfilePicURL,
		Bio:           req.Bio,
		Location:      req.Location,
		UUID:          req.UUID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			response.SendAPIResponse(c, http.StatusConflict, false, err.Error(), nil)
		case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrInvalidEmail),
			errors.Is(err, ErrWeakPassword), errors.Is(err, ErrInvalidUUID), errors.Is(err, ErrUnknownRole):
			response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
		default:
			response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to create user", nil)
		}
		return
	}

	result, ok := h.issue(c, u)
	if !ok {
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "user created", result)
}

// @Summary      Update user (by UUID)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        uuid path string true "User UUID"
// @Param        request body updateUserRequest true "Update user request"
// @Success      200 {object} response.APIResponse{data=User}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /users/{uuid} [put]
func (h *UserHandler) updateUser(c *gin.Context) {
	uid := c.Param("uuid")
	if !auth.CanActFor(c, uid) {
		response.SendAPIResponse(c, http.StatusForbidden, false, "forbidden", nil)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}

	u, err := h.service.UpdateUserByUUID(c.Request.Context(), uid, UserUpdate{
		Name:          req.Name,
		ProfilePicURL: req.ProfilePicURL,
		Bio:           req.Bio,
		Location:      req.Location,
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.SendAPIResponse(c, http.StatusNotFound, false, "user not found", nil)
			return
		}
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to update user", nil)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user updated", u)
}

// @Summary      Delete user (by UUID)
// @Tags         users
// @Produce      json
// @Param        uuid path string true "User UUID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /users/{uuid} [delete]
func (h *UserHandler) deleteUser(c *gin.Context) {
	uid := c.Param("uuid")
	if !auth.CanActFor(c, uid) {
		response.SendAPIResponse(c, http.StatusForbidden, false, "forbidden", nil)
		return
	}

	if err := h.service.DeleteUserByUUID(c.Request.Context(), uid); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.SendAPIResponse(c, http.StatusNotFound, false, "user not found", nil)
			return
		}
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to delete user", nil)
		return
	}
	if p, _ := auth.CurrentPrincipal(c); p.UUID == uid {
		h.auth.ClearCookie(c)
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user deleted", nil)
}

// @Summary      Get user by UUID
// @Tags         users
// @Produce      json
// @Param        uuid path string true "User UUID"
// @Success      200 {object} response.APIResponse{data=User}
// @Failure      404 {object} response.APIResponse
// @Router       /users/{uuid} [get]
func (h *UserHandler) getUserByUUID(c *gin.Context) {
	u, err := h.service.GetUserByUUID(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.SendAPIResponse(c, http.StatusNotFound, false, "user not found", nil)
			return
		}
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to fetch user", nil)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user fetched", u)
}

// @Summary      List users
// @Description  /users lists founders and investors; /users/founders/ and /users/investors/ narrow by role.
// @Tags         users
// @Produce      json
// @Param        page   query int    false "Page number" default(1)
// @Param        limit  query int    false "Items per page" default(10)
// @Param        search query string false "Name or email substring"
// @Success      200 {object} response.APIResponse{data=UserList}
// @Failure      500 {object} response.APIResponse
// @Router       /users [get]
func (h *UserHandler) listUsers(tab Tab) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		page, limit = response.Pagination(page, limit)

		items, total, err := h.service.ListUsers(c.Request.Context(), tab, c.Query("search"), page, limit)
		if err != nil {
			response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to list users", nil)
			return
		}
		data := UserList{Items: items, Total: total, Page: page, Limit: limit}
		response.SendAPIResponse(c, http.StatusOK, true, "users listed", data)
	}
}

// @Summary      Follow user
// @Tags         users
// @Produce      json
// @Param        uuid path string true "User UUID to follow"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /users/{uuid}/follow [post]
func (h *UserHandler) follow(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)
	err := h.service.Follow(c.Request.Context(), p.UUID, c.Param("uuid"))
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotFollowSelf):
			response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
		case errors.Is(err, ErrUserNotFound):
			response.SendAPIResponse(c, http.StatusNotFound, false, "user not found", nil)
		case errors.Is(err, ErrAlreadyFollows):
			response.SendAPIResponse(c, http.StatusConflict, false, err.Error(), nil)
		default:
			response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to follow user", nil)
		}
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user followed", nil)
}

// @Summary      Unfollow user
// @Tags         users
// @Produce      json
// @Param        uuid path string true "User UUID to unfollow"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /users/{uuid}/follow [delete]
func (h *UserHandler) unfollow(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)
	if err := h.service.Unfollow(c.Request.Context(), p.UUID, c.Param("uuid")); err != nil {
		if errors.Is(err, ErrNotFollowing) {
			response.SendAPIResponse(c, http.StatusNotFound, false, err.Error(), nil)
			return
		}
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to unfollow user", nil)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user unfollowed", nil)
}

// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Login request"
// @Success      200 {object} response.APIResponse{data=AuthResult}
// @Failure      400 {object} response.APIResponse
// @Failure      401 {object} response.APIResponse
// @Failure      429 {object} response.APIResponse
// @Router       /auth/login [post]
func (h *UserHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	u, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.SendAPIResponse(c, http.StatusUnauthorized, false, err.Error(), nil)
			return
		}
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "login failed", nil)
		return
	}

	result, ok := h.issue(c, u)
	if !ok {
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "login successful", result)
}

// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Router       /auth/logout [post]
func (h *UserHandler) logout(c *gin.Context) {
	h.auth.ClearCookie(c)
	response.SendAPIResponse(c, http.StatusOK, true, "logged out", nil)
}

// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} response.APIResponse{data=User}
// @Failure      401 {object} response.APIResponse
// @Router       /auth/me [get]
func (h *UserHandler) me(c *gin.Context) {
	p, _ := auth.CurrentPrincipal(c)
	u, err := h.service.GetUserByUUID(c.Request.Context(), p.UUID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.auth.ClearCookie(c)
			response.SendAPIResponse(c, http.StatusUnauthorized, false, "session user no longer exists", nil)
			return
		}
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to fetch user", nil)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "user fetched", u)
}
