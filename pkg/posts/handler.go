package posts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"foundernet/pkg/auth"
	"foundernet/pkg/response"
)

type PostHandler struct {
	service PostService
	auth    *auth.Middleware
}

func NewPostHandler(service PostService, authMW *auth.Middleware) *PostHandler {
	return &PostHandler{service: service, auth: authMW}
}

func (h *PostHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/posts", h.auth.Required(), h.createPost)
	router.GET("/posts", h.listPosts)
	router.GET("/posts/:id", h.getPost)
	router.DELETE("/posts/:id", h.auth.Required(), h.deletePost)
	router.POST("/posts/:id/like/:userId", h.auth.Required(), h.likePost)
	router.DELETE("/posts/:id/like/:userId", h.auth.Required(), h.unlikePost)
	router.POST("/posts/:id/comments", h.auth.Required(), h.addComment)
	router.GET("/posts/:id/comments", h.listComments)
}

type createPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

func parsePostID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid post id", nil)
		return 0, false
	}
	return id, true
}

func writePostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "post not found", nil)
	case errors.Is(err, ErrUserNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "user not found", nil)
	case errors.Is(err, ErrContentRequired), errors.Is(err, ErrContentTooLong), errors.Is(err, ErrTitleTooLong):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "post request failed", nil)
	}
}

// @Summary      Create a post
// @Description  The caller is the author
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        request body createPostRequest true "Post"
// @Success      201  {object}  response.APIResponse{data=Post}
// @Failure      400  {object}  response.APIResponse
// @Failure      401  {object}  response.APIResponse
// @Router       /posts [post]
func (h *PostHandler) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "content is required", nil)
		return
	}

	p, _ := auth.CurrentPrincipal(c)
	post, err := h.service.CreatePost(c.Request.Context(), NewPost{
		AuthorUUID: p.UUID,
		Title:      req.Title,
		Content:    req.Content,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		writePostError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "post created", post)
}

// @Summary      List posts
// @Description  Newest first, with likes and comments
// @Tags         posts
// @Produce      json
// @Param        page    query  int     false  "Page number" default(1)
// @Param        limit   query  int     false  "Items per page" default(10)
// @Param        author  query  string  false  "Author UUID"
// @Success      200  {object}  response.APIResponse{data=PostList}
// @Router       /posts [get]
func (h *PostHandler) listPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = response.Pagination(page, limit)

	items, total, err := h.service.ListPosts(c.Request.Context(), c.Query("author"), page, limit)
	if err != nil {
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to list posts", nil)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "posts listed", PostList{Items: items, Total: total, Page: page, Limit: limit})
}

// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path  int  true  "Post ID"
// @Success      200  {object}  response.APIResponse{data=Post}
// @Failure      404  {object}  response.APIResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) getPost(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}
	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "post fetched", post)
}

// @Summary      Delete a post
// @Description  Only the author or an admin may delete
// @Tags         posts
// @Produce      json
// @Param        id   path  int  true  "Post ID"
// @Success      200  {object}  response.APIResponse
// @Failure      403  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) deletePost(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}
	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		writePostError(c, err)
		return
	}
	if !auth.CanActFor(c, post.Author.UUID) {
		response.SendAPIResponse(c, http.StatusForbidden, false, "forbidden", nil)
		return
	}
	if err := h.service.DeletePost(c.Request.Context(), id); err != nil {
		writePostError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "post deleted", nil)
}

func (h *PostHandler) likeTarget(c *gin.Context) (int64, string, bool) {
	id, ok := parsePostID(c)
	if !ok {
		return 0, "", false
	}
	userID := c.Param("userId")
	if !auth.CanActFor(c, userID) {
		response.SendAPIResponse(c, http.StatusForbidden, false, "cannot like on behalf of another user", nil)
		return 0, "", false
	}
	return id, userID, true
}

// @Summary      Like a post
// @Description  Idempotent; liking twice keeps a single like
// @Tags         posts
// @Produce      json
// @Param        id      path  int     true  "Post ID"
// @Param        userId  path  string  true  "User UUID"
// @Success      200  {object}  response.APIResponse{data=LikeState}
// @Failure      403  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /posts/{id}/like/{userId} [post]
func (h *PostHandler) likePost(c *gin.Context) {
	id, userID, ok := h.likeTarget(c)
	if !ok {
		return
	}
	state, err := h.service.Like(c.Request.Context(), id, userID)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "post liked", state)
}

// @Summary      Unlike a post
// @Description  Idempotent; unliking a post that is not liked succeeds
// @Tags         posts
// @Produce      json
// @Param        id      path  int     true  "Post ID"
// @Param        userId  path  string  true  "User UUID"
// @Success      200  {object}  response.APIResponse{data=LikeState}
// @Failure      403  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /posts/{id}/like/{userId} [delete]
func (h *PostHandler) unlikePost(c *gin.Context) {
	id, userID, ok := h.likeTarget(c)
	if !ok {
		return
	}
	state, err := h.service.Unlike(c.Request.Context(), id, userID)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "post unliked", state)
}

// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id       path  int             true  "Post ID"
// @Param        request  body  commentRequest  true  "Comment"
// @Success      201  {object}  response.APIResponse{data=Comment}
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /posts/{id}/comments [post]
func (h *PostHandler) addComment(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "content is required", nil)
		return
	}

	p, _ := auth.CurrentPrincipal(c)
	comment, err := h.service.AddComment(c.Request.Context(), id, p.UUID, req.Content)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "comment added", comment)
}

// @Summary      List comments of a post
// @Tags         posts
// @Produce      json
// @Param        id   path  int  true  "Post ID"
// @Success      200  {object}  response.APIResponse{data=[]Comment}
// @Router       /posts/{id}/comments [get]
func (h *PostHandler) listComments(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		return
	}
	comments, err := h.service.ListComments(c.Request.Context(), id)
	if err != nil {
		writePostError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "comments listed", comments)
}
