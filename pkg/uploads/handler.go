package uploads

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"foundernet/pkg/auth"
	"foundernet/pkg/response"
)

type UploadHandler struct {
	store    *Store
	auth     *auth.Middleware
	maxBytes int64
}

func NewUploadHandler(store *Store, authMW *auth.Middleware, maxBytes int64) *UploadHandler {
	return &UploadHandler{store: store, auth: authMW, maxBytes: maxBytes}
}

// RegisterRoutes mounts the upload endpoint behind guards. Anonymous callers
// (registration before the account exists) may upload images only.
func (h *UploadHandler) RegisterRoutes(router gin.IRouter, guards ...gin.HandlerFunc) {
	chain := append(append([]gin.HandlerFunc{}, guards...), h.auth.Optional(), h.upload)
	router.POST("/uploads", chain...)
	router.Static("/files", h.store.Dir())
}

// @Summary      Upload a file
// @Description  Accepts PNG, JPEG, GIF, WebP or (signed in) PDF as the multipart field "file" and returns its public URL
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File"
// @Success      201  {object}  response.APIResponse{data=Upload}
// @Failure      400  {object}  response.APIResponse
// @Failure      413  {object}  response.APIResponse
// @Failure      415  {object}  response.APIResponse
// @Router       /uploads [post]
func (h *UploadHandler) upload(c *gin.Context) {
	if h.maxBytes > 0 {
		if c.Request.ContentLength > h.maxBytes {
			response.SendAPIResponse(c, http.StatusRequestEntityTooLarge, false, "file too large", nil)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.SendAPIResponse(c, http.StatusRequestEntityTooLarge, false, "file too large", nil)
			return
		}
		response.SendAPIResponse(c, http.StatusBadRequest, false, "multipart field \"file\" is required", nil)
		return
	}

	src, err := fh.Open()
	if err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "cannot read file", nil)
		return
	}
	defer src.Close()

	allowed := ImageTypes
	if _, ok := auth.CurrentPrincipal(c); ok {
		allowed = AllTypes
	}
	up, err := h.store.SaveAs(src, allowed)
	switch {
	case err == nil:
		response.SendAPIResponse(c, http.StatusCreated, true, "file uploaded", up)
	case errors.Is(err, ErrUnsupportedType):
		response.SendAPIResponse(c, http.StatusUnsupportedMediaType, false, err.Error(), nil)
	case errors.Is(err, ErrEmptyFile):
		response.SendAPIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, "failed to store file", nil)
	}
}
