package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every REST endpoint answers with.
type APIResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func SendAPIResponse(c *gin.Context, code int, success bool, message string, data any) {
	resp := APIResponse{
		Success:   success,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}

	c.JSON(code, resp)
}

// Abort writes a failure envelope and stops the handler chain; used by middleware.
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, APIResponse{
		Success:   false,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// Pagination normalizes page/limit query values the way every list endpoint does.
func Pagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
