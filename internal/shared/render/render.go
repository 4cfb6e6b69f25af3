package render

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"microblog-backend/internal/shared/middleware"
)

// HTML renders a template, always exposing the requester's identity to
// the page chrome (nav login/logout links).
func HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["viewer"]; !ok {
		data["viewer"] = c.GetString(middleware.CtxUsername)
	}

	c.HTML(status, name, data)
}

// Redirect issues a 302 to the given location.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// NotFound renders the structured 404 page.
func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Page not found")
}

// InternalError renders the 500 page.
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func Error(c *gin.Context, status int, message string) {
	HTML(c, status, "error.html", gin.H{
		"status":  status,
		"message": message,
	})
}
