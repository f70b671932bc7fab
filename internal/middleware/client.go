package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// WantsJSON reports whether the caller is a script (XHR or an explicit JSON
// Accept) rather than a browser navigating between pages.
func WantsJSON(c *gin.Context) bool {
	if strings.EqualFold(c.GetHeader("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	accept := c.GetHeader("Accept")
	if strings.Contains(accept, "application/json") {
		return true
	}
	if strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
		return true
	}
	return strings.HasPrefix(c.ContentType(), "application/json")
}
