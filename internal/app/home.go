package app

import (
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type homePage struct {
	Title string            `json:"title"`
	Links map[string]string `json:"links"`
}

// Home is the public landing page. Soft denials redirect here, so it also
// carries any pending flash messages.
func Home(c *gin.Context) {
	response.Page(c, homePage{
		Title: "Leave Management",
		Links: map[string]string{
			"login":              "/login",
			"register":           "/register",
			"dashboard":          "/dashboard",
			"employer_dashboard": "/employer-dashboard",
			"profile":            "/profile",
		},
	}, nil)
}
