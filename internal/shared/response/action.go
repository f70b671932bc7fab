package response

import "github.com/gin-gonic/gin"

// ActionResult is the body script-driven callers get from approve/reject.
type ActionResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	NewStatus string `json:"new_status,omitempty"`
	Error     string `json:"error,omitempty"`
}

func ActionSuccess(c *gin.Context, status int, message, newStatus string) {
	c.JSON(status, ActionResult{Success: true, Message: message, NewStatus: newStatus})
}

func ActionError(c *gin.Context, status int, message string) {
	c.JSON(status, ActionResult{Success: false, Error: message})
}
