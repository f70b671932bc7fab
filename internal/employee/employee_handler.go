package employee

import (
	"net/http"

	"go-leave/internal/middleware"
	"go-leave/internal/session"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/flash"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	profilePath       = "/profile"
	MsgProfileUpdated = "Your profile has been updated!"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetProfile(c *gin.Context) {
	sess, ok := session.Get(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}
	h.logger.Debug("http get profile", zap.String("user_id", sess.UserID.String()))

	resp, err := h.service.GetProfile(c.Request.Context(), sess.UserID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Page(c, resp, nil)
}

// UpdateProfile accepts a form post or JSON. Browsers are redirected back to
// the profile page with a flash message either way.
func (h *Handler) UpdateProfile(c *gin.Context) {
	sess, ok := session.Get(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}
	h.logger.Debug("http update profile", zap.String("user_id", sess.UserID.String()))

	wantsJSON := middleware.WantsJSON(c)

	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("http update profile validation failed", zap.Error(err))
		appErr := apperror.MapValidationError(err)
		if wantsJSON {
			response.Error(c, http.StatusBadRequest, apperror.CodeValidationError, appErr.Message, err.Error())
			return
		}
		flash.Error(c, appErr.Message)
		c.Redirect(http.StatusSeeOther, profilePath)
		return
	}

	resp, err := h.service.UpdateProfile(c.Request.Context(), sess.UserID, req)
	if err != nil {
		if wantsJSON {
			h.writeServiceError(c, err)
			return
		}
		flash.Error(c, apperror.ToHTTP(err).Message)
		c.Redirect(http.StatusSeeOther, profilePath)
		return
	}

	if wantsJSON {
		response.Success(c, http.StatusOK, resp, nil)
		return
	}
	flash.Success(c, MsgProfileUpdated)
	c.Redirect(http.StatusSeeOther, profilePath)
}

func (h *Handler) Departments(c *gin.Context) {
	depts, err := h.service.Departments(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, depts, nil)
}
