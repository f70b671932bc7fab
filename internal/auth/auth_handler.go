package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-leave/internal/middleware"
	"go-leave/internal/session"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/flash"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	homePath     = "/"
	registerPath = "/register"

	MsgLoggedOut        = "You have been logged out successfully."
	msgAccountCreated   = "Account created for %s! You can now log in."
	msgWelcomeBack      = "Welcome back, %s!"
	defaultCookieName   = "access_token"
	defaultCookieMaxAge = 24 * time.Hour
)

// CookieConfig describes the session cookie written on login.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

type Handler struct {
	service Service
	cookie  CookieConfig
	logger  *zap.Logger
}

func NewHandler(s Service, cookie CookieConfig, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	if cookie.Name == "" {
		cookie.Name = defaultCookieName
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = defaultCookieMaxAge
	}
	return &Handler{service: s, cookie: cookie, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// LoginPage exposes pending flash messages and the post-login target.
func (h *Handler) LoginPage(c *gin.Context) {
	response.Page(c, gin.H{"next": safeNext(c.Query("next"))}, nil)
}

func (h *Handler) RegisterPage(c *gin.Context) {
	response.Page(c, gin.H{"roles": []string{session.RoleEmployee, session.RoleEmployer}}, nil)
}

func (h *Handler) Register(c *gin.Context) {
	wantsJSON := middleware.WantsJSON(c)

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("http register validation failed", zap.Error(err))
		appErr := apperror.MapValidationError(err)
		if wantsJSON {
			response.Error(c, http.StatusBadRequest, apperror.CodeValidationError, appErr.Message, err.Error())
			return
		}
		flash.Error(c, appErr.Message)
		c.Redirect(http.StatusSeeOther, registerPath)
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if wantsJSON {
			h.writeServiceError(c, err)
			return
		}
		flash.Error(c, apperror.ToHTTP(err).Message)
		c.Redirect(http.StatusSeeOther, registerPath)
		return
	}

	if wantsJSON {
		response.Success(c, http.StatusCreated, res, nil)
		return
	}
	flash.Success(c, fmt.Sprintf(msgAccountCreated, res.Username))
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h *Handler) Login(c *gin.Context) {
	wantsJSON := middleware.WantsJSON(c)
	next := safeNext(c.Query("next"))
	if next == "" {
		next = safeNext(c.PostForm("next"))
	}

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("http login validation failed", zap.Error(err))
		appErr := apperror.MapValidationError(err)
		if wantsJSON {
			response.Error(c, http.StatusBadRequest, apperror.CodeValidationError, appErr.Message, err.Error())
			return
		}
		flash.Error(c, appErr.Message)
		c.Redirect(http.StatusSeeOther, middleware.LoginPath)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if wantsJSON {
			h.writeServiceError(c, err)
			return
		}
		flash.Error(c, apperror.ToHTTP(err).Message)
		c.Redirect(http.StatusSeeOther, middleware.LoginPath)
		return
	}

	h.setCookie(c, res.AccessToken, int(h.cookie.MaxAge.Seconds()))

	if wantsJSON {
		response.Success(c, http.StatusOK, res, nil)
		return
	}
	if next == "" {
		next = homePath
	}
	flash.Success(c, fmt.Sprintf(msgWelcomeBack, res.User.Username))
	c.Redirect(http.StatusSeeOther, next)
}

func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)

	if middleware.WantsJSON(c) {
		response.Success(c, http.StatusOK, gin.H{"message": MsgLoggedOut}, nil)
		return
	}
	flash.Success(c, MsgLoggedOut)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h *Handler) Me(c *gin.Context) {
	sess, ok := session.Get(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}

	res, err := h.service.Me(c.Request.Context(), sess.UserID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext only allows same-site absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
