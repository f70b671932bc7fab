package leave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/middleware"
	"go-leave/internal/session"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/flash"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	homePath      = "/"
	dashboardPath = "/dashboard"
	listPath      = "/leave-requests"

	MsgLeaveSubmitted = "Leave request submitted successfully!"
	msgActionJSON     = "Leave request %s successfully"
	msgActionFlash    = "Leave request for %s has been %s."
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

// NewHandler takes the redis client used to store idempotent submit results.
// It may be nil.
func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) profile(c *gin.Context) (session.Profile, bool) {
	p, ok := session.GetProfile(c)
	if !ok {
		h.writeServiceError(c, apperror.ErrUnauthorized)
	}
	return p, ok
}

func (h *Handler) EmployeeDashboard(c *gin.Context) {
	actor, ok := h.profile(c)
	if !ok {
		return
	}
	h.logger.Debug("http employee dashboard", zap.String("employee_id", actor.EmployeeID.String()))

	resp, err := h.service.EmployeeDashboard(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Page(c, resp, nil)
}

func (h *Handler) Submit(c *gin.Context) {
	actor, ok := h.profile(c)
	if !ok {
		return
	}
	h.logger.Debug("http submit leave", zap.String("employee_id", actor.EmployeeID.String()))

	wantsJSON := middleware.WantsJSON(c)

	var req SubmitLeaveRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("http submit leave validation failed", zap.Error(err))
		appErr := apperror.MapValidationError(err)
		if wantsJSON {
			response.Error(c, http.StatusBadRequest, apperror.CodeValidationError, appErr.Message, err.Error())
			return
		}
		flash.Error(c, appErr.Message)
		c.Redirect(http.StatusSeeOther, dashboardPath)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actor, req)
	if err != nil {
		if wantsJSON {
			h.writeServiceError(c, err)
			return
		}
		flash.Error(c, apperror.ToHTTP(err).Message)
		c.Redirect(http.StatusSeeOther, dashboardPath)
		return
	}

	if wantsJSON {
		body, _ := json.Marshal(response.ApiEnvelope{Ok: true, Data: resp})
		middleware.SaveIdempotentResult(c, h.rdb, middleware.IdempotentResult{Status: http.StatusCreated, Body: body})
		response.Success(c, http.StatusCreated, resp, nil)
		return
	}
	middleware.SaveIdempotentResult(c, h.rdb, middleware.IdempotentResult{Status: http.StatusSeeOther, Location: dashboardPath})
	flash.Success(c, MsgLeaveSubmitted)
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func (h *Handler) EmployerDashboard(c *gin.Context) {
	actor, ok := h.profile(c)
	if !ok {
		return
	}

	resp, err := h.service.EmployerDashboard(c.Request.Context(), actor)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Page(c, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	actor, ok := h.profile(c)
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	filter := ListFilter{
		Status:     c.Query("status"),
		Department: c.Query("department"),
		Search:     c.Query("search"),
		Page:       page,
	}

	resp, total, err := h.service.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, resp.Filter.Page, h.service.PageSize())
	response.Page(c, resp, &meta)
}

func (h *Handler) Detail(c *gin.Context) {
	actor, ok := h.profile(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.writeServiceError(c, leaveerrors.ErrLeaveNotFound)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Page(c, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, StatusApproved, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, StatusRejected, h.service.Reject)
}

type decideFunc func(ctx context.Context, actor session.Profile, id uuid.UUID) (LeaveResponse, error)

// decide answers script callers with {success, message, new_status} and
// sends browsers back to the detail page with a flash message.
func (h *Handler) decide(c *gin.Context, status string, fn decideFunc) {
	actor, ok := h.profile(c)
	if !ok {
		return
	}
	wantsJSON := middleware.WantsJSON(c)
	rawID := c.Param("id")
	h.logger.Debug("http decide leave",
		zap.String("leave_id", rawID),
		zap.String("status", status),
		zap.String("actor_id", actor.EmployeeID.String()),
	)

	id, err := uuid.Parse(rawID)
	if err != nil {
		h.decideFailed(c, rawID, wantsJSON, leaveerrors.ErrLeaveNotFound)
		return
	}

	resp, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.decideFailed(c, rawID, wantsJSON, err)
		return
	}

	if wantsJSON {
		response.ActionSuccess(c, http.StatusOK, fmt.Sprintf(msgActionJSON, status), resp.Status)
		return
	}
	flash.Success(c, fmt.Sprintf(msgActionFlash, employeeLabel(resp), status))
	c.Redirect(http.StatusSeeOther, listPath+"/"+resp.ID)
}

func (h *Handler) decideFailed(c *gin.Context, rawID string, wantsJSON bool, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("http decide leave failed",
		zap.String("leave_id", rawID),
		zap.Int("status", httpErr.Status),
		zap.String("message", httpErr.Message),
	)
	if wantsJSON {
		response.ActionError(c, httpErr.Status, httpErr.Message)
		return
	}

	flash.Error(c, httpErr.Message)
	switch httpErr.Status {
	case http.StatusNotFound:
		c.Redirect(http.StatusSeeOther, listPath)
	case http.StatusForbidden:
		c.Redirect(http.StatusSeeOther, homePath)
	default:
		c.Redirect(http.StatusSeeOther, listPath+"/"+rawID)
	}
}

func employeeLabel(resp LeaveResponse) string {
	if resp.EmployeeNumber == "" {
		return resp.EmployeeName
	}
	return fmt.Sprintf("%s (%s)", resp.EmployeeName, resp.EmployeeNumber)
}
