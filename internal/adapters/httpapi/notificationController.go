package httpapi

import (
	"errors"
	"io"
	"net/http"

	"xclone/internal/core/errs"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type NotificationController struct {
	nc NotificationUseCase
	e  *errorResponder
}

func NewNotificationController(nc NotificationUseCase, e *errorResponder) *NotificationController {
	return &NotificationController{nc: nc, e: e}
}

func (ctl *NotificationController) List(c *gin.Context) {
	res, err := ctl.nc.List(c.Request.Context(), userID(c))
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// MarkRead marks notification_id read, or every notification when the body names none.
func (ctl *NotificationController) MarkRead(c *gin.Context) {
	var req struct {
		NotificationID string `json:"notification_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ctl.e.respond(c, errs.Validation("invalid input"))
		return
	}

	var id *uuid.UUID
	if req.NotificationID != "" {
		parsed, err := uuid.FromString(req.NotificationID)
		if err != nil {
			ctl.e.respond(c, errs.NotFound("notification not found"))
			return
		}
		id = &parsed
	}

	res, err := ctl.nc.MarkRead(c.Request.Context(), userID(c), id)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *NotificationController) MarkAllRead(c *gin.Context) {
	res, err := ctl.nc.MarkAllRead(c.Request.Context(), userID(c))
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
