package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type ChatController struct {
	cc ChatUseCase
	e  *errorResponder
}

func NewChatController(cc ChatUseCase, e *errorResponder) *ChatController {
	return &ChatController{cc: cc, e: e}
}

func (ctl *ChatController) ListConversations(c *gin.Context) {
	res, err := ctl.cc.ListConversations(c.Request.Context(), userID(c))
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *ChatController) SendMessage(c *gin.Context) {
	var req struct {
		RecipientID string `json:"recipient_id" binding:"required,uuid"`
		Content     string `json:"content" binding:"required"`
	}
	if !ctl.e.bind(c, &req) {
		return
	}
	res, err := ctl.cc.SendMessage(c.Request.Context(), userID(c), uuid.FromStringOrNil(req.RecipientID), req.Content)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *ChatController) ListMessages(c *gin.Context) {
	id, ok := ctl.e.pathID(c, "conversation")
	if !ok {
		return
	}
	res, err := ctl.cc.ListMessages(c.Request.Context(), userID(c), id)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *ChatController) MarkRead(c *gin.Context) {
	id, ok := ctl.e.pathID(c, "conversation")
	if !ok {
		return
	}
	res, err := ctl.cc.MarkConversationRead(c.Request.Context(), userID(c), id)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *ChatController) DeleteConversation(c *gin.Context) {
	id, ok := ctl.e.pathID(c, "conversation")
	if !ok {
		return
	}
	if err := ctl.cc.DeleteConversation(c.Request.Context(), userID(c), id); err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *ChatController) DeleteMessage(c *gin.Context) {
	id, ok := ctl.e.pathID(c, "message")
	if !ok {
		return
	}
	res, err := ctl.cc.DeleteMessage(c.Request.Context(), userID(c), id)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
