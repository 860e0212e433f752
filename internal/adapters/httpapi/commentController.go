package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CommentController struct {
	cc CommentUseCase
	e  *errorResponder
}

func NewCommentController(cc CommentUseCase, e *errorResponder) *CommentController {
	return &CommentController{cc: cc, e: e}
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (ctl *CommentController) CreateComment(c *gin.Context) {
	postID, ok := ctl.e.pathID(c, "post")
	if !ok {
		return
	}
	var req commentRequest
	if !ctl.e.bind(c, &req) {
		return
	}
	res, err := ctl.cc.CreateComment(c.Request.Context(), userID(c), postID, req.Content)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *CommentController) ListComments(c *gin.Context) {
	postID, ok := ctl.e.pathID(c, "post")
	if !ok {
		return
	}
	res, err := ctl.cc.ListComments(c.Request.Context(), postID)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *CommentController) GetComment(c *gin.Context) {
	id, ok := ctl.e.pathID(c, "comment")
	if !ok {
		return
	}
	res, err := ctl.cc.GetComment(c.Request.Context(), id)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *CommentController) UpdateComment(c *gin.Context) {
	id, ok := ctl.e.pathID(c, "comment")
	if !ok {
		return
	}
	var req commentRequest
	if !ctl.e.bind(c, &req) {
		return
	}
	res, err := ctl.cc.UpdateComment(c.Request.Context(), userID(c), id, req.Content)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *CommentController) DeleteComment(c *gin.Context) {
	id, ok := ctl.e.pathID(c, "comment")
	if !ok {
		return
	}
	if err := ctl.cc.DeleteComment(c.Request.Context(), userID(c), id); err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
