package httpapi

import (
	"net/http"
	"strings"

	postPort "xclone/internal/ports/post"

	"github.com/gin-gonic/gin"
)

type PostController struct {
	pc PostUseCase
	e  *errorResponder
}

func NewPostController(pc PostUseCase, e *errorResponder) *PostController {
	return &PostController{pc: pc, e: e}
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	var req struct {
		Content  string `json:"content" binding:"required"`
		Image    string `json:"image"`
		Location string `json:"location"`
	}
	if !ctl.e.bind(c, &req) {
		return
	}
	res, err := ctl.pc.CreatePost(c.Request.Context(), userID(c), postPort.NewPost{
		Content:  req.Content,
		Image:    req.Image,
		Location: req.Location,
	})
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ListPosts serves GET /posts?feed=1 and GET /posts?user=<username>.
func (ctl *PostController) ListPosts(c *gin.Context) {
	filter := postPort.ListFilter{Username: c.Query("user")}
	if v, ok := c.GetQuery("feed"); ok {
		filter.Feed = flag(v)
	}
	res, err := ctl.pc.ListPosts(c.Request.Context(), userID(c), filter)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// flag treats any value other than "", "0" and "false" as set.
func flag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false":
		return false
	}
	return true
}

func (ctl *PostController) GetPost(c *gin.Context) {
	id, ok := ctl.e.pathID(c, "post")
	if !ok {
		return
	}
	res, err := ctl.pc.GetPost(c.Request.Context(), userID(c), id)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) UpdatePost(c *gin.Context) {
	id, ok := ctl.e.pathID(c, "post")
	if !ok {
		return
	}
	var req struct {
		Content  *string `json:"content"`
		Image    *string `json:"image"`
		Location *string `json:"location"`
	}
	if !ctl.e.bind(c, &req) {
		return
	}
	res, err := ctl.pc.UpdatePost(c.Request.Context(), userID(c), id, postPort.PostUpdate{
		Content:  req.Content,
		Image:    req.Image,
		Location: req.Location,
	})
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	id, ok := ctl.e.pathID(c, "post")
	if !ok {
		return
	}
	if err := ctl.pc.DeletePost(c.Request.Context(), userID(c), id); err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *PostController) ToggleLike(c *gin.Context) {
	id, ok := ctl.e.pathID(c, "post")
	if !ok {
		return
	}
	res, err := ctl.pc.ToggleLike(c.Request.Context(), userID(c), id)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) ToggleRetweet(c *gin.Context) {
	id, ok := ctl.e.pathID(c, "post")
	if !ok {
		return
	}
	res, err := ctl.pc.ToggleRetweet(c.Request.Context(), userID(c), id)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
