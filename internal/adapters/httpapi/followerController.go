package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type FollowerController struct {
	fc FollowerUseCase
	e  *errorResponder
}

func NewFollowerController(fc FollowerUseCase, e *errorResponder) *FollowerController {
	return &FollowerController{fc: fc, e: e}
}

func (ctl *FollowerController) ToggleFollow(c *gin.Context) {
	res, err := ctl.fc.ToggleFollow(c.Request.Context(), userID(c), c.Param("username"))
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *FollowerController) GetFollowers(c *gin.Context) {
	res, err := ctl.fc.GetFollowers(c.Request.Context(), c.Param("username"))
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *FollowerController) GetFollowing(c *gin.Context) {
	res, err := ctl.fc.GetFollowing(c.Request.Context(), c.Param("username"))
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
