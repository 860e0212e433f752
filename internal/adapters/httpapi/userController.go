package httpapi

import (
	"net/http"

	socialPort "xclone/internal/ports/social"
	userPort "xclone/internal/ports/user"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	uc UserUseCase
	e  *errorResponder
}

func NewUserController(uc UserUseCase, e *errorResponder) *UserController {
	return &UserController{uc: uc, e: e}
}

func (ctl *UserController) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,max=150"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if !ctl.e.bind(c, &req) {
		return
	}
	res, err := ctl.uc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *UserController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !ctl.e.bind(c, &req) {
		return
	}
	res, err := ctl.uc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *UserController) GoogleLogin(c *gin.Context) { ctl.socialLogin(c, socialPort.ProviderGoogle) }

func (ctl *UserController) AppleLogin(c *gin.Context) { ctl.socialLogin(c, socialPort.ProviderApple) }

func (ctl *UserController) socialLogin(c *gin.Context, provider string) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if !ctl.e.bind(c, &req) {
		return
	}
	res, err := ctl.uc.SocialLogin(c.Request.Context(), provider, req.Token)
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *UserController) Logout(c *gin.Context) {
	if err := ctl.uc.Logout(c.Request.Context(), principal(c)); err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *UserController) LogoutAll(c *gin.Context) {
	if err := ctl.uc.LogoutAll(c.Request.Context(), principal(c)); err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *UserController) GetProfile(c *gin.Context) {
	res, err := ctl.uc.GetProfile(c.Request.Context(), userID(c))
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *UserController) UpdateProfile(c *gin.Context) {
	var req struct {
		Username       *string `json:"username"`
		Email          *string `json:"email"`
		Bio            *string `json:"bio"`
		ProfilePicture *string `json:"profile_picture"`
		BannerImage    *string `json:"banner_image"`
	}
	if !ctl.e.bind(c, &req) {
		return
	}
	res, err := ctl.uc.UpdateProfile(c.Request.Context(), userID(c), userPort.ProfileUpdate{
		Username:       req.Username,
		Email:          req.Email,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
		BannerImage:    req.BannerImage,
	})
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *UserController) GetUser(c *gin.Context) {
	res, err := ctl.uc.GetUserByUsername(c.Request.Context(), userID(c), c.Param("username"))
	if err != nil {
		ctl.e.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
