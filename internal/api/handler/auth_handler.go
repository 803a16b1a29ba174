package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/post-feed/internal/api/middleware"
	"github.com/d60-Lab/post-feed/pkg/response"
)

type signupRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Signup 注册
// @Summary 用户注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body signupRequest true "注册信息"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.authSvc.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, gin.H{"user": user})
}

// Login 登录，返回 36 小时有效的会话令牌
// @Summary 用户登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response{data=map[string]string}
// @Failure 400 {object} response.Response
// @Router /login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token})
}

// Logout 注销：当前令牌进注销集合，立即失效
// @Summary 退出登录
// @Tags 用户
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.authSvc.Logout(c.Request.Context(), c.GetString(middleware.CtxToken)); err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, nil)
}

// CurrentUser 当前登录用户
// @Summary 当前用户
// @Tags 用户
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /current-user [get]
func (h *Handler) CurrentUser(c *gin.Context) {
	user, err := h.authSvc.CurrentUser(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}
