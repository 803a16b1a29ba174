package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/post-feed/internal/api/middleware"
	"github.com/d60-Lab/post-feed/pkg/response"
)

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// LikePost 点赞；重复点赞返回 400
// @Summary 点赞
// @Tags 互动
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /post/{id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	post, err := h.interactionSvc.Like(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"post": post})
}

// UnlikePost 取消点赞；未点赞返回 400
// @Summary 取消点赞
// @Tags 互动
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /post/{id}/like [delete]
func (h *Handler) UnlikePost(c *gin.Context) {
	post, err := h.interactionSvc.Unlike(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"post": post})
}

// AddComment 评论
// @Summary 发表评论
// @Tags 互动
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Param request body commentRequest true "评论内容"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /post/{id}/comment [post]
func (h *Handler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	comment, err := h.interactionSvc.AddComment(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.Param("id"), req.Text)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, gin.H{"comment": comment})
}

// ListComments 帖子的评论（含回复）
// @Summary 评论列表
// @Tags 互动
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Router /post/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	comments, err := h.interactionSvc.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"comments": comments})
}

// DeleteComment 删除评论（评论作者或帖子作者）
// @Summary 删除评论
// @Tags 互动
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Param commentId path string true "评论ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /post/{id}/comment/{commentId} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	err := h.interactionSvc.DeleteComment(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.Param("id"), c.Param("commentId"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, nil)
}

// AddReply 回复评论
// @Summary 回复评论
// @Tags 互动
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Param commentId path string true "评论ID"
// @Param request body commentRequest true "回复内容"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /post/{id}/comment/{commentId}/reply [post]
func (h *Handler) AddReply(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	reply, err := h.interactionSvc.AddReply(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.Param("id"), c.Param("commentId"), req.Text)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, gin.H{"reply": reply})
}

// ListReplies 评论的回复
// @Summary 回复列表
// @Tags 互动
// @Param id path string true "评论ID"
// @Success 200 {object} response.Response
// @Router /comment/{id}/replies [get]
func (h *Handler) ListReplies(c *gin.Context) {
	replies, err := h.interactionSvc.ListReplies(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"replies": replies})
}

// DeleteReply 删除回复（仅回复作者）
// @Summary 删除回复
// @Tags 互动
// @Security BearerAuth
// @Param id path string true "评论ID"
// @Param replyId path string true "回复ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /comment/{id}/reply/{replyId} [delete]
func (h *Handler) DeleteReply(c *gin.Context) {
	err := h.interactionSvc.DeleteReply(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.Param("id"), c.Param("replyId"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, nil)
}
