package handler

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/post-feed/internal/api/middleware"
	"github.com/d60-Lab/post-feed/pkg/response"
)

var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// saveImage 生成对象名并写入图片存储，返回落库的图片路径
func (h *Handler) saveImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if !imageContentTypes[contentType] {
		return "", fmt.Errorf("unsupported image format: %s", contentType)
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	objectName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename))
	return h.images.Save(c.Request.Context(), objectName, src, file.Size, contentType)
}

// AddPost 发帖（multipart：title/description/image）
// @Summary 发布帖子
// @Tags 帖子
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param title formData string true "标题"
// @Param description formData string true "描述"
// @Param image formData file true "图片"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /addpost [post]
func (h *Handler) AddPost(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")
	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image is required")
		return
	}
	image, err := h.saveImage(c, file)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.postSvc.Create(c.Request.Context(), c.GetString(middleware.CtxUserID), title, description, image)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, gin.H{"post": post})
}

// ListPosts 全量帖子（含作者与评论的完整视图）
// @Summary 帖子列表
// @Tags 帖子
// @Produce json
// @Success 200 {object} response.Response
// @Router /posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.postSvc.List(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"posts": posts})
}

// ListUserPosts 当前用户的帖子
// @Summary 我的帖子
// @Tags 帖子
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /user/posts [get]
func (h *Handler) ListUserPosts(c *gin.Context) {
	posts, err := h.postSvc.ListByUser(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"posts": posts})
}

// GetPost 按 ID 读取自己的帖子
// @Summary 帖子详情
// @Tags 帖子
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /post/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.postSvc.GetOwned(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"post": post})
}

// UpdatePost 更新自己的帖子；字段可选，带图则替换
// @Summary 更新帖子
// @Tags 帖子
// @Security BearerAuth
// @Accept mpfd
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /post/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	var image string
	if file, err := c.FormFile("image"); err == nil {
		saved, err := h.saveImage(c, file)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		image = saved
	}
	post, err := h.postSvc.Update(c.Request.Context(),
		c.GetString(middleware.CtxUserID), c.Param("id"),
		c.PostForm("title"), c.PostForm("description"), image)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, gin.H{"post": post})
}

// DeletePost 删除自己的帖子，评论/回复/点赞一并清理
// @Summary 删除帖子
// @Tags 帖子
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /post/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.postSvc.Delete(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, nil)
}
