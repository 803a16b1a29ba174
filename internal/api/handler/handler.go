package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/post-feed/internal/service"
	"github.com/d60-Lab/post-feed/internal/storage"
	"github.com/d60-Lab/post-feed/pkg/response"
)

type Handler struct {
	authSvc        service.AuthService
	postSvc        service.PostService
	interactionSvc service.InteractionService
	images         storage.ImageStore
}

func New(authSvc service.AuthService, postSvc service.PostService, interactionSvc service.InteractionService, images storage.ImageStore) *Handler {
	return &Handler{authSvc: authSvc, postSvc: postSvc, interactionSvc: interactionSvc, images: images}
}

// renderError 服务层错误 → 状态码；点赞冲突按 400 返回
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAlreadyLiked),
		errors.Is(err, service.ErrNotLiked):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNotAuthorized):
		response.Forbidden(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
