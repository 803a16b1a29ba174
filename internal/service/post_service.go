package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/post-feed/internal/model"
	"github.com/d60-Lab/post-feed/internal/repository"
)

type PostService interface {
	Create(ctx context.Context, userID, title, description, image string) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Post, error)
	// GetOwned 仅帖子作者可按 ID 读取（编辑页用）
	GetOwned(ctx context.Context, userID, id string) (*model.Post, error)
	Update(ctx context.Context, userID, id string, title, description, image string) (*model.Post, error)
	Delete(ctx context.Context, userID, id string) error
}

type postService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

func (s *postService) Create(ctx context.Context, userID, title, description, image string) (*model.Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" || image == "" {
		return nil, ErrValidation
	}
	post := &model.Post{UserID: userID, Title: title, Description: description, Image: image}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.FindByIDPopulated(ctx, post.ID)
}

func (s *postService) List(ctx context.Context) ([]*model.Post, error) {
	return s.postRepo.ListPopulated(ctx)
}

func (s *postService) ListByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	return s.postRepo.ListByUser(ctx, userID)
}

func (s *postService) GetOwned(ctx context.Context, userID, id string) (*model.Post, error) {
	post, err := s.postRepo.FindByIDPopulated(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	// 非作者与不存在不作区分，避免泄露帖子归属
	if post.UserID != userID {
		return nil, ErrNotFound
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, userID, id string, title, description, image string) (*model.Post, error) {
	fields := map[string]any{}
	if title != "" {
		fields["title"] = title
	}
	if description != "" {
		fields["description"] = description
	}
	if image != "" {
		fields["image"] = image
	}
	if len(fields) == 0 {
		return nil, ErrValidation
	}
	hit, err := s.postRepo.UpdateOwned(ctx, id, userID, fields)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, ErrNotFound
	}
	return s.postRepo.FindByIDPopulated(ctx, id)
}

func (s *postService) Delete(ctx context.Context, userID, id string) error {
	hit, err := s.postRepo.DeleteOwnedCascade(ctx, id, userID)
	if err != nil {
		return err
	}
	if !hit {
		return ErrNotFound
	}
	return nil
}
