package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/post-feed/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	// FindByIDPopulated 返回帖子及其作者/评论/评论作者的完整视图
	FindByIDPopulated(ctx context.Context, id string) (*model.Post, error)
	ListPopulated(ctx context.Context) ([]*model.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Post, error)
	// UpdateOwned 单条语句更新，WHERE 同时带上 owner；返回是否命中
	UpdateOwned(ctx context.Context, id, userID string, fields map[string]any) (bool, error)
	// DeleteOwnedCascade 事务内删除帖子及其评论/回复/点赞；返回是否命中
	DeleteOwnedCascade(ctx context.Context, id, userID string) (bool, error)
	// RefreshLikesCount 用 likes 表基数重算 likes_count（单条原子 UPDATE）
	RefreshLikesCount(ctx context.Context, id string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) FindByIDPopulated(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Comments.User").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) ListPopulated(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Comments.User").
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) UpdateOwned(ctx context.Context, id, userID string, fields map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) DeleteOwnedCascade(ctx context.Context, id, userID string) (bool, error) {
	var hit bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		hit = true
		if err := tx.Where("post_id = ?", id).Delete(&model.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", id).Delete(&model.Like{}).Error
	})
	return hit, err
}

func (r *postRepository) RefreshLikesCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("likes_count", gorm.Expr("(SELECT COUNT(*) FROM likes WHERE likes.post_id = ?)", id)).Error
}
