package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/post-feed/internal/model"
)

type ReplyRepository interface {
	Create(ctx context.Context, reply *model.Reply) error
	FindByID(ctx context.Context, id string) (*model.Reply, error)
	ListByCommentPopulated(ctx context.Context, commentID string) ([]*model.Reply, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type replyRepository struct {
	db *gorm.DB
}

func NewReplyRepository(db *gorm.DB) ReplyRepository { return &replyRepository{db: db} }

func (r *replyRepository) Create(ctx context.Context, reply *model.Reply) error {
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *replyRepository) FindByID(ctx context.Context, id string) (*model.Reply, error) {
	var rep model.Reply
	if err := r.db.WithContext(ctx).First(&rep, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *replyRepository) ListByCommentPopulated(ctx context.Context, commentID string) ([]*model.Reply, error) {
	var replies []*model.Reply
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("comment_id = ?", commentID).
		Order("created_at").
		Find(&replies).Error
	return replies, err
}

func (r *replyRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Reply{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
