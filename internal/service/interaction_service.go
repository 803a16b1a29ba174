package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/post-feed/internal/model"
	"github.com/d60-Lab/post-feed/internal/repository"
)

// InteractionService 点赞/评论/回复的状态迁移引擎。
// 每个迁移 = 前置校验 → 原子写 → 重取完整视图 → 扇出事件。
type InteractionService interface {
	Like(ctx context.Context, userID, postID string) (*model.Post, error)
	Unlike(ctx context.Context, userID, postID string) (*model.Post, error)
	AddComment(ctx context.Context, userID, postID, text string) (*model.Comment, error)
	DeleteComment(ctx context.Context, userID, postID, commentID string) error
	AddReply(ctx context.Context, userID, postID, commentID, text string) (*model.Reply, error)
	DeleteReply(ctx context.Context, userID, commentID, replyID string) error
	ListComments(ctx context.Context, postID string) ([]*model.Comment, error)
	ListReplies(ctx context.Context, commentID string) ([]*model.Reply, error)
}

type interactionService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	replyRepo   repository.ReplyRepository
	likeRepo    repository.LikeRepository
	broadcaster Broadcaster
}

func NewInteractionService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	replyRepo repository.ReplyRepository,
	likeRepo repository.LikeRepository,
	broadcaster Broadcaster,
) InteractionService {
	if broadcaster == nil {
		broadcaster = NopBroadcaster{}
	}
	return &interactionService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		replyRepo:   replyRepo,
		likeRepo:    likeRepo,
		broadcaster: broadcaster,
	}
}

func (s *interactionService) Like(ctx context.Context, userID, postID string) (*model.Post, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return nil, notFoundOr(err)
	}
	inserted, err := s.likeRepo.Create(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, ErrAlreadyLiked
	}
	return s.syncAndAnnounceLikes(ctx, postID)
}

func (s *interactionService) Unlike(ctx context.Context, userID, postID string) (*model.Post, error) {
	removed, err := s.likeRepo.Delete(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrNotLiked
	}
	return s.syncAndAnnounceLikes(ctx, postID)
}

// syncAndAnnounceLikes 重算 likes_count 后取完整视图，保证两个事件携带同一计数
func (s *interactionService) syncAndAnnounceLikes(ctx context.Context, postID string) (*model.Post, error) {
	if err := s.postRepo.RefreshLikesCount(ctx, postID); err != nil {
		return nil, err
	}
	post, err := s.postRepo.FindByIDPopulated(ctx, postID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	s.broadcaster.Broadcast(EventPostUpdated, map[string]any{"post": post})
	s.broadcaster.Broadcast(EventLikesCountUpdated, map[string]any{
		"postId":     post.ID,
		"likesCount": post.LikesCount,
	})
	return post, nil
}

func (s *interactionService) AddComment(ctx context.Context, userID, postID, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrValidation
	}
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return nil, notFoundOr(err)
	}
	comment := &model.Comment{PostID: postID, UserID: userID, Text: text}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	post, err := s.postRepo.FindByIDPopulated(ctx, postID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	s.broadcaster.Broadcast(EventPostUpdated, map[string]any{"post": post})
	return s.commentRepo.FindByIDPopulated(ctx, comment.ID)
}

// DeleteComment 评论作者或帖子作者可删
func (s *interactionService) DeleteComment(ctx context.Context, userID, postID, commentID string) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return notFoundOr(err)
	}
	if comment.PostID != postID {
		return ErrNotFound
	}
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return notFoundOr(err)
	}
	if comment.UserID != userID && post.UserID != userID {
		return ErrNotAuthorized
	}
	hit, err := s.commentRepo.Delete(ctx, commentID)
	if err != nil {
		return err
	}
	if !hit {
		return ErrNotFound
	}
	s.broadcaster.Broadcast(EventCommentDeleted, map[string]any{
		"postId":    postID,
		"commentId": commentID,
	})
	return nil
}

func (s *interactionService) AddReply(ctx context.Context, userID, postID, commentID, text string) (*model.Reply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrValidation
	}
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if comment.PostID != postID {
		return nil, ErrNotFound
	}
	reply := &model.Reply{PostID: postID, CommentID: commentID, UserID: userID, Text: text}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}
	populated, err := s.commentRepo.FindByIDPopulated(ctx, commentID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	s.broadcaster.Broadcast(EventCommentUpdated, map[string]any{"comment": populated})
	reply.User = nil
	return reply, nil
}

// DeleteReply 仅回复作者可删
func (s *interactionService) DeleteReply(ctx context.Context, userID, commentID, replyID string) error {
	reply, err := s.replyRepo.FindByID(ctx, replyID)
	if err != nil {
		return notFoundOr(err)
	}
	if reply.CommentID != commentID {
		return ErrNotFound
	}
	if reply.UserID != userID {
		return ErrNotAuthorized
	}
	hit, err := s.replyRepo.Delete(ctx, replyID)
	if err != nil {
		return err
	}
	if !hit {
		return ErrNotFound
	}
	s.broadcaster.Broadcast(EventReplyDeleted, map[string]any{
		"commentId": commentID,
		"replyId":   replyID,
	})
	return nil
}

func (s *interactionService) ListComments(ctx context.Context, postID string) ([]*model.Comment, error) {
	return s.commentRepo.ListByPostPopulated(ctx, postID)
}

func (s *interactionService) ListReplies(ctx context.Context, commentID string) ([]*model.Reply, error) {
	return s.replyRepo.ListByCommentPopulated(ctx, commentID)
}
