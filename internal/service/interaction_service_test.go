package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/post-feed/internal/model"
	"github.com/d60-Lab/post-feed/internal/repository"
)

type recordedEvent struct {
	event   string
	payload map[string]any
}

// recordingBroadcaster 收集扇出事件供断言
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingBroadcaster) Broadcast(event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, _ := payload.(map[string]any)
	r.events = append(r.events, recordedEvent{event: event, payload: m})
}

func (r *recordingBroadcaster) byKind(event string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, e := range r.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

type engineFixture struct {
	db           *gorm.DB
	interactions InteractionService
	posts        PostService
	broadcasts   *recordingBroadcaster
}

func setupEngine(t *testing.T) *engineFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Post{}, &model.Comment{}, &model.Reply{}, &model.Like{},
	))
	rec := &recordingBroadcaster{}
	postRepo := repository.NewPostRepository(db)
	return &engineFixture{
		db: db,
		interactions: NewInteractionService(
			postRepo,
			repository.NewCommentRepository(db),
			repository.NewReplyRepository(db),
			repository.NewLikeRepository(db),
			rec,
		),
		posts:      NewPostService(postRepo),
		broadcasts: rec,
	}
}

func (f *engineFixture) seedUser(t *testing.T, id string) string {
	require.NoError(t, f.db.Create(&model.User{
		ID: id, Username: "user-" + id, Email: id + "@example.com", Password: "x",
	}).Error)
	return id
}

func (f *engineFixture) seedPost(t *testing.T, userID string) string {
	p := &model.Post{ID: uuid.New().String(), UserID: userID, Image: "img", Title: "t", Description: "d"}
	require.NoError(t, f.db.Create(p).Error)
	return p.ID
}

func TestLikeThenDuplicateLike(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	u := f.seedUser(t, "u1")
	p := f.seedPost(t, u)

	post, err := f.interactions.Like(ctx, u, p)
	require.NoError(t, err)
	assert.EqualValues(t, 1, post.LikesCount)

	// 重试只报冲突，计数仍是 1
	_, err = f.interactions.Like(ctx, u, p)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	var cnt int64
	require.NoError(t, f.db.Model(&model.Like{}).Where("post_id = ?", p).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)

	var stored model.Post
	require.NoError(t, f.db.First(&stored, "id = ?", p).Error)
	assert.EqualValues(t, 1, stored.LikesCount)
}

func TestUnlikeWithoutLike(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	u := f.seedUser(t, "u1")
	p := f.seedPost(t, u)

	_, err := f.interactions.Unlike(ctx, u, p)
	assert.ErrorIs(t, err, ErrNotLiked)

	var stored model.Post
	require.NoError(t, f.db.First(&stored, "id = ?", p).Error)
	assert.Zero(t, stored.LikesCount)
}

func TestLikesCountMatchesCardinalityAfterAnySequence(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	owner := f.seedUser(t, "u1")
	p := f.seedPost(t, owner)
	u2 := f.seedUser(t, "u2")
	u3 := f.seedUser(t, "u3")

	_, _ = f.interactions.Like(ctx, owner, p)
	_, _ = f.interactions.Like(ctx, u2, p)
	_, _ = f.interactions.Like(ctx, u2, p) // conflict
	_, _ = f.interactions.Like(ctx, u3, p)
	_, _ = f.interactions.Unlike(ctx, u2, p)
	_, _ = f.interactions.Unlike(ctx, u2, p) // conflict

	var likes int64
	require.NoError(t, f.db.Model(&model.Like{}).Where("post_id = ?", p).Count(&likes).Error)
	var stored model.Post
	require.NoError(t, f.db.First(&stored, "id = ?", p).Error)
	assert.Equal(t, likes, stored.LikesCount)
	assert.EqualValues(t, 2, stored.LikesCount)
}

func TestLikeBroadcastsMatchingCount(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	u := f.seedUser(t, "u1")
	p := f.seedPost(t, u)

	_, err := f.interactions.Like(ctx, u, p)
	require.NoError(t, err)

	postEvents := f.broadcasts.byKind(EventPostUpdated)
	countEvents := f.broadcasts.byKind(EventLikesCountUpdated)
	require.Len(t, postEvents, 1)
	require.Len(t, countEvents, 1)

	// 同一次变更里两个事件携带同一计数
	broadcastPost := postEvents[0].payload["post"].(*model.Post)
	assert.EqualValues(t, 1, broadcastPost.LikesCount)
	assert.Equal(t, p, countEvents[0].payload["postId"])
	assert.EqualValues(t, 1, countEvents[0].payload["likesCount"])
	require.NotNil(t, broadcastPost.User)
	assert.Equal(t, "user-u1", broadcastPost.User.Username)
}

func TestLikeUnknownPost(t *testing.T) {
	f := setupEngine(t)
	u := f.seedUser(t, "u1")
	_, err := f.interactions.Like(context.Background(), u, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddCommentAppearsOnPost(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	u := f.seedUser(t, "u1")
	p := f.seedPost(t, u)

	comment, err := f.interactions.AddComment(ctx, u, p, "hi")
	require.NoError(t, err)
	require.NotNil(t, comment.User)
	assert.Equal(t, "user-u1", comment.User.Username)

	post, err := f.posts.GetOwned(ctx, u, p)
	require.NoError(t, err)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "hi", post.Comments[0].Text)

	events := f.broadcasts.byKind(EventPostUpdated)
	require.Len(t, events, 1)
	broadcastPost := events[0].payload["post"].(*model.Post)
	require.Len(t, broadcastPost.Comments, 1)
	require.NotNil(t, broadcastPost.Comments[0].User)
}

func TestAddCommentValidation(t *testing.T) {
	f := setupEngine(t)
	u := f.seedUser(t, "u1")
	p := f.seedPost(t, u)
	_, err := f.interactions.AddComment(context.Background(), u, p, "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteCommentAuthorization(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner")
	author := f.seedUser(t, "author")
	stranger := f.seedUser(t, "stranger")
	p := f.seedPost(t, owner)

	comment, err := f.interactions.AddComment(ctx, author, p, "hi")
	require.NoError(t, err)

	// 旁观者删不掉
	err = f.interactions.DeleteComment(ctx, stranger, p, comment.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// 帖子作者可以删
	require.NoError(t, f.interactions.DeleteComment(ctx, owner, p, comment.ID))

	post, err := f.posts.GetOwned(ctx, owner, p)
	require.NoError(t, err)
	assert.Empty(t, post.Comments)

	events := f.broadcasts.byKind(EventCommentDeleted)
	require.Len(t, events, 1)
	assert.Equal(t, comment.ID, events[0].payload["commentId"])
	assert.Equal(t, p, events[0].payload["postId"])
}

func TestDeleteCommentByAuthor(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner")
	author := f.seedUser(t, "author")
	p := f.seedPost(t, owner)

	comment, err := f.interactions.AddComment(ctx, author, p, "hi")
	require.NoError(t, err)
	require.NoError(t, f.interactions.DeleteComment(ctx, author, p, comment.ID))
}

func TestDeleteCommentWrongPost(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	u := f.seedUser(t, "u1")
	p1 := f.seedPost(t, u)
	p2 := f.seedPost(t, u)

	comment, err := f.interactions.AddComment(ctx, u, p1, "hi")
	require.NoError(t, err)
	err = f.interactions.DeleteComment(ctx, u, p2, comment.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplyLifecycle(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	u := f.seedUser(t, "u1")
	u2 := f.seedUser(t, "u2")
	p := f.seedPost(t, u)

	comment, err := f.interactions.AddComment(ctx, u, p, "hi")
	require.NoError(t, err)

	reply, err := f.interactions.AddReply(ctx, u2, p, comment.ID, "yo")
	require.NoError(t, err)

	// commentUpdated 带上完整回复视图
	events := f.broadcasts.byKind(EventCommentUpdated)
	require.Len(t, events, 1)
	broadcastComment := events[0].payload["comment"].(*model.Comment)
	require.Len(t, broadcastComment.Replies, 1)
	require.NotNil(t, broadcastComment.Replies[0].User)
	assert.Equal(t, "user-u2", broadcastComment.Replies[0].User.Username)

	// 只有回复作者可删
	err = f.interactions.DeleteReply(ctx, u, comment.ID, reply.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)
	require.NoError(t, f.interactions.DeleteReply(ctx, u2, comment.ID, reply.ID))

	deleted := f.broadcasts.byKind(EventReplyDeleted)
	require.Len(t, deleted, 1)
	assert.Equal(t, reply.ID, deleted[0].payload["replyId"])

	replies, err := f.interactions.ListReplies(ctx, comment.ID)
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestAddReplyToUnknownComment(t *testing.T) {
	f := setupEngine(t)
	u := f.seedUser(t, "u1")
	p := f.seedPost(t, u)
	_, err := f.interactions.AddReply(context.Background(), u, p, "missing", "yo")
	assert.ErrorIs(t, err, ErrNotFound)
}
