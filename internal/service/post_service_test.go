package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/post-feed/internal/model"
)

func TestCreatePostValidation(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	u := f.seedUser(t, "u1")

	cases := []struct {
		name, title, desc, image string
	}{
		{"missing title", "", "d", "img"},
		{"missing description", "t", "", "img"},
		{"missing image", "t", "d", ""},
		{"blank title", "   ", "d", "img"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.posts.Create(ctx, u, tc.title, tc.desc, tc.image)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	post, err := f.posts.Create(ctx, u, "title", "desc", "img.png")
	require.NoError(t, err)
	assert.Zero(t, post.LikesCount)
	require.NotNil(t, post.User)
	assert.Equal(t, "user-u1", post.User.Username)
}

func TestGetOwnedHidesForeignPosts(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner")
	other := f.seedUser(t, "other")
	p := f.seedPost(t, owner)

	_, err := f.posts.GetOwned(ctx, other, p)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.posts.GetOwned(ctx, owner, p)
	assert.NoError(t, err)
}

func TestUpdatePostOwnership(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner")
	other := f.seedUser(t, "other")
	p := f.seedPost(t, owner)

	_, err := f.posts.Update(ctx, other, p, "new title", "", "")
	assert.ErrorIs(t, err, ErrNotFound)

	post, err := f.posts.Update(ctx, owner, p, "new title", "", "")
	require.NoError(t, err)
	assert.Equal(t, "new title", post.Title)
	assert.Equal(t, "d", post.Description)

	_, err = f.posts.Update(ctx, owner, p, "", "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeletePostCascades(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	owner := f.seedUser(t, "owner")
	commenter := f.seedUser(t, "commenter")
	p := f.seedPost(t, owner)

	_, err := f.interactions.AddComment(ctx, commenter, p, "hi")
	require.NoError(t, err)
	_, err = f.interactions.Like(ctx, commenter, p)
	require.NoError(t, err)

	err = f.posts.Delete(ctx, commenter, p)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.posts.Delete(ctx, owner, p))
	for _, m := range []any{&model.Post{}, &model.Comment{}, &model.Like{}} {
		var cnt int64
		require.NoError(t, f.db.Model(m).Count(&cnt).Error)
		assert.Zero(t, cnt)
	}

	err = f.posts.Delete(ctx, owner, p)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReturnsPopulatedPosts(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()
	u := f.seedUser(t, "u1")
	p := f.seedPost(t, u)
	_, err := f.interactions.AddComment(ctx, u, p, "hi")
	require.NoError(t, err)

	posts, err := f.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.NotNil(t, posts[0].User)
	require.Len(t, posts[0].Comments, 1)
	require.NotNil(t, posts[0].Comments[0].User)
}
