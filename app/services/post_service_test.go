package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"blogapi/app/models"
	"blogapi/app/repositories"
	"blogapi/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService(t *testing.T) {
	ctx := context.Background()
	store := mock.NewStore()
	service := NewPostService(store.Posts())

	t.Run("create post", func(t *testing.T) {
		post := &models.Post{
			Title:    "Test Post",
			Contents: "Test Contents",
		}

		err := service.CreatePost(ctx, post)
		assert.NoError(t, err)
		assert.Equal(t, 1, post.ID)
		assert.False(t, post.CreatedAt.IsZero())
		assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	})

	t.Run("client supplied id and timestamps are ignored", func(t *testing.T) {
		old := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
		post := &models.Post{ID: 42, Title: "T", Contents: "C", CreatedAt: old, UpdatedAt: old}

		require.NoError(t, service.CreatePost(ctx, post))
		assert.Equal(t, 2, post.ID)
		assert.True(t, post.CreatedAt.After(old))
	})

	t.Run("get post", func(t *testing.T) {
		post, err := service.GetPost(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, "Test Post", post.Title)
		assert.Equal(t, "Test Contents", post.Contents)
	})

	t.Run("get missing post", func(t *testing.T) {
		_, err := service.GetPost(ctx, 999)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("update post", func(t *testing.T) {
		before, err := service.GetPost(ctx, 1)
		require.NoError(t, err)

		post := &models.Post{
			ID:       1,
			Title:    "Updated Title",
			Contents: "Updated contents",
		}

		n, err := service.UpdatePost(ctx, post)
		assert.NoError(t, err)
		assert.Equal(t, 1, n)

		updated, err := service.GetPost(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, "Updated Title", updated.Title)
		assert.Equal(t, "Updated contents", updated.Contents)
		assert.Equal(t, before.CreatedAt, updated.CreatedAt)
		assert.False(t, updated.UpdatedAt.Before(before.UpdatedAt))
	})

	t.Run("update missing post", func(t *testing.T) {
		_, err := service.UpdatePost(ctx, &models.Post{ID: 999, Title: "x", Contents: "y"})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("delete post", func(t *testing.T) {
		n, err := service.DeletePost(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = service.GetPost(ctx, 1)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("delete missing post", func(t *testing.T) {
		_, err := service.DeletePost(ctx, 1)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("list posts", func(t *testing.T) {
		store.Clear()
		for i := 0; i < 3; i++ {
			err := service.CreatePost(ctx, &models.Post{Title: "List Test Post", Contents: "Contents for list test"})
			assert.NoError(t, err)
		}

		posts, err := service.ListPosts(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 3, len(posts))
	})

	t.Run("validation errors", func(t *testing.T) {
		tests := []struct {
			name string
			post *models.Post
		}{
			{name: "empty title", post: &models.Post{Contents: "Valid contents"}},
			{name: "empty contents", post: &models.Post{Title: "Valid Title"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				count := store.PostCount()

				err := service.CreatePost(ctx, tt.post)
				assert.ErrorIs(t, err, ErrInvalidInput)

				tt.post.ID = 1
				_, err = service.UpdatePost(ctx, tt.post)
				assert.ErrorIs(t, err, ErrInvalidInput)

				assert.Equal(t, count, store.PostCount())
			})
		}
	})

	t.Run("validation runs before the existence check", func(t *testing.T) {
		_, err := service.UpdatePost(ctx, &models.Post{ID: 999})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.NotErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("lookup failures are distinguished", func(t *testing.T) {
		store.Err = errors.New("disk on fire")
		defer func() { store.Err = nil }()

		_, err := service.DeletePost(ctx, 1)
		assert.ErrorIs(t, err, ErrLookupFailed)

		_, err = service.UpdatePost(ctx, &models.Post{ID: 1, Title: "x", Contents: "y"})
		assert.ErrorIs(t, err, ErrLookupFailed)

		err = service.CreatePost(ctx, &models.Post{Title: "x", Contents: "y"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrLookupFailed)
	})
}
