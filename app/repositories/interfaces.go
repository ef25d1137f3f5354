package repositories

import (
	"context"

	"blogapi/app/models"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	// Update returns the number of posts written.
	Update(ctx context.Context, post *models.Post) (int, error)
	// Delete removes the post and every comment attached to it, returning
	// the number of posts removed.
	Delete(ctx context.Context, id int) (int, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int) ([]*models.Comment, error)
}

// Store bundles the repositories of one backend.
type Store interface {
	Posts() PostRepository
	Comments() CommentRepository
	Close() error
}
