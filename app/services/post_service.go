package services

import (
	"context"
	"fmt"
	"time"

	"blogapi/app/models"
	"blogapi/app/repositories"
)

// PostService handles business logic for blog posts. Every operation runs
// its checks before touching the repository and stops at the first failure.
type PostService struct {
	postRepo repositories.PostRepository
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
	}
}

// ListPosts retrieves every post
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// CreatePost validates and stores a new post, assigning its ID
func (s *PostService) CreatePost(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	post.ID = 0
	post.CreatedAt = time.Time{}
	post.UpdatedAt = time.Time{}
	post.BeforeCreate()

	return s.postRepo.Create(ctx, post)
}

// UpdatePost validates the new contents, verifies the post exists and
// writes it, returning the number of posts updated
func (s *PostService) UpdatePost(ctx context.Context, post *models.Post) (int, error) {
	if err := post.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	existing, err := s.postRepo.GetByID(ctx, post.ID)
	if err := requirePost(err); err != nil {
		return 0, err
	}

	post.BeforeUpdate(existing)

	return s.postRepo.Update(ctx, post)
}

// DeletePost verifies the post exists and deletes it with its comments
func (s *PostService) DeletePost(ctx context.Context, id int) (int, error) {
	_, err := s.postRepo.GetByID(ctx, id)
	if err := requirePost(err); err != nil {
		return 0, err
	}

	return s.postRepo.Delete(ctx, id)
}
