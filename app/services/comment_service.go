package services

import (
	"context"
	"fmt"
	"time"

	"blogapi/app/models"
	"blogapi/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment validates the comment, verifies its post exists and stores it
func (s *CommentService) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := comment.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	post, err := s.postRepo.GetByID(ctx, comment.PostID)
	if err := requirePost(err); err != nil {
		return err
	}

	comment.ID = 0
	comment.CreatedAt = time.Time{}
	comment.UpdatedAt = time.Time{}
	if err := comment.SetPost(post); err != nil {
		return err
	}
	comment.BeforeCreate()

	return s.commentRepo.Create(ctx, comment)
}

// GetComment retrieves a comment by ID
func (s *CommentService) GetComment(ctx context.Context, id int) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// ListPostComments verifies the post exists and retrieves its comments
func (s *CommentService) ListPostComments(ctx context.Context, postID int) ([]*models.Comment, error) {
	_, err := s.postRepo.GetByID(ctx, postID)
	if err := requirePost(err); err != nil {
		return nil, err
	}

	return s.commentRepo.ListByPost(ctx, postID)
}
