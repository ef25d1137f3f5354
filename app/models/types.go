package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Post represents a blog post.
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title" validate:"required"`
	Contents  string    `json:"contents" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment represents a comment on a blog post. Post holds the parent
// post's title when the comment was loaded through a post listing.
type Comment struct {
	ID        int       `json:"id"`
	Text      string    `json:"text" validate:"required"`
	PostID    int       `json:"post_id"`
	Post      string    `json:"post,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
