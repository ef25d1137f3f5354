package repositories

import (
	"context"
	"errors"
	"fmt"

	"blogapi/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db  *badger.DB
	ids *idSequence
}

// newBadgerCommentRepository creates a new BadgerCommentRepository
func newBadgerCommentRepository(db *badger.DB, ids *idSequence) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db, ids: ids}
}

// Create creates a new comment. The parent post must exist.
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	id := 0
	return update(ctx, r.db, func(txn *badger.Txn) error {
		post, err := getPost(txn, comment.PostID)
		if err != nil {
			return err
		}

		// a replayed transaction keeps the id it already drew
		if id == 0 {
			if id, err = r.ids.next(); err != nil {
				return err
			}
		}
		comment.ID = id
		comment.Post = post.Title

		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}

		// Save comment with post ID in key for efficient listing
		return txn.Set(commentKey(comment.PostID, comment.ID), data)
	})
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	var comment *models.Comment

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(CommentKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			_, commentID, err := parseCommentKey(item.Key())
			if err != nil || commentID != id {
				continue
			}

			var c models.Comment
			if err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &c)
			}); err != nil {
				return fmt.Errorf("failed to unmarshal comment: %w", err)
			}
			if err := attachPostTitle(txn, &c); err != nil {
				return err
			}
			comment = &c
			return nil
		}
		return ErrNotFound
	})

	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByPost retrieves all comments for a post in id order
func (r *BadgerCommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		title := ""
		post, err := getPost(txn, postID)
		if err == nil {
			title = post.Title
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := commentPostPrefix(postID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var comment models.Comment
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &comment)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal comment: %w", err)
			}
			comment.Post = title
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func attachPostTitle(txn *badger.Txn, c *models.Comment) error {
	post, err := getPost(txn, c.PostID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	c.Post = post.Title
	return nil
}
