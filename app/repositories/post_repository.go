package repositories

import (
	"context"
	"fmt"

	"blogapi/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db  *badger.DB
	ids *idSequence
}

// newBadgerPostRepository creates a new BadgerPostRepository
func newBadgerPostRepository(db *badger.DB, ids *idSequence) *BadgerPostRepository {
	return &BadgerPostRepository{db: db, ids: ids}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	id, err := r.ids.next()
	if err != nil {
		return err
	}
	post.ID = id

	return update(ctx, r.db, func(txn *badger.Txn) error {
		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	var post *models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		post, err = getPost(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// List retrieves every post in id order
func (r *BadgerPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(ctx context.Context, post *models.Post) (int, error) {
	err := update(ctx, r.db, func(txn *badger.Txn) error {
		key := postKey(post.ID)

		// Verify post exists
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return 0, err
	}
	return 1, nil
}

// Delete deletes a post and its comments by ID
func (r *BadgerPostRepository) Delete(ctx context.Context, id int) (int, error) {
	err := update(ctx, r.db, func(txn *badger.Txn) error {
		key := postKey(id)

		// Verify post exists
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var commentKeys [][]byte
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		prefix := commentPostPrefix(id)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			commentKeys = append(commentKeys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range commentKeys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return txn.Delete(key)
	})
	if err != nil {
		return 0, err
	}
	return 1, nil
}

func getPost(txn *badger.Txn, id int) (*models.Post, error) {
	item, err := txn.Get(postKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = item.Value(func(val []byte) error {
		return unmarshalEntity(val, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}
