package repositories

import (
	"context"
	"errors"
	"fmt"

	"blogapi/app/config"
	"blogapi/app/logger"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Open opens the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, log *zerolog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverBadger:
		return OpenBadger(cfg.Path, log)
	case config.DriverSQLite:
		return OpenSQL(ctx, DialectSQLite, cfg.Path, log)
	case config.DriverPostgres:
		return OpenSQL(ctx, DialectPostgres, cfg.DSN, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// BadgerStore is the BadgerDB backed Store.
type BadgerStore struct {
	db         *badger.DB
	postIDs    *idSequence
	commentIDs *idSequence
	posts      *BadgerPostRepository
	comments   *BadgerCommentRepository
}

// BadgerOptions returns the options used for the blog database at path.
// An empty path opens an in-memory database.
func BadgerOptions(path string, log *zerolog.Logger) badger.Options {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path).
			WithSyncWrites(false).
			WithNumVersionsToKeep(1)
	}
	if log == nil {
		return opts.WithLogger(nil)
	}
	return opts.WithLogger(logger.NewBadgerLogger(log))
}

// OpenBadger opens (creating if needed) the badger database at path.
func OpenBadger(path string, log *zerolog.Logger) (*BadgerStore, error) {
	db, err := badger.Open(BadgerOptions(path, log))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an already opened database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	postIDs := newIDSequence(db, PostSeqKey)
	commentIDs := newIDSequence(db, CommentSeqKey)
	return &BadgerStore{
		db:         db,
		postIDs:    postIDs,
		commentIDs: commentIDs,
		posts:      newBadgerPostRepository(db, postIDs),
		comments:   newBadgerCommentRepository(db, commentIDs),
	}
}

func (s *BadgerStore) Posts() PostRepository {
	return s.posts
}

func (s *BadgerStore) Comments() CommentRepository {
	return s.comments
}

// DB exposes the underlying database for maintenance commands.
func (s *BadgerStore) DB() *badger.DB {
	return s.db
}

// Close releases the id leases and closes the database.
func (s *BadgerStore) Close() error {
	var errs []error
	for _, seq := range []*idSequence{s.postIDs, s.commentIDs} {
		if err := seq.release(); err != nil {
			errs = append(errs, fmt.Errorf("failed to release sequence: %w", err))
		}
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
