package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix    = "post:"
	CommentKeyPrefix = "comment:"

	// Sequence keys for auto-incrementing IDs
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"
)

// ids are zero padded so prefix iteration yields them in numeric order
func postKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", PostKeyPrefix, id))
}

func commentKey(postID, id int) []byte {
	return []byte(fmt.Sprintf("%s%010d:%010d", CommentKeyPrefix, postID, id))
}

func commentPostPrefix(postID int) []byte {
	return []byte(fmt.Sprintf("%s%010d:", CommentKeyPrefix, postID))
}

func parseCommentKey(key []byte) (postID, id int, err error) {
	_, err = fmt.Sscanf(string(key), CommentKeyPrefix+"%d:%d", &postID, &id)
	return postID, id, err
}

// seqBandwidth is how many ids a badger.Sequence leases per write.
const seqBandwidth = 64

// maxConflictRetries bounds how often a write transaction is replayed after
// badger.ErrConflict.
const maxConflictRetries = 32

// idSequence hands out ids from a badger.Sequence. The lease is taken on first
// use so that opening a store for maintenance does not touch the key.
type idSequence struct {
	db  *badger.DB
	key []byte

	mu  sync.Mutex
	seq *badger.Sequence
}

func newIDSequence(db *badger.DB, key string) *idSequence {
	return &idSequence{db: db, key: []byte(key)}
}

// next returns the next id, starting at 1.
func (s *idSequence) next() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq == nil {
		seq, err := s.db.GetSequence(s.key, seqBandwidth)
		if err != nil {
			return 0, fmt.Errorf("failed to get sequence: %w", err)
		}
		s.seq = seq
	}

	n, err := s.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to update sequence: %w", err)
	}
	return int(n) + 1, nil
}

// release returns the unused part of the lease so ids stay contiguous across
// restarts.
func (s *idSequence) release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seq == nil {
		return nil
	}
	err := s.seq.Release()
	s.seq = nil
	return err
}

// update runs fn in a read-write transaction and replays it when a concurrent
// transaction committed a conflicting write first.
func update(ctx context.Context, db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// marshalEntity marshals an entity to JSON
func marshalEntity(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}
