package services

import (
	"errors"
	"fmt"

	"blogapi/app/repositories"
)

var (
	// ErrInvalidInput wraps validation failures of client supplied data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLookupFailed marks a failure of the existence check that precedes
	// a write, as opposed to a failure of the write itself.
	ErrLookupFailed = errors.New("post lookup failed")
)

// requirePost runs the existence check; a missing post surfaces as
// repositories.ErrNotFound.
func requirePost(err error) error {
	if err == nil || errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrLookupFailed, err)
}
