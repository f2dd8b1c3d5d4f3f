package notification

import (
	"context"
	"errors"
)

// conflictRetries bounds how many times a lost compare-and-set race is
// retried before surfacing ErrConflict as a transient failure.
const conflictRetries = 3

// retryStorage decorates a Storage and retries mutations that lose a
// compare-and-set race. Reads pass through untouched.
type retryStorage struct {
	Storage
}

// WithConflictRetry wraps a Storage so that MarkRead, MarkAllRead and Delete
// retry internally on ErrConflict. Backends with optimistic concurrency
// return ErrConflict when a concurrent writer wins; after the bounded
// retries the error is surfaced so the caller can revert any optimistic UI
// update.
func WithConflictRetry(s Storage) Storage {
	return &retryStorage{Storage: s}
}

func (r *retryStorage) MarkRead(ctx context.Context, id string) (Notification, error) {
	var (
		n   Notification
		err error
	)
	for range conflictRetries {
		n, err = r.Storage.MarkRead(ctx, id)
		if !errors.Is(err, ErrConflict) {
			return n, err
		}
	}
	return n, err
}

func (r *retryStorage) MarkAllRead(ctx context.Context, userID string) (int, error) {
	var (
		count int
		err   error
	)
	for range conflictRetries {
		count, err = r.Storage.MarkAllRead(ctx, userID)
		if !errors.Is(err, ErrConflict) {
			return count, err
		}
	}
	return count, err
}

func (r *retryStorage) Delete(ctx context.Context, id string) error {
	var err error
	for range conflictRetries {
		err = r.Storage.Delete(ctx, id)
		if !errors.Is(err, ErrConflict) {
			return err
		}
	}
	return err
}
