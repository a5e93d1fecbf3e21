package postcache

import (
	"context"
	"errors"

	"feedcache/models"
)

// ErrServerError replaces every backing-store failure at the facade
// boundary. The original cause is logged, never propagated.
var ErrServerError = errors.New("server error, try again")

// ErrCorruptRecord marks a stored field that no longer parses
// (reactions JSON, commentsCount, createdAt).
var ErrCorruptRecord = errors.New("corrupt post record")

type Cache interface {
	SavePost(ctx context.Context, key string, currentUserID string, uID int64, post models.Post) error
	GetPosts(ctx context.Context, key string, start, end int64) ([]models.Post, error)
	GetPostsWithMedia(ctx context.Context, key string, start, end int64) ([]models.Post, error)
	GetUserPosts(ctx context.Context, key string, uID int64) ([]models.Post, error)
	GetTotalPosts(ctx context.Context) (int64, error)
	GetTotalUserPosts(ctx context.Context, uID int64) (int64, error)
	Close() error
}
