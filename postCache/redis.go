package postcache

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"feedcache/models"
)

var log = logrus.WithField("component", "postCache")

// postIndexKey is the single global ordered set. Score is the caller
// assigned user sequence id, member is the post key.
const postIndexKey = "post"

const postsCountField = "postsCount"

func postKey(key string) string {
	return "posts:" + key
}

func userKey(id string) string {
	return "users:" + id
}

type PostCache struct {
	r         *redis.Client
	connected atomic.Bool
}

func New(config models.RedisConfig) *PostCache {
	r := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
	})
	return &PostCache{r: r}
}

// ensureConnected pings the store before the first command of a call.
// Connection health is cached once established; this is a guard, not a
// per-call retry policy.
func (pc *PostCache) ensureConnected(ctx context.Context) error {
	if pc.connected.Load() {
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	err := backoff.Retry(func() error {
		return pc.r.Ping(ctx).Err()
	}, policy)
	if err != nil {
		return err
	}
	pc.connected.Store(true)
	return nil
}

// SavePost indexes the post under its sequence id and writes the
// denormalized record plus the owner's new postsCount in one grouped
// dispatch. The index insert is issued before the batch and is not
// rolled back if the batch fails.
//
// The counter is read-then-written, not incremented in place, so two
// concurrent saves for the same user can lose an update.
func (pc *PostCache) SavePost(ctx context.Context, key string, currentUserID string, uID int64, post models.Post) error {
	if err := pc.ensureConnected(ctx); err != nil {
		log.WithError(err).Error("Failed to connect to cache")
		return ErrServerError
	}

	fields, err := encodePost(post)
	if err != nil {
		log.WithError(err).Error("Failed to encode post for cache")
		return ErrServerError
	}

	prior, err := pc.r.HMGet(ctx, userKey(currentUserID), postsCountField).Result()
	if err != nil {
		log.WithError(err).Error("Failed to read postsCount")
		return ErrServerError
	}

	err = pc.r.ZAdd(ctx, postIndexKey, redis.Z{
		Score:  float64(uID),
		Member: key,
	}).Err()
	if err != nil {
		log.WithError(err).Error("Failed to index post")
		return ErrServerError
	}

	pipe := pc.r.TxPipeline()
	for _, field := range postFields {
		pipe.HSet(ctx, postKey(key), field, fields[field])
	}
	pipe.HSet(ctx, userKey(currentUserID), postsCountField, nextPostsCount(prior))
	if _, err := pipe.Exec(ctx); err != nil {
		log.WithError(err).Error("Failed to write post record")
		return ErrServerError
	}
	return nil
}

// nextPostsCount computes the absolute counter value staged alongside
// the record write. An unset or unreadable prior counter restarts at 0.
func nextPostsCount(prior []interface{}) int64 {
	if len(prior) == 0 || prior[0] == nil {
		return 1
	}
	raw, ok := prior[0].(string)
	if !ok {
		return 1
	}
	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.WithField(postsCountField, raw).Warn("Non numeric postsCount, resetting")
		return 1
	}
	return count + 1
}

// GetPosts returns the global feed slice [start, end] of the ordering
// index, newest first. A dangling index member resolves to a
// zero-value post rather than an error.
func (pc *PostCache) GetPosts(ctx context.Context, key string, start, end int64) ([]models.Post, error) {
	if err := pc.ensureConnected(ctx); err != nil {
		log.WithError(err).Error("Failed to connect to cache")
		return nil, ErrServerError
	}

	keys, err := pc.r.ZRange(ctx, key, start, end).Result()
	if err != nil {
		log.WithError(err).Error("Failed to read post index")
		return nil, ErrServerError
	}
	// ZRANGE walks in insertion (ascending score) order; the feed wants
	// most recent first.
	lo.Reverse(keys)

	return pc.resolvePosts(ctx, keys)
}

// GetPostsWithMedia is GetPosts restricted to records carrying an
// image pair or a gif url. Video-only and text-only posts are
// excluded. The filter reads raw field content since every schema key
// is always present.
func (pc *PostCache) GetPostsWithMedia(ctx context.Context, key string, start, end int64) ([]models.Post, error) {
	if err := pc.ensureConnected(ctx); err != nil {
		log.WithError(err).Error("Failed to connect to cache")
		return nil, ErrServerError
	}

	keys, err := pc.r.ZRange(ctx, key, start, end).Result()
	if err != nil {
		log.WithError(err).Error("Failed to read post index")
		return nil, ErrServerError
	}
	lo.Reverse(keys)

	posts := make([]models.Post, 0, len(keys))
	for _, k := range keys {
		fields, err := pc.r.HGetAll(ctx, postKey(k)).Result()
		if err != nil {
			log.WithError(err).Error("Failed to read post record")
			return nil, ErrServerError
		}
		if !hasMedia(fields) {
			continue
		}
		post, err := decodePost(fields)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func hasMedia(fields map[string]string) bool {
	if fields["imgId"] != "" && fields["imgVersion"] != "" {
		return true
	}
	return fields["gifUrl"] != ""
}

// GetUserPosts returns every indexed post whose sequence id equals
// uID, newest first.
func (pc *PostCache) GetUserPosts(ctx context.Context, key string, uID int64) ([]models.Post, error) {
	if err := pc.ensureConnected(ctx); err != nil {
		log.WithError(err).Error("Failed to connect to cache")
		return nil, ErrServerError
	}

	score := strconv.FormatInt(uID, 10)
	keys, err := pc.r.ZRevRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: score,
		Max: score,
	}).Result()
	if err != nil {
		log.WithError(err).Error("Failed to read post index by score")
		return nil, ErrServerError
	}

	return pc.resolvePosts(ctx, keys)
}

// resolvePosts fetches and decodes the records for the given post
// keys, preserving order. The record reads go out in one pipeline.
func (pc *PostCache) resolvePosts(ctx context.Context, keys []string) ([]models.Post, error) {
	if len(keys) == 0 {
		return []models.Post{}, nil
	}

	pipe := pc.r.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(keys))
	for i, k := range keys {
		cmds[i] = pipe.HGetAll(ctx, postKey(k))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.WithError(err).Error("Failed to read post records")
		return nil, ErrServerError
	}

	posts := make([]models.Post, 0, len(keys))
	for _, cmd := range cmds {
		post, err := decodePost(cmd.Val())
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (pc *PostCache) GetTotalPosts(ctx context.Context) (int64, error) {
	if err := pc.ensureConnected(ctx); err != nil {
		log.WithError(err).Error("Failed to connect to cache")
		return 0, ErrServerError
	}
	count, err := pc.r.ZCard(ctx, postIndexKey).Result()
	if err != nil {
		log.WithError(err).Error("Failed to count posts")
		return 0, ErrServerError
	}
	return count, nil
}

func (pc *PostCache) GetTotalUserPosts(ctx context.Context, uID int64) (int64, error) {
	if err := pc.ensureConnected(ctx); err != nil {
		log.WithError(err).Error("Failed to connect to cache")
		return 0, ErrServerError
	}
	score := strconv.FormatInt(uID, 10)
	count, err := pc.r.ZCount(ctx, postIndexKey, score, score).Result()
	if err != nil {
		log.WithError(err).Error("Failed to count user posts")
		return 0, ErrServerError
	}
	return count, nil
}

func (pc *PostCache) Close() error {
	return pc.r.Close()
}

var _ Cache = (*PostCache)(nil)
