package postcache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// PruneDangling removes ordering-index members whose backing record is
// missing. The save path inserts into the index before the record
// batch is dispatched, so a crash between the two leaves an indexed
// member with no hash behind it. Returns how many members were pruned.
func (pc *PostCache) PruneDangling(ctx context.Context) (int64, error) {
	if err := pc.ensureConnected(ctx); err != nil {
		log.WithError(err).Error("Failed to connect to cache")
		return 0, ErrServerError
	}

	keys, err := pc.r.ZRange(ctx, postIndexKey, 0, -1).Result()
	if err != nil {
		log.WithError(err).Error("Failed to scan post index")
		return 0, ErrServerError
	}
	if len(keys) == 0 {
		return 0, nil
	}

	pipe := pc.r.Pipeline()
	cmds := make([]*redis.IntCmd, len(keys))
	for i, k := range keys {
		cmds[i] = pipe.Exists(ctx, postKey(k))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.WithError(err).Error("Failed to check post records")
		return 0, ErrServerError
	}

	var dangling []interface{}
	for i, cmd := range cmds {
		if cmd.Val() == 0 {
			dangling = append(dangling, keys[i])
		}
	}
	if len(dangling) == 0 {
		return 0, nil
	}

	pruned, err := pc.r.ZRem(ctx, postIndexKey, dangling...).Result()
	if err != nil {
		log.WithError(err).Error("Failed to prune dangling index entries")
		return 0, ErrServerError
	}
	log.WithField("pruned", pruned).Info("Removed dangling index entries")
	return pruned, nil
}
