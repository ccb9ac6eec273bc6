package counter

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/criadoresdevideo/videoclub/internal/pkg/cache"
	"github.com/criadoresdevideo/videoclub/internal/pkg/database"
)

const videoViewsKey = "video:counters:views"

// AddVideoView increments the pending view counter for a video in Redis
func AddVideoView(videoID uint) error {
	ctx := context.Background()
	field := strconv.FormatUint(uint64(videoID), 10)
	return cache.GetClient().HIncrBy(ctx, videoViewsKey, field, 1).Err()
}

// GetPendingViews returns the not-yet-flushed view count for a video
func GetPendingViews(videoID uint) (int64, error) {
	ctx := context.Background()
	field := strconv.FormatUint(uint64(videoID), 10)
	val, err := cache.GetClient().HGet(ctx, videoViewsKey, field).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// FlushAll moves the pending counters from Redis into videos.view_count
func FlushAll() error {
	ctx := context.Background()
	client := cache.GetClient()

	entries, err := client.HGetAll(ctx, videoViewsKey).Result()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	db := database.GetDB()
	for field, raw := range entries {
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		delta, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || delta == 0 {
			continue
		}

		if err := db.Exec("UPDATE videos SET view_count = view_count + ? WHERE id = ?", delta, id).Error; err != nil {
			return err
		}
		if err := client.HDel(ctx, videoViewsKey, field).Err(); err != nil {
			return err
		}
	}

	return nil
}

// StartFlushLoop flushes pending counters on the given interval until the
// process exits.
func StartFlushLoop(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if err := FlushAll(); err != nil {
				log.Printf("Error flushing view counters: %v", err)
			}
		}
	}()
}
