package services

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/velocart/pkg/logger"
	"github.com/shashiranjanraj/velocart/pkg/storage"
	"github.com/shashiranjanraj/velocart/pkg/workerpool"
)

// ImageReleaser deletes product images in the background. Release never
// fails; problems are logged.
type ImageReleaser interface {
	Release(ctx context.Context, urls []string)
}

// ImageCleaner releases images stored on disk through a bounded pool.
type ImageCleaner struct {
	disk    storage.Disk
	pool    *workerpool.Pool
	timeout time.Duration
}

func NewImageCleaner(disk storage.Disk, pool *workerpool.Pool) *ImageCleaner {
	return &ImageCleaner{disk: disk, pool: pool, timeout: 30 * time.Second}
}

// Release queues deletion of every url the disk owns. Foreign URLs are left
// alone.
func (c *ImageCleaner) Release(ctx context.Context, urls []string) {
	log := logger.WithCtx(ctx)
	// Cleanup outlives the request that triggered it.
	base := context.WithoutCancel(ctx)

	for _, url := range urls {
		key, ok := c.disk.Key(url)
		if !ok {
			log.Debug("image cleanup: skipping foreign url", "url", url)
			continue
		}
		err := c.pool.Submit(func() error {
			ctx, cancel := context.WithTimeout(base, c.timeout)
			defer cancel()
			if err := c.disk.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			return nil
		})
		if err != nil {
			log.Warn("image cleanup: not queued", "key", key, "error", err)
		}
	}
}
