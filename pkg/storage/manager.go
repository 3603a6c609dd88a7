package storage

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/velocart/config"
)

const (
	DiskLocal = "local"
	DiskS3    = "s3"
)

// New builds the named disk from configuration.
func New(ctx context.Context, name string) (Disk, error) {
	switch name {
	case DiskLocal, "":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL())
	case DiskS3:
		return NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		})
	}
	return nil, fmt.Errorf("storage: unknown disk %q", name)
}
