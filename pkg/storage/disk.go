// Package storage stores product images on a local directory or an
// S3-compatible bucket.
//
//	disk, err := storage.New(config.StorageDefault())
//	_ = disk.Put(ctx, "products/p1/front.jpg", data)
//	url := disk.URL("products/p1/front.jpg")
package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Delete when the object does not exist.
var ErrNotFound = errors.New("storage: object not found")

// Disk is a named storage backend.
type Disk interface {
	Put(ctx context.Context, key string, content []byte) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// URL returns the public URL of key.
	URL(key string) string
	// Key maps a public URL served by this disk back to its key.
	Key(url string) (string, bool)
}

func cleanKey(key string) string {
	return strings.TrimLeft(strings.ReplaceAll(key, "\\", "/"), "/")
}

// keyUnder strips baseURL from url; ok is false for foreign URLs.
func keyUnder(baseURL, url string) (string, bool) {
	if baseURL == "" {
		return "", false
	}
	rest, ok := strings.CutPrefix(url, baseURL+"/")
	if !ok || rest == "" {
		return "", false
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	return cleanKey(rest), rest != ""
}
