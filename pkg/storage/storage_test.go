package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutExistsDelete(t *testing.T) {
	ctx := context.Background()
	d, err := NewLocal(t.TempDir(), "http://cdn.test/storage/")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "products/p1/front.jpg", []byte("img")))

	ok, err := d.Exists(ctx, "products/p1/front.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, d.Delete(ctx, "/products/p1/front.jpg"))
	ok, err = d.Exists(ctx, "products/p1/front.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	err = d.Delete(ctx, "products/p1/front.jpg")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalRejectsEscapingKeys(t *testing.T) {
	d, err := NewLocal(t.TempDir(), "http://cdn.test")
	require.NoError(t, err)
	assert.Error(t, d.Put(context.Background(), "../../etc/passwd", []byte("x")))
}

func TestLocalURLRoundTrip(t *testing.T) {
	d, err := NewLocal(t.TempDir(), "http://cdn.test/storage")
	require.NoError(t, err)

	url := d.URL("products/p1/front.jpg")
	assert.Equal(t, "http://cdn.test/storage/products/p1/front.jpg", url)

	key, ok := d.Key(url + "?v=2")
	assert.True(t, ok)
	assert.Equal(t, "products/p1/front.jpg", key)

	_, ok = d.Key("https://elsewhere.example/products/p1/front.jpg")
	assert.False(t, ok)
	_, ok = d.Key("http://cdn.test/storage/")
	assert.False(t, ok)
}

func TestNewUnknownDisk(t *testing.T) {
	_, err := New(context.Background(), "ftp")
	assert.Error(t, err)
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Options{})
	assert.Error(t, err)
}
