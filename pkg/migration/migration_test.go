package migration

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/velocart/pkg/database"
)

type widget struct {
	ID   uint
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(context.Background(), "sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestRunRollbackStatus(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	reg := &Registry{}
	reg.Register("20260101000000_create_widgets", createWidgets{})

	var out bytes.Buffer
	r := New(db, reg, &out)

	n, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, db.Migrator().HasTable(&widget{}))
	assert.Contains(t, out.String(), "20260101000000_create_widgets")

	n, err = r.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	st, err := r.Status(ctx)
	require.NoError(t, err)
	require.Len(t, st, 1)
	assert.True(t, st[0].Ran)
	assert.Equal(t, 1, st[0].Batch)

	n, err = r.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, db.Migrator().HasTable(&widget{}))

	n, err = r.Rollback(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunWithoutMigrations(t *testing.T) {
	_, err := New(openDB(t), &Registry{}, nil).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoMigrations)
}
