package migrations

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
	"github.com/shashiranjanraj/velocart/app/repositories/sqlstore"
	"github.com/shashiranjanraj/velocart/pkg/database"
	"github.com/shashiranjanraj/velocart/pkg/migration"
)

func TestCatalogMigrationsUpAndDown(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, "sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	r := migration.New(db, migration.Default, io.Discard)
	n, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.True(t, db.Migrator().HasTable(&models.Product{}))
	assert.True(t, db.Migrator().HasTable(&sqlstore.CategoryRow{}))
	for name := range sqlstore.IndexDDL(catalog.DefaultIndexes()) {
		assert.True(t, db.Migrator().HasIndex(&models.Product{}, name), name)
	}

	// A migrated database reports nothing left to create.
	created, err := sqlstore.New(db).EnsureIndexes(ctx, catalog.DefaultIndexes())
	require.NoError(t, err)
	assert.Empty(t, created)

	n, err = r.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, db.Migrator().HasTable(&models.Product{}))
}
