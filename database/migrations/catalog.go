package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
	"github.com/shashiranjanraj/velocart/app/repositories/sqlstore"
	"github.com/shashiranjanraj/velocart/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000001_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20260101000002_create_catalog_indexes", &CreateCatalogIndexes{})
}

// -------- 0000: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{})
}

// -------- 0001: categories --------

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&sqlstore.CategoryRow{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&sqlstore.CategoryRow{})
}

// -------- 0002: composite listing indexes --------

// CreateCatalogIndexes creates every composite index the listing endpoints
// need. Indexes that already exist are skipped.
type CreateCatalogIndexes struct{}

func (m *CreateCatalogIndexes) Up(db *gorm.DB) error {
	for name, ddl := range sqlstore.IndexDDL(catalog.DefaultIndexes()) {
		if db.Migrator().HasIndex(&models.Product{}, name) {
			continue
		}
		if err := db.Exec(ddl).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *CreateCatalogIndexes) Down(db *gorm.DB) error {
	for name := range sqlstore.IndexDDL(catalog.DefaultIndexes()) {
		if !db.Migrator().HasIndex(&models.Product{}, name) {
			continue
		}
		if err := db.Migrator().DropIndex(&models.Product{}, name); err != nil {
			return err
		}
	}
	return nil
}
