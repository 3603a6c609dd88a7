// Package sqlstore is the relational catalog backend on GORM. It serves the
// same queries as the document store, with the taxonomy kept in a categories
// table whose subcategory tree is a JSON column.
package sqlstore

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
)

// Store implements catalog.Store and catalog.TaxonomyStore.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Find(ctx context.Context, q catalog.Query, after *models.Product) ([]models.Product, error) {
	tx := s.db.WithContext(ctx).Model(&models.Product{})
	if where, args := compileWhere(q, after); where != "" {
		tx = tx.Where(where, args...)
	}
	tx = tx.Order(orderClause(q.Orders))
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	out := []models.Product{}
	if err := tx.Find(&out).Error; err != nil {
		return nil, classify("sqlstore.Find", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.NotFound("sqlstore.Get", "product %q not found", id)
	}
	if err != nil {
		return nil, classify("sqlstore.Get", err)
	}
	return &p, nil
}

func (s *Store) Create(ctx context.Context, p *models.Product) error {
	p.ID = uuid.NewString()
	return classify("sqlstore.Create", s.db.WithContext(ctx).Create(p).Error)
}

func (s *Store) Update(ctx context.Context, p *models.Product) error {
	const op = "sqlstore.Update"

	res := s.db.WithContext(ctx).Model(p).Select("*").Updates(p)
	if res.Error != nil {
		return classify(op, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// Some drivers report zero rows for an unchanged row.
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", p.ID).Count(&n).Error; err != nil {
		return classify(op, err)
	}
	if n == 0 {
		return catalog.NotFound(op, "product %q not found", p.ID)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return classify("sqlstore.Delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return catalog.NotFound("sqlstore.Delete", "product %q not found", id)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return classify("sqlstore.Ping", err)
	}
	return classify("sqlstore.Ping", sqlDB.PingContext(ctx))
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, driver.ErrBadConn) {
		return catalog.Unavailable(op, err)
	}
	return catalog.Wrap(op, err)
}
