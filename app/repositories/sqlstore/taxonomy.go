package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
)

// CategoryRow is the relational shape of models.Category.
type CategoryRow struct {
	Name          string               `gorm:"primaryKey;size:100"`
	SubCategories []models.SubCategory `gorm:"serializer:json;type:text"`
	Version       int64                `gorm:"not null;default:0"`
}

func (CategoryRow) TableName() string { return "categories" }

func (r CategoryRow) model() models.Category {
	return models.Category{Name: r.Name, SubCategories: r.SubCategories, Version: r.Version}
}

const maxMutationAttempts = 5

var errContended = errors.New("taxonomy row changed concurrently")

func (s *Store) LoadTaxonomy(ctx context.Context) (models.Taxonomy, error) {
	var rows []CategoryRow
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return models.Taxonomy{}, classify("sqlstore.LoadTaxonomy", err)
	}
	tax := models.Taxonomy{Categories: make([]models.Category, len(rows))}
	for i, r := range rows {
		tax.Categories[i] = r.model()
	}
	return tax, nil
}

// MutateTaxonomy applies m with optimistic concurrency on the version
// column, re-reading and retrying when another writer wins the race.
func (s *Store) MutateTaxonomy(ctx context.Context, m catalog.TaxonomyMutation) error {
	const op = "sqlstore.MutateTaxonomy"

	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		var row CategoryRow
		err := s.db.WithContext(ctx).First(&row, "name = ?", m.Category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.NotFound(op, "category %q not found", m.Category)
		}
		if err != nil {
			return classify(op, err)
		}

		c := row.model().Clone()
		changed, err := catalog.ApplyMutation(&c, m)
		if err != nil || !changed {
			return catalog.Wrap(op, err)
		}

		res := s.db.WithContext(ctx).Model(&CategoryRow{}).
			Where("name = ? AND version = ?", row.Name, row.Version).
			Select("SubCategories", "Version").
			Updates(CategoryRow{SubCategories: c.SubCategories, Version: row.Version + 1})
		if res.Error != nil {
			return classify(op, res.Error)
		}
		if res.RowsAffected == 1 {
			return nil
		}
	}
	return catalog.Unavailable(op, errContended)
}

func (s *Store) PutCategory(ctx context.Context, c models.Category) error {
	c = c.Clone()
	catalog.SortCategory(&c)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing CategoryRow
		err := tx.First(&existing, "name = ?", c.Name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&CategoryRow{Name: c.Name, SubCategories: c.SubCategories, Version: 1}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).
			Select("SubCategories", "Version").
			Updates(CategoryRow{SubCategories: c.SubCategories, Version: existing.Version + 1}).Error
	})
	return classify("sqlstore.PutCategory", err)
}
