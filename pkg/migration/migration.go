// Package migration runs versioned schema changes against the relational
// catalog store.
//
// Migrations register themselves from init():
//
//	func init() {
//	    migration.Register("20260301000000_create_products_table", &CreateProductsTable{})
//	}
//
// and run from the CLI:
//
//	velocart migrate             // run all pending
//	velocart migrate:rollback    // roll back the last batch
//	velocart migrate:status
package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/velocart/pkg/logger"
)

// Migration is one reversible schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// record is a row of the tracking table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "velocart_migrations" }

type entry struct {
	name string
	m    Migration
}

// Registry is an ordered set of named migrations.
type Registry struct {
	entries []entry
}

// Register adds m under name. Names are timestamp-prefixed and run in
// lexical order.
func (r *Registry) Register(name string, m Migration) {
	r.entries = append(r.entries, entry{name: name, m: m})
}

func (r *Registry) sorted() []entry {
	out := append([]entry(nil), r.entries...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Default holds the migrations registered by database/migrations.
var Default = &Registry{}

func Register(name string, m Migration) { Default.Register(name, m) }

// ErrNoMigrations is returned when the registry is empty.
var ErrNoMigrations = errors.New("migration: no migrations registered")

// Status describes one registered migration.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner executes and tracks migrations. Progress lines go to out.
type Runner struct {
	db  *gorm.DB
	reg *Registry
	out io.Writer
}

func New(db *gorm.DB, reg *Registry, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, reg: reg, out: out}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran(ctx context.Context) (map[string]record, error) {
	var rows []record
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: read history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

// Run applies every pending migration in one batch and returns how many ran.
func (r *Runner) Run(ctx context.Context) (int, error) {
	if len(r.reg.entries) == 0 {
		return 0, ErrNoMigrations
	}
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return 0, err
	}

	batch := r.lastBatch(ctx) + 1
	n := 0
	for _, e := range r.reg.sorted() {
		if _, ok := done[e.name]; ok {
			continue
		}
		fmt.Fprintf(r.out, "  migrating  %s\n", e.name)
		if err := e.m.Up(r.db.WithContext(ctx)); err != nil {
			return n, fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		if err := r.db.WithContext(ctx).Create(&record{Name: e.name, Batch: batch}).Error; err != nil {
			return n, fmt.Errorf("migration: record %s: %w", e.name, err)
		}
		n++
	}

	if n == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return 0, nil
	}
	logger.Info("migration: done", "ran", n, "batch", batch)
	return n, nil
}

// Rollback reverses the most recent batch, newest first.
func (r *Runner) Rollback(ctx context.Context) (int, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}
	batch := r.lastBatch(ctx)
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	var rows []record
	if err := r.db.WithContext(ctx).Where("batch = ?", batch).Order("id desc").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("migration: read batch %d: %w", batch, err)
	}

	byName := make(map[string]Migration, len(r.reg.entries))
	for _, e := range r.reg.entries {
		byName[e.name] = e.m
	}

	n := 0
	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return n, fmt.Errorf("migration: cannot roll back %s: not registered", row.Name)
		}
		fmt.Fprintf(r.out, "  rolling back  %s\n", row.Name)
		if err := m.Down(r.db.WithContext(ctx)); err != nil {
			return n, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		if err := r.db.WithContext(ctx).Delete(&row).Error; err != nil {
			return n, fmt.Errorf("migration: forget %s: %w", row.Name, err)
		}
		n++
	}
	logger.Info("migration: rolled back", "count", n, "batch", batch)
	return n, nil
}

// Status reports every registered migration in run order.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}
	var out []Status
	for _, e := range r.reg.sorted() {
		row, ok := done[e.name]
		out = append(out, Status{Name: e.name, Ran: ok, Batch: row.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch(ctx context.Context) int {
	var max struct{ Max int }
	r.db.WithContext(ctx).Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&max)
	return max.Max
}
