// Package migration runs registered database migrations and tracks them in
// a batch table.
//
// Each migration file registers itself from init():
//
//	func init() {
//	    migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
//	}
//
// Run via the CLI: `saman migrate`, `saman migrate:rollback`,
// `saman migrate:status`.
package migration

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/nikhilrana/saman/pkg/logger"
)

// Migration is the interface every migration implements.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// record is the row stored in the tracking table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "saman_migrations" }

type registered struct {
	name string
	m    Migration
}

var (
	regMu    sync.Mutex
	registry []registered
)

// Register adds a migration to the global registry. Name it with a timestamp
// prefix so names sort chronologically.
func Register(name string, m Migration) {
	regMu.Lock()
	registry = append(registry, registered{name: name, m: m})
	regMu.Unlock()
}

// Status describes one migration for `migrate:status`.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner executes and tracks migrations against an injected handle.
type Runner struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&record{})
}

func (r *Runner) pending() ([]registered, error) {
	var ran []record
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}

	ranSet := make(map[string]bool, len(ran))
	for _, rec := range ran {
		ranSet[rec.Name] = true
	}

	var pending []registered
	for _, reg := range registry {
		if !ranSet[reg.name] {
			pending = append(pending, reg)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].name < pending[j].name })
	return pending, nil
}

// Run executes all pending migrations as one batch.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.pending()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		logger.Info("migrations up to date")
		return nil
	}

	batch, err := r.nextBatch()
	if err != nil {
		return err
	}

	for _, reg := range pending {
		logger.Info("migrating", "name", reg.name)
		if err := reg.m.Up(r.db); err != nil {
			return fmt.Errorf("migration %q: %w", reg.name, err)
		}
		if err := r.db.Create(&record{Name: reg.name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration %q: record: %w", reg.name, err)
		}
	}
	return nil
}

// Rollback reverses the most recent batch.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	var last record
	if err := r.db.Order("batch desc").First(&last).Error; err != nil {
		logger.Info("nothing to roll back")
		return nil //nolint:nilerr // empty table is not an error
	}

	var records []record
	if err := r.db.Where("batch = ?", last.Batch).Order("name desc").Find(&records).Error; err != nil {
		return err
	}

	byName := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		byName[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return fmt.Errorf("migration %q: not registered, cannot roll back", rec.Name)
		}
		logger.Info("rolling back", "name", rec.Name)
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration %q: down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&record{}, "name = ?", rec.Name).Error; err != nil {
			return err
		}
	}
	return nil
}

// StatusAll reports every registered migration and whether it has run.
func (r *Runner) StatusAll() ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}

	var ran []record
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}
	batches := make(map[string]int, len(ran))
	for _, rec := range ran {
		batches[rec.Name] = rec.Batch
	}

	out := make([]Status, 0, len(registry))
	for _, reg := range registry {
		batch, ok := batches[reg.name]
		out = append(out, Status{Name: reg.name, Ran: ok, Batch: batch})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *Runner) nextBatch() (int, error) {
	var max int
	err := r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0)").Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("migration: max batch: %w", err)
	}
	return max + 1, nil
}
