package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ErrNoMigrations is returned by Rollback when nothing has been applied.
var ErrNoMigrations = errors.New("no migrations to roll back")

const createSchemaTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version    VARCHAR(32)  PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	batch      INTEGER      NOT NULL,
	applied_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
)`

type migrationRow struct {
	Version   string `gorm:"primaryKey"`
	Name      string
	Batch     int
	AppliedAt time.Time
}

func (migrationRow) TableName() string { return "schema_migrations" }

// Locker serialises migration runs across processes. The returned function
// releases the lock.
type Locker interface {
	Lock(ctx context.Context) (func(context.Context) error, error)
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

// StepStatus reports whether a step has been applied and in which batch.
type StepStatus struct {
	Step
	Applied   bool
	Batch     int
	AppliedAt time.Time
}

// Migrator applies Steps to the database and records them in schema_migrations.
type Migrator struct {
	db     *gorm.DB
	steps  []Step
	locker Locker
	log    zerolog.Logger
}

type MigratorOption func(*Migrator)

// WithLocker guards Up and Rollback with l.
func WithLocker(l Locker) MigratorOption {
	return func(m *Migrator) {
		if l != nil {
			m.locker = l
		}
	}
}

// WithSteps replaces the default step list.
func WithSteps(steps []Step) MigratorOption {
	return func(m *Migrator) { m.steps = steps }
}

func NewMigrator(db *gorm.DB, log zerolog.Logger, opts ...MigratorOption) *Migrator {
	m := &Migrator{db: db, steps: Steps, locker: noopLocker{}, log: log}
	for _, opt := range opts {
		opt(m)
	}
	m.steps = sortedSteps(m.steps)
	return m
}

// Up applies every pending step under a single new batch. Each step runs in
// its own transaction together with its bookkeeping row.
func (m *Migrator) Up(ctx context.Context) ([]Step, error) {
	var applied []Step
	err := m.locked(ctx, func() error {
		rows, err := m.appliedRows(ctx)
		if err != nil {
			return err
		}

		pending := pendingSteps(m.steps, rows)
		if len(pending) == 0 {
			m.log.Info().Msg("schema is up to date")
			return nil
		}

		batch := nextBatch(rows)
		for _, step := range pending {
			err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				if err := tx.Exec(step.Up).Error; err != nil {
					return err
				}
				return tx.Create(&migrationRow{
					Version:   step.Version,
					Name:      step.Name,
					Batch:     batch,
					AppliedAt: time.Now().UTC(),
				}).Error
			})
			if err != nil {
				return fmt.Errorf("apply migration %s_%s: %w", step.Version, step.Name, err)
			}
			applied = append(applied, step)
			m.log.Info().Str("version", step.Version).Str("name", step.Name).Int("batch", batch).Msg("migration applied")
		}
		return nil
	})
	return applied, err
}

// Rollback reverts the most recent batch in reverse order.
func (m *Migrator) Rollback(ctx context.Context) ([]Step, error) {
	var reverted []Step
	err := m.locked(ctx, func() error {
		rows, err := m.appliedRows(ctx)
		if err != nil {
			return err
		}

		targets, err := lastBatchSteps(m.steps, rows)
		if err != nil {
			return err
		}

		for _, step := range targets {
			err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				if err := tx.Exec(step.Down).Error; err != nil {
					return err
				}
				return tx.Where("version = ?", step.Version).Delete(&migrationRow{}).Error
			})
			if err != nil {
				return fmt.Errorf("revert migration %s_%s: %w", step.Version, step.Name, err)
			}
			reverted = append(reverted, step)
			m.log.Info().Str("version", step.Version).Str("name", step.Name).Msg("migration rolled back")
		}
		return nil
	})
	return reverted, err
}

// Status lists every known step with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]StepStatus, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	rows, err := m.appliedRows(ctx)
	if err != nil {
		return nil, err
	}

	byVersion := make(map[string]migrationRow, len(rows))
	for _, r := range rows {
		byVersion[r.Version] = r
	}

	out := make([]StepStatus, 0, len(m.steps))
	for _, step := range m.steps {
		st := StepStatus{Step: step}
		if r, ok := byVersion[step.Version]; ok {
			st.Applied, st.Batch, st.AppliedAt = true, r.Batch, r.AppliedAt
		}
		out = append(out, st)
	}
	return out, nil
}

func (m *Migrator) locked(ctx context.Context, fn func() error) error {
	release, err := m.locker.Lock(ctx)
	if err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			m.log.Warn().Err(err).Msg("failed to release migration lock")
		}
	}()

	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	return fn()
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	if err := m.db.WithContext(ctx).Exec(createSchemaTable).Error; err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) appliedRows(ctx context.Context) ([]migrationRow, error) {
	var rows []migrationRow
	if err := m.db.WithContext(ctx).Order("version").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	return rows, nil
}

func sortedSteps(steps []Step) []Step {
	out := append([]Step(nil), steps...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

// pendingSteps returns the steps without a bookkeeping row, in version order.
func pendingSteps(steps []Step, applied []migrationRow) []Step {
	done := make(map[string]bool, len(applied))
	for _, r := range applied {
		done[r.Version] = true
	}
	var out []Step
	for _, s := range steps {
		if !done[s.Version] {
			out = append(out, s)
		}
	}
	return out
}

func nextBatch(applied []migrationRow) int {
	highest := 0
	for _, r := range applied {
		if r.Batch > highest {
			highest = r.Batch
		}
	}
	return highest + 1
}

// lastBatchSteps returns the steps of the highest batch, newest first.
func lastBatchSteps(steps []Step, applied []migrationRow) ([]Step, error) {
	if len(applied) == 0 {
		return nil, ErrNoMigrations
	}
	last := nextBatch(applied) - 1

	known := make(map[string]Step, len(steps))
	for _, s := range steps {
		known[s.Version] = s
	}

	var out []Step
	for _, r := range applied {
		if r.Batch != last {
			continue
		}
		s, ok := known[r.Version]
		if !ok {
			return nil, fmt.Errorf("migration %s_%s is applied but unknown to this build", r.Version, r.Name)
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}
