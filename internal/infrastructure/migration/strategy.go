// Package migration applies the versioned SQL schema with goose. The goose
// version is also the schema version the capability probe reads.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

//go:embed scripts/*.sql
var embeddedScripts embed.FS

const (
	embeddedDir = "scripts"
	// DefaultScriptsPath is where `migrate create` writes new files.
	DefaultScriptsPath = "internal/infrastructure/migration/scripts"
)

// GooseStrategy runs the embedded migrations against a MySQL database.
type GooseStrategy struct {
	dialect string
	logger  logger.Interface
}

func NewGooseStrategy(log logger.Interface) *GooseStrategy {
	return &GooseStrategy{
		dialect: "mysql",
		logger:  log.With("component", "migration.goose"),
	}
}

func (s *GooseStrategy) prepare(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	goose.SetBaseFS(embeddedScripts)
	if err := goose.SetDialect(s.dialect); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return sqlDB, nil
}

// Migrate applies every pending migration.
func (s *GooseStrategy) Migrate(ctx context.Context, db *gorm.DB) error {
	return s.MigrateTo(ctx, db, 0)
}

// MigrateTo applies pending migrations up to version; zero means latest.
func (s *GooseStrategy) MigrateTo(ctx context.Context, db *gorm.DB, version int64) error {
	sqlDB, err := s.prepare(db)
	if err != nil {
		return err
	}

	currentVersion, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		s.logger.Errorw("failed to get current version", "error", err)
		return fmt.Errorf("failed to get current version: %w", err)
	}

	s.logger.Infow("starting goose migration",
		"current_version", currentVersion,
		"target_version", version)

	if version > 0 {
		err = goose.UpToContext(ctx, sqlDB, embeddedDir, version)
	} else {
		err = goose.UpContext(ctx, sqlDB, embeddedDir)
	}
	if err != nil {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	s.logger.Infow("migration completed successfully",
		"from_version", currentVersion,
		"to_version", finalVersion)

	return nil
}

// MigrateDown rolls back the given number of migrations.
func (s *GooseStrategy) MigrateDown(ctx context.Context, db *gorm.DB, steps int) error {
	sqlDB, err := s.prepare(db)
	if err != nil {
		return err
	}

	s.logger.Infow("starting down migration", "steps", steps)

	for i := 0; i < steps; i++ {
		if err := goose.DownContext(ctx, sqlDB, embeddedDir); err != nil {
			s.logger.Errorw("down migration failed", "error", err, "step", i+1)
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	}

	s.logger.Infow("down migration completed successfully")
	return nil
}

// GetVersion returns the applied schema version, zero for an empty database.
func (s *GooseStrategy) GetVersion(ctx context.Context, db *gorm.DB) (int64, error) {
	sqlDB, err := s.prepare(db)
	if err != nil {
		return 0, err
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}

	return version, nil
}

// Status prints the state of every migration.
func (s *GooseStrategy) Status(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := s.prepare(db)
	if err != nil {
		return err
	}

	if err := goose.StatusContext(ctx, sqlDB, embeddedDir); err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	return nil
}

// Create writes a new, empty SQL migration into dir.
func (s *GooseStrategy) Create(dir, name string) error {
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	// Creation works on the source tree, not the embedded copy.
	goose.SetBaseFS(nil)
	goose.SetSequential(true)

	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}

	s.logger.Infow("migration created successfully", "name", name, "dir", dir)
	return nil
}
