package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/reeljournal/reeljournal/internal/journal/repository"
)

// Migration records an applied schema version.
type Migration struct {
	ID        uint      `gorm:"primaryKey"`
	Version   string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Name      string    `gorm:"type:varchar(255);not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for Migration
func (Migration) TableName() string {
	return "schema_migrations"
}

// MigrationFunc is a function that performs a migration
type MigrationFunc func(*gorm.DB) error

// MigrationEntry represents a single migration
type MigrationEntry struct {
	Version string
	Name    string
	Up      MigrationFunc
}

// Migrator applies pending migrations, each in its own transaction.
type Migrator struct {
	db         *gorm.DB
	logger     *zap.Logger
	migrations []MigrationEntry
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *gorm.DB, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:         db,
		logger:     logger.Named("migrator"),
		migrations: getAllMigrations(),
	}
}

// RunMigrations runs all pending database migrations
func RunMigrations(db *gorm.DB, logger *zap.Logger) error {
	return NewMigrator(db, logger).Migrate()
}

// Migrate runs all pending migrations
func (m *Migrator) Migrate() error {
	if err := m.db.AutoMigrate(&Migration{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	pending, err := m.GetPendingMigrations()
	if err != nil {
		return err
	}

	for _, migration := range pending {
		m.logger.Info("running migration",
			zap.String("version", migration.Version),
			zap.String("name", migration.Name),
		)

		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&Migration{
				Version:   migration.Version,
				Name:      migration.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to run migration %s: %w", migration.Version, err)
		}
	}

	return nil
}

// GetPendingMigrations returns migrations that haven't been applied yet, in order
func (m *Migrator) GetPendingMigrations() ([]MigrationEntry, error) {
	var applied []Migration
	if m.db.Migrator().HasTable(&Migration{}) {
		if err := m.db.Find(&applied).Error; err != nil {
			return nil, fmt.Errorf("failed to get applied migrations: %w", err)
		}
	}

	done := make(map[string]bool, len(applied))
	for _, migration := range applied {
		done[migration.Version] = true
	}

	var pending []MigrationEntry
	for _, migration := range m.migrations {
		if !done[migration.Version] {
			pending = append(pending, migration)
		}
	}

	return pending, nil
}

func getAllMigrations() []MigrationEntry {
	return []MigrationEntry{
		{
			Version: "20240601_001",
			Name:    "Create journal schema",
			Up:      migration001CreateJournalSchema,
		},
		{
			Version: "20240601_002",
			Name:    "Add listing indexes",
			Up:      migration002AddListingIndexes,
		},
	}
}

// migration001CreateJournalSchema creates reviews, review_genres and ratings
// with their unique indexes, score check and cascading foreign keys.
func migration001CreateJournalSchema(tx *gorm.DB) error {
	if err := tx.AutoMigrate(repository.Models()...); err != nil {
		return fmt.Errorf("failed to migrate journal models: %w", err)
	}
	return nil
}

func migration002AddListingIndexes(tx *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_reviews_recency ON reviews(date_watched DESC, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_ratings_review_score ON ratings(review_id, score)",
	}

	if tx.Dialector.Name() == "postgres" {
		if err := tx.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error; err != nil {
			return fmt.Errorf("failed to create pg_trgm extension: %w", err)
		}
		indexes = append(indexes,
			"CREATE INDEX IF NOT EXISTS idx_reviews_title_trgm ON reviews USING gin (LOWER(title) gin_trgm_ops)",
		)
	}

	for _, index := range indexes {
		if err := tx.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
