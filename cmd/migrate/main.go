package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/reeljournal/reeljournal/pkg/config"
	"github.com/reeljournal/reeljournal/pkg/database"
)

func main() {
	var (
		driver     = flag.String("driver", "", "Database driver (postgres or sqlite), overrides config")
		sqlitePath = flag.String("sqlite", "", "SQLite file, implies -driver sqlite")
		status     = flag.Bool("status", false, "Show migration status")
		dryRun     = flag.Bool("dry-run", false, "Show pending migrations without applying them")
		verbose    = flag.Bool("v", false, "Log SQL statements")
	)
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fail("failed to load .env", err)
	}
	cfg := config.NewJournalConfig()
	if err := config.LoadServiceConfig("journal", cfg); err != nil {
		fail("failed to load config", err)
	}
	if *sqlitePath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.SQLitePath = *sqlitePath
	} else if *driver != "" {
		cfg.Database.Driver = *driver
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fail("failed to create logger", err)
	}
	defer func() { _ = logger.Sync() }()

	db, cleanup, err := database.Open(cfg.Database, logger, *verbose)
	if err != nil {
		fail("failed to connect to database", err)
	}
	defer cleanup()

	migrator := database.NewMigrator(db, logger)

	switch {
	case *status:
		showMigrationStatus(db, migrator)
	case *dryRun:
		showPendingMigrations(migrator)
	default:
		if err := migrator.Migrate(); err != nil {
			fail("failed to run migrations", err)
		}
		fmt.Println("Migrations completed successfully!")
	}
}

func showMigrationStatus(db *gorm.DB, migrator *database.Migrator) {
	var applied []database.Migration
	if db.Migrator().HasTable(&database.Migration{}) {
		if err := db.Order("applied_at DESC").Find(&applied).Error; err != nil {
			fail("failed to get migrations", err)
		}
	}

	if len(applied) == 0 {
		fmt.Println("No migrations have been applied yet.")
	} else {
		fmt.Println("Applied migrations:")
		for _, m := range applied {
			fmt.Printf("  %s | %s | %s\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
		}
	}

	showPendingMigrations(migrator)
}

func showPendingMigrations(migrator *database.Migrator) {
	pending, err := migrator.GetPendingMigrations()
	if err != nil {
		fail("failed to get pending migrations", err)
	}

	if len(pending) == 0 {
		fmt.Println("All migrations are up to date.")
		return
	}

	fmt.Println("Pending migrations:")
	for _, m := range pending {
		fmt.Printf("  %s | %s\n", m.Version, m.Name)
	}
}

func fail(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
