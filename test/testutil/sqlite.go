package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/reeljournal/reeljournal/pkg/config"
	"github.com/reeljournal/reeljournal/pkg/database"
)

// NewSQLiteDB opens a private in-memory SQLite database with the journal
// schema migrated. It lives for one connection, closed at test cleanup.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, cleanup, err := database.Open(config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: ":memory:",
	}, zap.NewNop(), false)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	require.NoError(t, database.RunMigrations(db, zap.NewNop()))
	return db
}
