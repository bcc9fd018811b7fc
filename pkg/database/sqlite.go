package database

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteDriverName is the go-sqlite3 driver registered with a Unicode
// aware lower(). The builtin only folds ASCII, which would make
// LOWER(title) LIKE disagree with strings.ToLower for accented titles.
const SQLiteDriverName = "sqlite3_journal"

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

// OpenSQLite returns a dialector for dsn on the journal SQLite driver.
func OpenSQLite(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{DriverName: SQLiteDriverName, DSN: dsn})
}
