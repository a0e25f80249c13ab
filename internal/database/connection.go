package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. The driver is selected
// by DB_TYPE (sqlite or postgres); sqlite is the default.
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch dbType {
	case "sqlite":
		// Create data directory if it doesn't exist
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}

		dbPath := filepath.Join(dataDir, "vocabtutor.db")
		db, err = Open("sqlite3", dbPath)
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err = Open("postgres", dsn)
	default:
		return fmt.Errorf("unsupported DB_TYPE: %s", dbType)
	}
	if err != nil {
		return err
	}

	DB = db
	return InitSchema(DB)
}

// Open connects a single driver and applies the pool settings. Exposed so
// tests can run against an in-memory sqlite database.
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if driver == "sqlite3" {
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	return db, nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// InitSchema creates necessary tables if they don't exist
func InitSchema(db *sqlx.DB) error {
	// Create progress table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS progress (
			learner_id TEXT NOT NULL,
			item_key TEXT NOT NULL,
			translation TEXT NOT NULL,
			example_sentence TEXT NOT NULL DEFAULT '',
			repetitions INTEGER NOT NULL DEFAULT 0,
			interval_days INTEGER NOT NULL DEFAULT 1,
			ease_factor REAL NOT NULL DEFAULT 2.5,
			next_review_date TEXT NOT NULL,
			PRIMARY KEY (learner_id, item_key)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create progress table: %v", err)
	}

	// Create daily_ledger table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS daily_ledger (
			learner_id TEXT NOT NULL,
			day TEXT NOT NULL,
			position INTEGER NOT NULL,
			item_key TEXT NOT NULL,
			translation TEXT NOT NULL,
			example_sentence TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (learner_id, day, item_key)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create daily_ledger table: %v", err)
	}

	// Create settings table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			learner_id TEXT PRIMARY KEY,
			daily_goal INTEGER NOT NULL DEFAULT 1
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create settings table: %v", err)
	}

	return nil
}
