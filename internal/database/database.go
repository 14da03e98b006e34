package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate", dataSourceName)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sqlx.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		number TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS properties (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		street TEXT NOT NULL,
		area TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		no_of_bed_rooms INTEGER NOT NULL CHECK (no_of_bed_rooms >= 0),
		no_of_bath_rooms INTEGER NOT NULL CHECK (no_of_bath_rooms >= 0),
		nearby_hospital BOOLEAN NOT NULL DEFAULT 0,
		near_by_college BOOLEAN NOT NULL DEFAULT 0,
		user_id INTEGER NOT NULL REFERENCES users(id),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_properties_user_id ON properties(user_id);
	CREATE INDEX IF NOT EXISTS idx_properties_city_state ON properties(city, state);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		type TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		user_id INTEGER NOT NULL REFERENCES users(id),
		property_id INTEGER, -- no FK: the property may since have been deleted
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_events_user_id ON events(user_id, created_at);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
