package db

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"
)

// InitDB opens the Postgres pool for the given DSN and verifies connectivity.
// The service cannot run without its database, so failures are fatal.
func InitDB(dsn string) *sql.DB {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	log.Println("Database connection established")
	return db
}
