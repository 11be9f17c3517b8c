package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	readyDeadline  = 30 * time.Second
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdle     time.Duration
	ConnMaxLifetime time.Duration
}

// NewPostgres opens the pipeline store pool and blocks until the database
// answers a ping. Startup aborts if it stays unreachable past the deadline.
func NewPostgres(cfg PostgresConfig) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		log.Fatalf("open pipeline store: %v", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdle)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	waitUntilReady(db)
	return db
}

func waitUntilReady(db *sql.DB) {
	deadline := time.Now().Add(readyDeadline)
	backoff := initialBackoff
	for {
		err := db.Ping()
		if err == nil {
			return
		}
		if time.Now().After(deadline) {
			log.Fatalf("pipeline store unreachable: %v", err)
		}
		log.Printf("waiting for pipeline store: %v", err)
		time.Sleep(backoff)
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}
