package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mysql schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sow_kv_store (
  store_key  VARCHAR(191) NOT NULL PRIMARY KEY,
  payload    LONGTEXT NOT NULL,
  updated_at DATETIME(3) NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS sow_scan_errors (
  id         BIGINT AUTO_INCREMENT PRIMARY KEY,
  action     VARCHAR(64) NOT NULL,
  kind       VARCHAR(64) NOT NULL,
  file_name  VARCHAR(255) NOT NULL,
  message    TEXT NOT NULL,
  raw_output LONGTEXT NOT NULL,
  created_at DATETIME(3) NOT NULL,
  INDEX idx_sow_scan_errors_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
