package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Tables lists the board tables in creation order.
var Tables = []string{"day_prices", "promotions", "late_night_lanes"}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS day_prices (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		day        VARCHAR(16) NOT NULL,
		bowling    JSON NOT NULL,
		darts      JSON NOT NULL,
		laser_tag  JSON NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_day_prices_day (day)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS promotions (
		id                    VARCHAR(64) NOT NULL PRIMARY KEY,
		title                 VARCHAR(255) NOT NULL,
		description           TEXT NOT NULL,
		terms                 TEXT NULL,
		start_date            VARCHAR(40) NOT NULL,
		end_date              VARCHAR(40) NOT NULL,
		applicable_days       JSON NOT NULL,
		applicable_activities JSON NOT NULL,
		is_active             BOOLEAN NOT NULL DEFAULT FALSE,
		created_at            TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS late_night_lanes (
		id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		is_active       BOOLEAN NOT NULL DEFAULT FALSE,
		applicable_days JSON NOT NULL,
		start_time      VARCHAR(8) NOT NULL,
		end_time        VARCHAR(8) NOT NULL,
		price           DECIMAL(10,2) NOT NULL DEFAULT 0,
		description     VARCHAR(255) NOT NULL DEFAULT '',
		subtitle        VARCHAR(255) NOT NULL DEFAULT '',
		disclaimer      VARCHAR(512) NOT NULL DEFAULT ''
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the board tables when they do not exist. It never alters
// existing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create %s: %w", Tables[i], err)
		}
	}
	return nil
}
