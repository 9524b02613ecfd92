// Package mysql implements the domain repositories using MySQL.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	driver "github.com/go-sql-driver/mysql"
)

// DB wraps a *sql.DB and implements the domain repository interfaces.
type DB struct {
	sql *sql.DB
}

// Open connects to MySQL, pings, and runs migrations. parseTime is forced
// on so DATETIME columns scan into time.Time regardless of the DSN.
func Open(dsn string) (*DB, error) {
	normalized, err := normalizeDSN(dsn)
	if err != nil {
		return nil, err
	}

	s, err := sql.Open("mysql", normalized)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// normalizeDSN parses the DSN and forces parseTime on.
func normalizeDSN(dsn string) (string, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(64) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			phone_number VARCHAR(20) NOT NULL,
			age INT NOT NULL,
			gender ENUM('male','female','other') NOT NULL,
			height DOUBLE NOT NULL,
			weight DOUBLE NOT NULL,
			goal ENUM('lose weight','maintain weight','gain weight') NOT NULL,
			refresh_token VARCHAR(255) NULL,
			refresh_token_expires_at DATETIME NULL,
			last_login_at DATETIME NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS admins (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(64) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sports (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(64) NOT NULL UNIQUE,
			burn_per_minute DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS foods (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(64) NOT NULL UNIQUE,
			calories DOUBLE NOT NULL,
			protein DOUBLE NOT NULL,
			fat DOUBLE NOT NULL,
			carbohydrate DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS activities (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			day CHAR(10) NOT NULL,
			UNIQUE KEY uq_activities_user_day (user_id, day)
		)`,
		`CREATE TABLE IF NOT EXISTS activity_details (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			activity_id BIGINT NOT NULL,
			sport_id BIGINT NOT NULL,
			minutes DOUBLE NOT NULL,
			calories_burned DOUBLE NOT NULL,
			created_at DATETIME NOT NULL,
			KEY idx_activity_details_activity (activity_id)
		)`,
		`CREATE TABLE IF NOT EXISTS meals (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			day CHAR(10) NOT NULL,
			UNIQUE KEY uq_meals_user_day (user_id, day)
		)`,
		`CREATE TABLE IF NOT EXISTS meal_details (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			meal_id BIGINT NOT NULL,
			food_id BIGINT NOT NULL,
			quantity DOUBLE NOT NULL,
			calories DOUBLE NOT NULL,
			created_at DATETIME NOT NULL,
			KEY idx_meal_details_meal (meal_id)
		)`,
		`CREATE TABLE IF NOT EXISTS daily_summaries (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			day CHAR(10) NOT NULL,
			activity_level DOUBLE NOT NULL DEFAULT 0,
			target_calories DOUBLE NOT NULL DEFAULT 0,
			consumed_calories DOUBLE NOT NULL DEFAULT 0,
			burned_calories DOUBLE NOT NULL DEFAULT 0,
			UNIQUE KEY uq_daily_user_day (user_id, day)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return d.seed(ctx)
}

// seed inserts reference sports and foods when the tables are empty.
func (d *DB) seed(ctx context.Context) error {
	var sportCount int
	if err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM sports").Scan(&sportCount); err != nil {
		return fmt.Errorf("seed: count sports: %w", err)
	}
	if sportCount == 0 {
		sports := [][2]any{
			{"running", 10.0}, {"cycling", 8.0}, {"swimming", 9.5},
			{"walking", 4.0}, {"yoga", 3.0}, {"weightlifting", 5.0},
		}
		for _, s := range sports {
			if _, err := d.sql.ExecContext(ctx,
				"INSERT INTO sports (name, burn_per_minute) VALUES (?, ?)", s[0], s[1]); err != nil {
				return fmt.Errorf("seed: sports: %w", err)
			}
		}
	}

	var foodCount int
	if err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM foods").Scan(&foodCount); err != nil {
		return fmt.Errorf("seed: count foods: %w", err)
	}
	if foodCount == 0 {
		foods := [][5]any{
			{"rice", 130.0, 2.7, 0.3, 28.0},
			{"chicken breast", 165.0, 31.0, 3.6, 0.0},
			{"egg", 78.0, 6.3, 5.3, 0.6},
			{"banana", 89.0, 1.1, 0.3, 22.8},
			{"bread", 79.0, 2.7, 1.0, 14.7},
			{"milk", 61.0, 3.2, 3.3, 4.8},
		}
		for _, f := range foods {
			if _, err := d.sql.ExecContext(ctx,
				"INSERT INTO foods (name, calories, protein, fat, carbohydrate) VALUES (?, ?, ?, ?, ?)",
				f[0], f[1], f[2], f[3], f[4]); err != nil {
				return fmt.Errorf("seed: foods: %w", err)
			}
		}
	}

	return nil
}
