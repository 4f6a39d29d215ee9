package database

import (
	"context"
	"fmt"
	"log/slog"
)

// createStatements builds the full schema from scratch. Every statement is
// idempotent so EnsureSchema can run on every boot.
var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id SERIAL PRIMARY KEY,
		google_id VARCHAR(255) UNIQUE,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255),
		subdomain VARCHAR(100) UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		id SERIAL PRIMARY KEY,
		account_id INTEGER REFERENCES accounts(id) ON DELETE CASCADE,
		title VARCHAR(255),
		technologies TEXT,
		icon_class VARCHAR(50) DEFAULT 'fas fa-code',
		display_order INTEGER DEFAULT 0,
		is_visible BOOLEAN DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id SERIAL PRIMARY KEY,
		account_id INTEGER REFERENCES accounts(id) ON DELETE CASCADE,
		title VARCHAR(255),
		description TEXT,
		technologies TEXT,
		display_order INTEGER DEFAULT 0,
		is_visible BOOLEAN DEFAULT TRUE,
		source_code_link TEXT,
		source_code_visible BOOLEAN DEFAULT TRUE,
		demo_video_link TEXT,
		demo_video_visible BOOLEAN DEFAULT TRUE,
		live_demo_link TEXT,
		live_demo_visible BOOLEAN DEFAULT TRUE,
		certificate_link TEXT,
		certificate_visible BOOLEAN DEFAULT TRUE,
		project_image_path TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS internships (
		id SERIAL PRIMARY KEY,
		account_id INTEGER REFERENCES accounts(id) ON DELETE CASCADE,
		title VARCHAR(255),
		company VARCHAR(255),
		period VARCHAR(255),
		technologies TEXT,
		description TEXT,
		display_order INTEGER DEFAULT 0,
		is_visible BOOLEAN DEFAULT TRUE,
		source_code_link TEXT,
		source_code_visible BOOLEAN DEFAULT TRUE,
		demo_video_link TEXT,
		demo_video_visible BOOLEAN DEFAULT TRUE,
		live_demo_link TEXT,
		live_demo_visible BOOLEAN DEFAULT TRUE,
		certificate_link TEXT,
		certificate_visible BOOLEAN DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS certifications (
		id SERIAL PRIMARY KEY,
		account_id INTEGER REFERENCES accounts(id) ON DELETE CASCADE,
		title VARCHAR(255),
		issuer VARCHAR(255),
		date_issued VARCHAR(255),
		description TEXT,
		display_order INTEGER DEFAULT 0,
		is_visible BOOLEAN DEFAULT TRUE,
		certificate_image_path TEXT,
		certificate_visible BOOLEAN DEFAULT TRUE,
		verify_link VARCHAR(500)
	)`,
	`CREATE TABLE IF NOT EXISTS achievements (
		id SERIAL PRIMARY KEY,
		account_id INTEGER REFERENCES accounts(id) ON DELETE CASCADE,
		title VARCHAR(255),
		role VARCHAR(255),
		description TEXT,
		display_order INTEGER DEFAULT 0,
		is_visible BOOLEAN DEFAULT TRUE,
		source_code_link TEXT,
		source_code_visible BOOLEAN DEFAULT TRUE,
		demo_video_link TEXT,
		demo_video_visible BOOLEAN DEFAULT TRUE,
		live_demo_link TEXT,
		live_demo_visible BOOLEAN DEFAULT TRUE,
		certificate_link TEXT,
		certificate_visible BOOLEAN DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id SERIAL PRIMARY KEY,
		account_id INTEGER REFERENCES accounts(id) ON DELETE CASCADE,
		name VARCHAR(255),
		email VARCHAR(255),
		subject VARCHAR(255),
		message TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		is_read BOOLEAN DEFAULT FALSE,
		notified BOOLEAN DEFAULT FALSE
	)`,
}

// alterStatements patch databases created by earlier schema versions.
var alterStatements = []string{
	`ALTER TABLE skills ADD COLUMN IF NOT EXISTS icon_class VARCHAR(50) DEFAULT 'fas fa-code'`,
	`ALTER TABLE projects ADD COLUMN IF NOT EXISTS project_image_path TEXT`,
	`ALTER TABLE certifications ADD COLUMN IF NOT EXISTS certificate_visible BOOLEAN DEFAULT TRUE`,
	`ALTER TABLE certifications ADD COLUMN IF NOT EXISTS verify_link VARCHAR(500)`,
	`ALTER TABLE messages ADD COLUMN IF NOT EXISTS notified BOOLEAN DEFAULT FALSE`,
}

// EnsureSchema creates missing tables and columns. Safe to call on every
// startup.
func (cp *ConnectionPool) EnsureSchema(ctx context.Context) error {
	cp.logger.Info("checking database schema")

	for _, stmt := range createStatements {
		if _, err := cp.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema create failed: %w", err)
		}
	}
	for _, stmt := range alterStatements {
		if _, err := cp.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema patch failed: %w", err)
		}
	}

	cp.logger.Info("database schema verified", slog.Int("tables", len(createStatements)))
	return nil
}
