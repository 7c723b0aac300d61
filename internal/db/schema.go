package db

import "context"

// EnsureSchema creates the tables and indexes the API needs. Statements are
// idempotent so this is safe to run on every startup.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis`,
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT,
			auth_provider TEXT NOT NULL DEFAULT 'email',
			role          TEXT NOT NULL DEFAULT 'user'
				CHECK (role IN ('user', 'authority', 'admin')),
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS hazards (
			id                 UUID PRIMARY KEY,
			title              TEXT NOT NULL,
			description        TEXT NOT NULL,
			type               TEXT NOT NULL,
			severity           TEXT NOT NULL
				CHECK (severity IN ('low', 'medium', 'high', 'critical')),
			status             TEXT NOT NULL DEFAULT 'reported'
				CHECK (status IN ('reported', 'in-progress', 'resolved', 'dismissed')),
			position           GEOMETRY(Point, 4326) NOT NULL,
			address            TEXT NOT NULL DEFAULT 'Unknown Address',
			images             TEXT[] NOT NULL DEFAULT '{}',
			reported_by        UUID NOT NULL REFERENCES users(id),
			assigned_to        UUID REFERENCES users(id),
			resolution_details TEXT NOT NULL DEFAULT 'Pending resolution',
			resolution_date    TIMESTAMPTZ,
			predicted_priority TEXT NOT NULL DEFAULT 'Low'
				CHECK (predicted_priority IN ('Low', 'Medium', 'High', 'Critical')),
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hazards_position ON hazards USING GIST (position)`,
		`CREATE INDEX IF NOT EXISTS idx_hazards_type ON hazards (type)`,
		`CREATE INDEX IF NOT EXISTS idx_hazards_status ON hazards (status)`,
		`CREATE INDEX IF NOT EXISTS idx_hazards_created_at ON hazards (created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
