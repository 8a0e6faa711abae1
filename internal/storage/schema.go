// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Nested plan items, skinfolds and session items are stored as JSON columns.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		sex TEXT,
		birth_date DATETIME,
		goal TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		client_id TEXT,
		name TEXT NOT NULL,
		description TEXT,
		items TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		assessed_at DATETIME NOT NULL,
		sex TEXT NOT NULL,
		age INTEGER,
		weight_kg REAL,
		height_cm REAL,
		skinfolds TEXT NOT NULL,
		result TEXT,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		plan_id TEXT NOT NULL,
		plan_name TEXT NOT NULL,
		client_id TEXT,
		started_at DATETIME NOT NULL,
		completed_at DATETIME NOT NULL,
		total_seconds INTEGER NOT NULL,
		items TEXT NOT NULL,
		exertion INTEGER,
		comment TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS progress (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		progress_type TEXT NOT NULL,
		value REAL NOT NULL,
		unit TEXT NOT NULL,
		recorded_at DATETIME NOT NULL,
		assessment_id TEXT,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE,
		FOREIGN KEY (assessment_id) REFERENCES assessments(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_plans_client ON plans(client_id);
	CREATE INDEX IF NOT EXISTS idx_assessments_client ON assessments(client_id, assessed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sessions_client ON sessions(client_id, started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_progress_client_type ON progress(client_id, progress_type, recorded_at DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
