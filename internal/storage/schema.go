// ABOUTME: Schema definition and initialization for both SQL dialects.
// ABOUTME: Tables: measurements and telegram_users, created on open.
package storage

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS measurements (
		id CHAR(36) NOT NULL,
		subject VARCHAR(64) NOT NULL,
		metric VARCHAR(32) NOT NULL,
		value DOUBLE NOT NULL,
		unit VARCHAR(16) NOT NULL,
		recorded_at VARCHAR(35) NOT NULL,
		notes TEXT,
		created_at VARCHAR(35) NOT NULL,
		PRIMARY KEY (id),
		INDEX idx_measurements_subject_recorded (subject, recorded_at),
		INDEX idx_measurements_metric_recorded (metric, recorded_at)
	)`,
	`CREATE TABLE IF NOT EXISTS telegram_users (
		user_id BIGINT NOT NULL,
		first_name VARCHAR(255) NOT NULL DEFAULT '',
		last_name VARCHAR(255) NOT NULL DEFAULT '',
		login_attempts INT NOT NULL DEFAULT 0,
		allowed BOOLEAN NOT NULL DEFAULT 0,
		seen_at VARCHAR(35) NOT NULL,
		PRIMARY KEY (user_id)
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS measurements (
		id TEXT PRIMARY KEY,
		subject TEXT NOT NULL,
		metric TEXT NOT NULL,
		value REAL NOT NULL,
		unit TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_measurements_subject_recorded
		ON measurements(subject, recorded_at)`,
	`CREATE INDEX IF NOT EXISTS idx_measurements_metric_recorded
		ON measurements(metric, recorded_at)`,
	`CREATE TABLE IF NOT EXISTS telegram_users (
		user_id INTEGER PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		login_attempts INTEGER NOT NULL DEFAULT 0,
		allowed INTEGER NOT NULL DEFAULT 0,
		seen_at TEXT NOT NULL
	)`,
}

// initSchema creates the tables for the active dialect.
func (d *DB) initSchema() error {
	statements := sqliteSchema
	if d.dialect == dialectMySQL {
		statements = mysqlSchema
	}
	for _, stmt := range statements {
		if _, err := d.db.Exec(stmt); err != nil {
			return classify(err)
		}
	}
	return nil
}
