package store

import (
	"database/sql"
)

// Message statuses. A raw message moves pending -> processing -> processed,
// or -> failed with an error note.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusFailed     = "failed"
)

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS raw_messages (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  message_id INTEGER NOT NULL,
  source TEXT NOT NULL DEFAULT 'email',
  message_text TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  error TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  raw_message_id INTEGER NOT NULL DEFAULT 0,
  job_id TEXT NOT NULL,
  company_name TEXT NOT NULL,
  job_role TEXT NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  eligibility TEXT NOT NULL DEFAULT '',
  recruiter_name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  application_link TEXT NOT NULL DEFAULT '',
  application_method TEXT NOT NULL DEFAULT 'unknown',
  experience_required TEXT NOT NULL DEFAULT '',
  job_relevance TEXT NOT NULL DEFAULT '',
  sheet_classification TEXT NOT NULL DEFAULT '',
  jd_text TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_raw_messages_source_msg
ON raw_messages(source, message_id);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_raw_messages_status
ON raw_messages(status);
`); err != nil {
		return err
	}

	// Backstop for the duplicate resolver's read-then-write race: two
	// concurrent extractions of the same job can both miss the precheck,
	// but only one insert lands.
	if _, err := tx.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_company_role
ON jobs(lower(trim(company_name)), lower(trim(job_role)));
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_jobs_email
ON jobs(lower(email))
WHERE email != '';
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
