package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobsift-engine/internal/domain"
)

type JobRecord struct {
	ID                  int64  `json:"id"`
	RawMessageID        int64  `json:"rawMessageId"`
	JobID               string `json:"jobId"`
	CompanyName         string `json:"companyName"`
	JobRole             string `json:"jobRole"`
	Location            string `json:"location"`
	Eligibility         string `json:"eligibility"`
	RecruiterName       string `json:"recruiterName"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	ApplicationLink     string `json:"applicationLink"`
	ApplicationMethod   string `json:"applicationMethod"`
	ExperienceRequired  string `json:"experienceRequired"`
	JobRelevance        string `json:"jobRelevance"`
	SheetClassification string `json:"sheetClassification"`
	JDText              string `json:"jdText"`
	CreatedAt           string `json:"createdAt"`
}

type ListJobsOpts struct {
	Sort           string // date | company | role
	Classification string // email | non-email | ""
	Limit          int
}

const jobColumns = `id, raw_message_id, job_id, company_name, job_role, location, eligibility,
recruiter_name, email, phone, application_link, application_method,
experience_required, job_relevance, sheet_classification, jd_text, created_at`

func scanJob(s interface{ Scan(...any) error }) (JobRecord, error) {
	var j JobRecord
	err := s.Scan(
		&j.ID, &j.RawMessageID, &j.JobID, &j.CompanyName, &j.JobRole, &j.Location, &j.Eligibility,
		&j.RecruiterName, &j.Email, &j.Phone, &j.ApplicationLink, &j.ApplicationMethod,
		&j.ExperienceRequired, &j.JobRelevance, &j.SheetClassification, &j.JDText, &j.CreatedAt,
	)
	return j, err
}

// FindDuplicate looks for an existing record matching the draft: first by
// case-insensitive company+role, then by email when the draft has one.
// Returns nil when the draft is new. A store read error propagates; without
// a working read the persistence decision is meaningless.
func FindDuplicate(ctx context.Context, db *sql.DB, d *domain.JobDraft) (*JobRecord, error) {
	row := db.QueryRowContext(ctx, fmt.Sprintf(`
SELECT %s FROM jobs
WHERE lower(trim(company_name)) = lower(trim(?))
  AND lower(trim(job_role)) = lower(trim(?))
LIMIT 1;`, jobColumns), d.CompanyName, d.JobRole)
	j, err := scanJob(row)
	if err == nil {
		return &j, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("duplicate lookup by company/role: %w", err)
	}

	email := d.EmailOrEmpty()
	if email == "" {
		return nil, nil
	}
	row = db.QueryRowContext(ctx, fmt.Sprintf(`
SELECT %s FROM jobs
WHERE email != '' AND lower(email) = lower(?)
LIMIT 1;`, jobColumns), email)
	j, err = scanJob(row)
	if err == nil {
		return &j, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("duplicate lookup by email: %w", err)
	}
	return nil, nil
}

// InsertJobIgnore persists a finalized draft. The unique company+role index
// absorbs the narrow race where two concurrent extractions pass FindDuplicate
// with the same job; the loser's insert is ignored.
func InsertJobIgnore(ctx context.Context, db *sql.DB, d *domain.JobDraft) (added bool, err error) {
	now := time.Now().UTC()
	jobID := fmt.Sprintf("job_%d_%d", d.SourceMessageID, now.Unix())

	_, err = db.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs (
  raw_message_id, job_id, company_name, job_role, location, eligibility,
  recruiter_name, email, phone, application_link, application_method,
  experience_required, job_relevance, sheet_classification, jd_text, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		d.SourceMessageID, jobID, d.CompanyName, d.JobRole, d.Location, d.Eligibility,
		d.RecruiterName, d.EmailOrEmpty(), d.PhoneOrEmpty(), d.LinkOrEmpty(), d.ApplicationMethod,
		d.ExperienceRequired, d.JobRelevance, d.SheetClassification, d.JDText,
		now.Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}

	var changes int
	if e := db.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); e == nil {
		return changes > 0, nil
	}
	return true, nil
}

func ListJobs(ctx context.Context, db *sql.DB, opts ListJobsOpts) ([]JobRecord, error) {
	if opts.Limit <= 0 || opts.Limit > 2000 {
		opts.Limit = 500
	}

	// whitelist sort columns
	sortCol := map[string]string{
		"date":    "created_at DESC",
		"company": "company_name ASC",
		"role":    "job_role ASC",
	}[opts.Sort]
	if sortCol == "" {
		sortCol = "created_at DESC"
	}

	where := ""
	args := []any{}
	if opts.Classification != "" {
		where = "WHERE sheet_classification = ?"
		args = append(args, opts.Classification)
	}
	args = append(args, opts.Limit)

	query := fmt.Sprintf(`
SELECT %s FROM jobs
%s
ORDER BY %s
LIMIT ?;`, jobColumns, where, sortCol)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JobRecord
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// Stats summarizes persisted jobs for the dashboard.
type Stats struct {
	Total        int            `json:"total"`
	Today        int            `json:"today"`
	WithEmail    int            `json:"withEmail"`
	WithoutEmail int            `json:"withoutEmail"`
	ByMethod     map[string]int `json:"byMethod"`
}

func JobStats(ctx context.Context, db *sql.DB) (Stats, error) {
	var s Stats
	err := db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN email != '' THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN created_at >= date('now') THEN 1 ELSE 0 END), 0)
FROM jobs;`).Scan(&s.Total, &s.WithEmail, &s.Today)
	if err != nil {
		return Stats{}, err
	}
	s.WithoutEmail = s.Total - s.WithEmail

	rows, err := db.QueryContext(ctx, `
SELECT application_method, COUNT(*) FROM jobs GROUP BY application_method;`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	s.ByMethod = map[string]int{}
	for rows.Next() {
		var method string
		var n int
		if err := rows.Scan(&method, &n); err != nil {
			return Stats{}, err
		}
		s.ByMethod[method] = n
	}
	return s, rows.Err()
}

func CleanupOldJobs(db *sql.DB) (deleted int64, err error) {
	res, err := db.Exec(`
DELETE FROM jobs
WHERE created_at < datetime('now', '-3 months');
`)
	if err != nil {
		return 0, fmt.Errorf("cleanup old jobs: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
