package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"

	"jobsift-engine/internal/domain"
)

// ExportCSV writes jobs in the given sheet lane ("email", "non-email", or
// "" for all) as CSV. Column order mirrors the spreadsheet consumers
// already expect, recruiter name split into first/last for mail merge.
func ExportCSV(ctx context.Context, db *sql.DB, w io.Writer, classification string) error {
	jobs, err := ListJobs(ctx, db, ListJobsOpts{Classification: classification, Limit: 2000})
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{
		"job_id", "company_name", "job_role", "location", "eligibility",
		"recruiter_first_name", "recruiter_last_name",
		"email", "phone", "application_link", "application_method",
		"experience_required", "job_relevance", "created_at",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, j := range jobs {
		first, last := domain.SplitRecruiterName(j.RecruiterName)
		rec := []string{
			j.JobID, j.CompanyName, j.JobRole, j.Location, j.Eligibility,
			first, last,
			j.Email, j.Phone, j.ApplicationLink, j.ApplicationMethod,
			j.ExperienceRequired, j.JobRelevance, j.CreatedAt,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
