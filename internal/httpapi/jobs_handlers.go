package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"

	"jobsift-engine/internal/store"
)

type JobsHandler struct {
	DB *sql.DB
}

// List serves GET /jobs?sort=date&lane=email&limit=100.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	jobs, err := store.ListJobs(r.Context(), h.DB, store.ListJobsOpts{
		Sort:           q.Get("sort"),
		Classification: q.Get("lane"),
		Limit:          limit,
	})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if jobs == nil {
		jobs = []store.JobRecord{}
	}
	writeJSON(w, jobs)
}

// Stats serves GET /jobs/stats.
func (h JobsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s, err := store.JobStats(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, s)
}

// ExportCSV serves GET /jobs/export.csv?lane=email.
func (h JobsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	lane := r.URL.Query().Get("lane")

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="jobs.csv"`)
	if err := store.ExportCSV(r.Context(), h.DB, w, lane); err != nil {
		// headers are gone; just log through the access log status
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
