package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"jobsift-engine/internal/domain"
)

func strp(s string) *string { return &s }

func TestReconcileMergesApplyFragment(t *testing.T) {
	drafts := []domain.JobDraft{
		{
			CompanyName: "Acme",
			JobRole:     "Backend Engineer",
			JDText:      "Acme is hiring a Backend Engineer for the Pune office. Freshers from the 2025 batch are welcome.",
		},
		{
			CompanyName: domain.UnknownCompany,
			JobRole:     domain.UnknownRole,
			Email:       strp("c@d.com"),
			JDText:      "How to Apply: send CV to c@d.com",
		},
	}

	out := Reconcile(drafts, DefaultThresholds())
	require.Len(t, out, 1)
	require.Equal(t, "Acme", out[0].CompanyName)
	require.Equal(t, "Backend Engineer", out[0].JobRole)
	require.NotNil(t, out[0].Email)
	require.Equal(t, "c@d.com", *out[0].Email)
}

func TestReconcileIdempotent(t *testing.T) {
	drafts := []domain.JobDraft{
		{CompanyName: "Acme", JobRole: "SDE", JDText: "Acme is hiring an SDE. Apply soon, limited seats available for the batch."},
		{CompanyName: "Acme", Email: strp("x@acme.com"), JDText: "How to Apply: mail x@acme.com"},
		{CompanyName: "Bolt", JobRole: "QA", ApplicationLink: strp("https://bolt.example"), JDText: "Bolt needs QA engineers for its Bengaluru office, two rounds of interviews."},
	}

	once := Reconcile(drafts, DefaultThresholds())
	twice := Reconcile(once, DefaultThresholds())
	require.Equal(t, once, twice)
}

func TestReconcileLeavesDistinctCompaniesAlone(t *testing.T) {
	drafts := []domain.JobDraft{
		{CompanyName: "Acme", JobRole: "SDE", Email: strp("a@acme.com"), JDText: "Acme posting with enough text to stand on its own as a job."},
		{CompanyName: "Bolt", JobRole: "QA", ApplicationLink: strp("https://bolt.example"), JDText: "Bolt posting with enough text to stand on its own as a job."},
	}
	out := Reconcile(drafts, DefaultThresholds())
	require.Len(t, out, 2)
}

func TestReconcileNoMergeWhenBothQualify(t *testing.T) {
	drafts := []domain.JobDraft{
		{CompanyName: "Acme", Email: strp("a@acme.com"), JDText: "How to Apply: mail a@acme.com"},
		{CompanyName: "Acme", ApplicationLink: strp("https://acme.example"), JDText: "How to Apply: use https://acme.example"},
	}
	out := Reconcile(drafts, DefaultThresholds())
	require.Len(t, out, 2, "both sides look like fragments, nothing to merge into")
}

func TestReconcileSubstringCompanyMatch(t *testing.T) {
	drafts := []domain.JobDraft{
		{CompanyName: "Acme Technologies Pvt Ltd", JobRole: "SDE", JDText: "Acme Technologies is hiring SDEs across all its Indian offices this quarter."},
		{CompanyName: "Acme", JDText: "Share your CV at talent@acme.example", Email: strp("talent@acme.example")},
	}
	out := Reconcile(drafts, DefaultThresholds())
	require.Len(t, out, 1)
	require.Equal(t, "Acme Technologies Pvt Ltd", out[0].CompanyName)
	require.NotNil(t, out[0].Email)
}

func TestReconcileFragmentBeforePosting(t *testing.T) {
	// fragment first: the contact block still folds into the real posting
	drafts := []domain.JobDraft{
		{CompanyName: domain.UnknownCompany, Email: strp("jobs@acme.example"), JDText: "How to Apply: jobs@acme.example"},
		{CompanyName: "Acme", JobRole: "SDE", JDText: "Acme is hiring SDEs, on-site Pune, immediate joining preferred for this role."},
	}
	out := Reconcile(drafts, DefaultThresholds())
	require.Len(t, out, 1)
	require.Equal(t, "Acme", out[0].CompanyName)
	require.NotNil(t, out[0].Email)
	require.Equal(t, "jobs@acme.example", *out[0].Email)
}

func TestReconcileNeverOverwrites(t *testing.T) {
	drafts := []domain.JobDraft{
		{CompanyName: "Acme", JobRole: "SDE", Email: strp("first@acme.example"), JDText: "Acme is hiring SDEs for its Pune office. The role covers backend services in Go, a relational store, and a small amount of infrastructure work. Freshers from the 2024 and 2025 batches can apply. The interview loop is two technical rounds and one culture conversation, all remote, spread over roughly two weeks."},
		{CompanyName: "Acme", ApplicationLink: strp("https://acme.example/apply"), JDText: "How to Apply: https://acme.example/apply"},
	}
	out := Reconcile(drafts, DefaultThresholds())
	require.Len(t, out, 1)
	require.Equal(t, "first@acme.example", *out[0].Email)
	require.Equal(t, "https://acme.example/apply", *out[0].ApplicationLink)
}
