package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"jobsift-engine/internal/domain"
)

func TestBackfillRecoversEmailAndLink(t *testing.T) {
	drafts := []domain.JobDraft{{
		CompanyName: "Acme",
		JDText:      "Acme is hiring. Write to hr@acme.example or apply at https://acme.example/jobs/123.",
	}}
	out := Backfill(drafts)
	require.NotNil(t, out[0].Email)
	require.Equal(t, "hr@acme.example", *out[0].Email)
	require.NotNil(t, out[0].ApplicationLink)
	require.Equal(t, "https://acme.example/jobs/123", *out[0].ApplicationLink)
	require.Equal(t, domain.MethodEmail, out[0].ApplicationMethod)
}

func TestBackfillNeverOverwrites(t *testing.T) {
	drafts := []domain.JobDraft{{
		CompanyName:     "Acme",
		Email:           strp("model@acme.example"),
		ApplicationLink: strp("https://model.example"),
		JDText:          "Write to other@acme.example or https://other.example instead.",
	}}
	out := Backfill(drafts)
	require.Equal(t, "model@acme.example", *out[0].Email)
	require.Equal(t, "https://model.example", *out[0].ApplicationLink)
}

func TestBackfillSkipsLinkEmbeddedInEmail(t *testing.T) {
	drafts := []domain.JobDraft{{
		CompanyName: "Acme",
		JDText:      "odd address user@https://mailhost.example but the real form is https://acme.example/form",
	}}
	out := Backfill(drafts)
	require.NotNil(t, out[0].ApplicationLink)
	require.Equal(t, "https://acme.example/form", *out[0].ApplicationLink)
}

func TestBackfillDerivesMethodPriority(t *testing.T) {
	cases := []struct {
		name   string
		draft  domain.JobDraft
		method string
	}{
		{"email wins", domain.JobDraft{Email: strp("a@b.co"), ApplicationLink: strp("https://x"), Phone: strp("9876543210")}, domain.MethodEmail},
		{"link next", domain.JobDraft{ApplicationLink: strp("https://x"), Phone: strp("9876543210")}, domain.MethodLink},
		{"phone next", domain.JobDraft{Phone: strp("9876543210")}, domain.MethodPhone},
		{"unknown last", domain.JobDraft{}, domain.MethodUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Backfill([]domain.JobDraft{tc.draft})
			require.Equal(t, tc.method, out[0].ApplicationMethod)
		})
	}
}

func TestBackfillNothingToScan(t *testing.T) {
	drafts := []domain.JobDraft{{CompanyName: "Acme", JDText: "no contact details in here at all"}}
	out := Backfill(drafts)
	require.Nil(t, out[0].Email)
	require.Nil(t, out[0].ApplicationLink)
	require.Equal(t, domain.MethodUnknown, out[0].ApplicationMethod)
}
