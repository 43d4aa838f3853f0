package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCompletionDirectArray(t *testing.T) {
	drafts, err := ParseCompletion(`[{"company_name":"Acme","job_role":"SDE","email":"hr@acme.com","jd_text":"Acme is hiring"}]`)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.Equal(t, "Acme", drafts[0].CompanyName)
	require.Equal(t, "SDE", drafts[0].JobRole)
	require.NotNil(t, drafts[0].Email)
	require.Equal(t, "hr@acme.com", *drafts[0].Email)
}

func TestParseCompletionFencedBlock(t *testing.T) {
	completion := "Here are the jobs I found:\n```json\n[{\"company_name\":\"Acme\",\"job_role\":\"SDE\"}]\n```\nLet me know if you need more."
	drafts, err := ParseCompletion(completion)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.Equal(t, "Acme", drafts[0].CompanyName)
}

func TestParseCompletionFencedBlockNoLanguageTag(t *testing.T) {
	completion := "```\n[{\"company_name\":\"Acme\",\"job_role\":\"SDE\"}]\n```"
	drafts, err := ParseCompletion(completion)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
}

func TestParseCompletionBareSubstring(t *testing.T) {
	completion := `Sure! The extracted jobs are [{"company_name":"Acme","job_role":"SDE"}] as requested.`
	drafts, err := ParseCompletion(completion)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.Equal(t, "Acme", drafts[0].CompanyName)
}

func TestParseCompletionEmptyArrayIsSuccess(t *testing.T) {
	drafts, err := ParseCompletion("[]")
	require.NoError(t, err)
	require.Empty(t, drafts)
}

func TestParseCompletionNoArray(t *testing.T) {
	for _, completion := range []string{
		"",
		"I could not find any jobs in this message.",
		`{"company_name":"Acme"}`,
		"[not json at all]",
	} {
		_, err := ParseCompletion(completion)
		require.ErrorIs(t, err, ErrNoJSONArray, "completion: %q", completion)
	}
}

func TestParseCompletionNullAndBlankOptionalFields(t *testing.T) {
	drafts, err := ParseCompletion(`[{"company_name":"Acme","job_role":"SDE","email":null,"phone":"  ","application_link":" https://acme.com/apply "}]`)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.Nil(t, drafts[0].Email)
	require.Nil(t, drafts[0].Phone, "whitespace-only collapses to absent")
	require.NotNil(t, drafts[0].ApplicationLink)
	require.Equal(t, "https://acme.com/apply", *drafts[0].ApplicationLink)
}
