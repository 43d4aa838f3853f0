package email_ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTMLToTextKeepsLineStructure(t *testing.T) {
	html := `<html><body>
<script>alert(1)</script>
<style>.x{color:red}</style>
<p>Company - Acme</p>
<div>Role -   Backend   Engineer</div>
<p>Line one<br>Line two</p>
</body></html>`

	got := htmlToText(html)
	require.NotContains(t, got, "alert")
	require.NotContains(t, got, "color:red")
	require.Contains(t, got, "Company - Acme")
	require.Contains(t, got, "Role - Backend Engineer")
	require.Contains(t, got, "Line one\nLine two")
	require.NotContains(t, got, "\n\n\n")
}

func TestBodyTextPrefersPlainPart(t *testing.T) {
	raw := strings.ReplaceAll(`From: hr@acme.example
To: inbox@local
Subject: Hiring
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="BNDRY"

--BNDRY
Content-Type: text/plain; charset=utf-8

Company - Acme
Role - Backend Engineer
--BNDRY
Content-Type: text/html; charset=utf-8

<p>Company - Acme</p><p>Role - Backend Engineer</p>
--BNDRY--
`, "\n", "\r\n")

	got := bodyText([]byte(raw))
	require.Contains(t, got, "Company - Acme")
	require.NotContains(t, got, "<p>")
}

func TestBodyTextFlattensHTMLOnlyMail(t *testing.T) {
	raw := strings.ReplaceAll(`From: hr@acme.example
Subject: Hiring
MIME-Version: 1.0
Content-Type: text/html; charset=utf-8

<div>Company - Acme</div><div>Email: hr@acme.example</div>
`, "\n", "\r\n")

	got := bodyText([]byte(raw))
	require.Contains(t, got, "Company - Acme\nEmail: hr@acme.example")
	require.NotContains(t, got, "<div>")
}

func TestBodyTextDecodesBase64(t *testing.T) {
	// "Company - Acme\n" base64-encoded
	raw := strings.ReplaceAll(`From: hr@acme.example
Subject: Hiring
Content-Type: text/plain; charset=utf-8
Content-Transfer-Encoding: base64

Q29tcGFueSAtIEFjbWUK
`, "\n", "\r\n")

	got := bodyText([]byte(raw))
	require.Contains(t, got, "Company - Acme")
}

func TestBodyTextPassthroughOnBadInput(t *testing.T) {
	require.Equal(t, "", bodyText(nil))
	require.Equal(t, "just text, no headers", bodyText([]byte("just text, no headers")))
}

func TestSubjectMatches(t *testing.T) {
	filter := []string{"hiring", "job "}
	require.True(t, subjectMatches("We are HIRING interns", filter))
	require.True(t, subjectMatches("New job openings", filter))
	require.False(t, subjectMatches("Weekly newsletter", filter))
	require.True(t, subjectMatches("anything at all", nil))
	require.False(t, subjectMatches("anything at all", []string{"  "}))
}
