package extract

import (
	"regexp"
	"strings"

	"jobsift-engine/internal/domain"
)

// The non-model extraction path. It never fails: the worst case is an empty
// draft list. Sections are split either at "Company" labels (strategy 1) or
// at blank-line/dash-rule separators (strategy 2), then each section runs
// through ordered field regexes where the first match wins.

var (
	// reCompanyLabel anchors strategy 1. Numbered bullets ("3) Company -")
	// and the usual dash/colon separator variants all count.
	reCompanyLabel = regexp.MustCompile(`(?mi)^[ \t]*(?:\d+[.)][ \t]*)?Company(?:[ \t]+Name)?[ \t]*[:\-–—]`)

	reSectionSplit = regexp.MustCompile(`\n\s*\n|---+`)

	companyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Company|Organisation|Organization)(?:\s+Name)?\s*[:\-–—]+\s*([^\n]+)`),
		regexp.MustCompile(`(?:^|[\s(])@([A-Za-z0-9_]+)`),
	}
	rolePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Role|Position|Job\s*Title|Designation|Profile)\s*[:\-–—]+\s*([^\n]+)`),
		regexp.MustCompile(`(?i)(?:hiring|looking\s+for)\s*[:\-–—]?\s+([A-Za-z][A-Za-z0-9\s/,&.-]+?)(?:\n|$)`),
	}
	reLocation    = regexp.MustCompile(`(?i)(?:Location|Office|Work\s*Location)\s*[:\-–—]+\s*([^\n]+)`)
	reEligibility = regexp.MustCompile(`(?i)(?:Eligibility|Batch|Graduation)\s*[:\-–—]+\s*([^\n]+)`)
	reEmail       = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	rePhone       = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	reLink        = regexp.MustCompile(`https?://[^\s]+`)
)

// applyPhrases mark trailing "how to apply" blocks that chat formatting
// tends to split away from the posting they belong to.
var applyPhrases = []string{
	"how to apply",
	"to apply",
	"apply here",
	"share your cv",
	"share your resume",
	"send your cv",
	"send your resume",
	"interested candidates",
}

// RegexFallback extracts job drafts from raw text without a model.
func RegexFallback(text string, th Thresholds) []domain.JobDraft {
	th = th.withDefaults()
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sections := splitByCompanyLabel(text)
	if sections == nil {
		sections = splitBySeparators(text, th)
	}

	var out []domain.JobDraft
	for _, sec := range sections {
		if d, ok := sectionToDraft(sec, th); ok {
			out = append(out, d)
		}
	}
	return out
}

// splitByCompanyLabel returns one section per "Company" label occurrence,
// each running from its label (after a leading newline, if any) to the next
// label or end of text. Nil when the label never appears.
func splitByCompanyLabel(text string) []string {
	locs := reCompanyLabel.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	sections := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		sec := strings.TrimLeft(text[loc[0]:end], "\n")
		sections = append(sections, sec)
	}
	return sections
}

// splitBySeparators splits on blank lines or dash rules, then folds short
// apply-instruction continuations back into the section they trail.
func splitBySeparators(text string, th Thresholds) []string {
	parts := reSectionSplit.Split(text, -1)

	var sections []string
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if len(sections) > 0 && isContinuation(p, th) {
			sections[len(sections)-1] += "\n\n" + p
			continue
		}
		sections = append(sections, p)
	}
	return sections
}

// isContinuation reports whether a section is a trailing fragment of the
// previous posting rather than a posting of its own: short, and either
// opening with apply instructions or carrying a contact marker with no
// mention of a company.
func isContinuation(sec string, th Thresholds) bool {
	s := strings.TrimSpace(sec)
	if len(s) >= th.ContinuationMaxLen {
		return false
	}
	if opensWithApplyPhrase(s) {
		return true
	}
	lower := strings.ToLower(s)
	hasContact := strings.Contains(lower, "@") || strings.Contains(lower, "http")
	return hasContact && !strings.Contains(lower, "company")
}

func opensWithApplyPhrase(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	lower = strings.TrimLeft(lower, `*_#>-– `)
	for _, p := range applyPhrases {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// sectionToDraft runs the ordered field regexes over one section. The
// section becomes a draft only if it names a company or role, or at least
// carries a contact channel worth keeping as a lead.
func sectionToDraft(sec string, th Thresholds) (domain.JobDraft, bool) {
	trimmed := strings.TrimSpace(sec)
	if len(trimmed) < th.MinSectionLen {
		return domain.JobDraft{}, false
	}

	d := domain.JobDraft{
		CompanyName: firstMatch(companyPatterns, sec, domain.UnknownCompany),
		JobRole:     firstMatch(rolePatterns, sec, domain.UnknownRole),
		Location:    matchOrEmpty(reLocation, sec),
		Eligibility: matchOrEmpty(reEligibility, sec),
		JDText:      trimmed,
	}
	if m := reEmail.FindString(sec); m != "" {
		d.Email = &m
	}
	if m := rePhone.FindString(sec); m != "" {
		m = strings.TrimSpace(m)
		d.Phone = &m
	}
	if m := reLink.FindString(sec); m != "" {
		m = strings.TrimRight(m, `.,);:]"'`)
		d.ApplicationLink = &m
	}

	keep := d.CompanyName != domain.UnknownCompany ||
		d.JobRole != domain.UnknownRole ||
		d.Email != nil || d.ApplicationLink != nil
	return d, keep
}

func firstMatch(patterns []*regexp.Regexp, s, fallback string) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); len(m) > 1 {
			if v := cleanField(m[1]); v != "" {
				return v
			}
		}
	}
	return fallback
}

func matchOrEmpty(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) > 1 {
		return cleanField(m[1])
	}
	return ""
}

// cleanField collapses whitespace and strips stray markdown emphasis from a
// captured label value.
func cleanField(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, `*_ `)
}
