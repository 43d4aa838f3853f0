package classify

import (
	"strings"

	"jobsift-engine/internal/domain"
)

// Relevance lanes. The model usually labels relevance itself; the keyword
// classifier fills the gap when it does not.
const (
	RelevanceHigh   = "high"
	RelevanceMedium = "medium"
	RelevanceLow    = "low"
)

// Sheet lanes split exports by application method: postings with an email
// channel go to the outreach sheet, the rest to the apply-link sheet.
const (
	LaneEmail    = "email"
	LaneNonEmail = "non-email"
)

// Classifier assigns relevance from keyword rules over the role and
// description text.
type Classifier struct {
	HighAny []string
	LowAny  []string
}

func (c *Classifier) Relevance(d *domain.JobDraft) string {
	text := strings.ToLower(d.JobRole + " " + d.JDText)
	if matchAny(text, c.LowAny) {
		return RelevanceLow
	}
	if matchAny(text, c.HighAny) {
		return RelevanceHigh
	}
	return RelevanceMedium
}

// Apply fills classification fields the extraction left blank. Populated
// fields pass through untouched.
func (c *Classifier) Apply(drafts []domain.JobDraft) []domain.JobDraft {
	for i := range drafts {
		d := &drafts[i]
		if strings.TrimSpace(d.JobRelevance) == "" {
			d.JobRelevance = c.Relevance(d)
		}
		if strings.TrimSpace(d.SheetClassification) == "" {
			if d.HasEmail() {
				d.SheetClassification = LaneEmail
			} else {
				d.SheetClassification = LaneNonEmail
			}
		}
	}
	return drafts
}

func matchAny(text string, terms []string) bool {
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}
