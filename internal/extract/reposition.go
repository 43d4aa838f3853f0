package extract

import (
	"strings"

	"jobsift-engine/internal/domain"
)

// Reposition replaces each draft's jd_text with the verbatim slice of the
// source blob it was extracted from. Model output tends to paraphrase; the
// downstream backfill regexes need real source text to scan. Drafts whose
// company name cannot be located keep their extracted jd_text.
func Reposition(drafts []domain.JobDraft, source string, th Thresholds) []domain.JobDraft {
	th = th.withDefaults()
	if len(drafts) == 0 || strings.TrimSpace(source) == "" {
		return drafts
	}

	type span struct {
		idx   int
		start int
	}
	var spans []span

	// Anchors are searched in extraction order, each at or after the end
	// of the previous match, so repeated company names map to successive
	// occurrences.
	cursor := 0
	lowerSource := strings.ToLower(source)
	for i, d := range drafts {
		name := strings.TrimSpace(d.CompanyName)
		if name == "" || name == domain.UnknownCompany {
			continue
		}
		at := strings.Index(source[cursor:], name)
		if at < 0 {
			at = strings.Index(lowerSource[cursor:], strings.ToLower(name))
		}
		if at < 0 {
			continue
		}
		anchor := cursor + at
		spans = append(spans, span{idx: i, start: segmentStart(source, anchor, th.AnchorLookback)})
		cursor = anchor + len(name)
	}
	if len(spans) == 0 {
		return drafts
	}

	for si, sp := range spans {
		end := len(source)
		if si+1 < len(spans) {
			end = spans[si+1].start
		}
		slice := strings.TrimSpace(source[sp.start:end])
		if len(slice) > th.MinReconstructedLen {
			drafts[sp.idx].JDText = slice
		}
	}
	return drafts
}

// segmentStart scans up to lookback characters behind the anchor for the
// nearest newline. Same-line labels such as "Role -" preceding the company
// token belong to the segment, so the start is just past that newline, or
// the lookback boundary when none is found.
func segmentStart(source string, anchor, lookback int) int {
	low := anchor - lookback
	if low < 0 {
		low = 0
	}
	if nl := strings.LastIndexByte(source[low:anchor], '\n'); nl >= 0 {
		return low + nl + 1
	}
	return low
}
