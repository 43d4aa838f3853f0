package extract

import (
	"strings"

	"jobsift-engine/internal/domain"
)

// Reconcile merges trailing contact fragments back into the posting they
// belong to. Chat formatting often splits a "how to apply" block out as a
// draft of its own; a single left-to-right sweep over adjacent pairs folds
// those back in. The sweep deliberately runs once, not to a fixed point.
//
// Known limitation: two genuinely distinct postings from the same company
// posted back-to-back can merge when one of them reads like a contact
// fragment. There is no disambiguation for that case.
func Reconcile(drafts []domain.JobDraft, th Thresholds) []domain.JobDraft {
	th = th.withDefaults()
	if len(drafts) < 2 {
		return drafts
	}

	out := make([]domain.JobDraft, 0, len(drafts))
	out = append(out, drafts[0])
	for i := 1; i < len(drafts); i++ {
		prev := &out[len(out)-1]
		cur := drafts[i]

		if !sameCompany(prev.CompanyName, cur.CompanyName) {
			out = append(out, cur)
			continue
		}

		prevFrag := isContactFragment(*prev, cur, th)
		curFrag := isContactFragment(cur, *prev, th)
		switch {
		case curFrag && !prevFrag:
			mergeFragment(prev, cur)
		case prevFrag && !curFrag:
			mergeFragment(&cur, *prev)
			out[len(out)-1] = cur
		default:
			out = append(out, cur)
		}
	}
	return out
}

// sameCompany compares normalized names: equal, one a substring of the
// other, or either side still the unresolved sentinel.
func sameCompany(a, b string) bool {
	if a == domain.UnknownCompany || b == domain.UnknownCompany {
		return true
	}
	na, nb := normalizeCompany(a), normalizeCompany(b)
	if na == "" || nb == "" {
		return true
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}

func normalizeCompany(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return b.String()
}

// isContactFragment reports whether d is a trailing contact block relative
// to other: short and carrying a contact channel other lacks, or opening
// with an apply-instruction phrase.
func isContactFragment(d, other domain.JobDraft, th Thresholds) bool {
	short := len(d.JDText) < th.FragmentMaxLen
	extraChannel := (d.Email != nil && other.Email == nil) ||
		(d.ApplicationLink != nil && other.ApplicationLink == nil)
	if short && extraChannel {
		return true
	}
	return opensWithApplyPhrase(d.JDText)
}

// mergeFragment copies the fragment's contact channels into dst, and its
// company name when dst still carries the sentinel. The fragment is dropped
// by the caller; none of dst's populated fields are overwritten.
func mergeFragment(dst *domain.JobDraft, frag domain.JobDraft) {
	if dst.Email == nil && frag.Email != nil {
		dst.Email = frag.Email
	}
	if dst.ApplicationLink == nil && frag.ApplicationLink != nil {
		dst.ApplicationLink = frag.ApplicationLink
	}
	if dst.CompanyName == domain.UnknownCompany && frag.CompanyName != domain.UnknownCompany {
		dst.CompanyName = frag.CompanyName
	}
}
