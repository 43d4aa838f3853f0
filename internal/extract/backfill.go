package extract

import (
	"strings"

	"jobsift-engine/internal/domain"
)

// Backfill recovers contact fields the extraction step missed by scanning
// the reconstructed jd_text. It never overwrites a populated field.
func Backfill(drafts []domain.JobDraft) []domain.JobDraft {
	for i := range drafts {
		d := &drafts[i]
		if d.ApplicationLink == nil {
			if link := firstStandaloneLink(d.JDText); link != "" {
				d.ApplicationLink = &link
			}
		}
		if d.Email == nil {
			if m := reEmail.FindString(d.JDText); m != "" {
				d.Email = &m
			}
		}
		d.DeriveApplicationMethod()
	}
	return drafts
}

// firstStandaloneLink returns the first http(s) token in s, skipping tokens
// embedded in an email address.
func firstStandaloneLink(s string) string {
	for _, loc := range reLink.FindAllStringIndex(s, -1) {
		if loc[0] > 0 && s[loc[0]-1] == '@' {
			continue
		}
		link := strings.TrimRight(s[loc[0]:loc[1]], `.,);:]"'`)
		if link != "" {
			return link
		}
	}
	return ""
}
