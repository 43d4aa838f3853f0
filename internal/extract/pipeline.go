package extract

import (
	"context"
	"strings"

	"jobsift-engine/internal/domain"
)

// Pipeline is the full per-message extraction sequence: orchestrated model
// extraction, fragment reconciliation, position reconstruction, and contact
// backfill. It never returns an error; every failure mode degrades to fewer
// or no drafts.
type Pipeline struct {
	Orchestrator *Orchestrator
	Thresholds   Thresholds
}

// Run processes one source message into finalized drafts.
func (p *Pipeline) Run(ctx context.Context, msg domain.SourceMessage) ([]domain.JobDraft, Outcome) {
	if strings.TrimSpace(msg.Text) == "" {
		return nil, Outcome{Strategy: StrategyEmpty}
	}

	drafts, outcome := p.Orchestrator.Extract(ctx, msg)
	before := len(drafts)
	drafts = Reconcile(drafts, p.Thresholds)
	outcome.Merged = before - len(drafts)
	drafts = Reposition(drafts, msg.Text, p.Thresholds)
	drafts = Backfill(drafts)

	for i := range drafts {
		finalize(&drafts[i], msg)
	}
	return drafts, outcome
}

// finalize fills sentinels and derived fields so every draft leaving the
// pipeline is complete. jd_text is never empty when the source had text.
func finalize(d *domain.JobDraft, msg domain.SourceMessage) {
	if strings.TrimSpace(d.CompanyName) == "" {
		d.CompanyName = domain.UnknownCompany
	}
	if strings.TrimSpace(d.JobRole) == "" {
		d.JobRole = domain.UnknownRole
	}
	if strings.TrimSpace(d.JDText) == "" {
		d.JDText = strings.TrimSpace(msg.Text)
	}
	d.SourceMessageID = msg.ID
	d.DeriveApplicationMethod()
}
