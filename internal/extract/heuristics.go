package extract

// Thresholds collects the tunable heuristics the pipeline runs on. They are
// deliberately configuration, not inline literals, so they can be tuned and
// tested independently.
type Thresholds struct {
	// MinSectionLen: sections shorter than this are discarded as noise by the
	// regex fallback regardless of content.
	MinSectionLen int
	// ContinuationMaxLen: a separator-split section under this length that
	// looks like apply instructions is folded into the preceding section.
	ContinuationMaxLen int
	// FragmentMaxLen: a draft's description must be under this length to
	// qualify as a contact fragment during reconciliation.
	FragmentMaxLen int
	// AnchorLookback: how far before a company-name anchor the reconstructor
	// scans backward for a newline.
	AnchorLookback int
	// MinReconstructedLen: a reconstructed excerpt must be longer than this
	// to replace the originally extracted description.
	MinReconstructedLen int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinSectionLen:       20,
		ContinuationMaxLen:  200,
		FragmentMaxLen:      300,
		AnchorLookback:      50,
		MinReconstructedLen: 10,
	}
}

// withDefaults fills zero fields so a partially-populated config section
// cannot zero out a cutoff and break the pipeline.
func (t Thresholds) withDefaults() Thresholds {
	d := DefaultThresholds()
	if t.MinSectionLen <= 0 {
		t.MinSectionLen = d.MinSectionLen
	}
	if t.ContinuationMaxLen <= 0 {
		t.ContinuationMaxLen = d.ContinuationMaxLen
	}
	if t.FragmentMaxLen <= 0 {
		t.FragmentMaxLen = d.FragmentMaxLen
	}
	if t.AnchorLookback <= 0 {
		t.AnchorLookback = d.AnchorLookback
	}
	if t.MinReconstructedLen <= 0 {
		t.MinReconstructedLen = d.MinReconstructedLen
	}
	return t
}
