package domain

import "strings"

// Sentinels used when extraction truly yields nothing for a required field.
const (
	UnknownCompany = "Unknown"
	UnknownRole    = "Position"
)

// Application methods, in derivation priority order.
const (
	MethodEmail   = "email"
	MethodLink    = "link"
	MethodPhone   = "phone"
	MethodUnknown = "unknown"
)

// SourceMessage is one raw text blob pulled from an ingestion source.
// A blob may contain zero, one, or many postings glued together.
type SourceMessage struct {
	ID     int64  // store row id
	MsgID  int64  // numeric identifier assigned by the source
	Source string // email/telegram/etc.
	Text   string
}

// JobDraft is the working record for one candidate posting as it moves
// through extraction, reconciliation, reconstruction, and backfill.
// Contact channels are pointers: nil means "not extracted", which is not
// the same thing as extracted-as-empty.
type JobDraft struct {
	// SourceMessageID links back to the raw_messages row the draft was
	// extracted from.
	SourceMessageID int64

	CompanyName   string
	JobRole       string
	Location      string
	Eligibility   string
	RecruiterName string

	Email           *string
	Phone           *string
	ApplicationLink *string

	// JDText is the job description. After position reconstruction it is a
	// verbatim slice of the source blob, not a model paraphrase.
	JDText string

	ExperienceRequired  string
	JobRelevance        string
	SheetClassification string
	EmailSubject        *string

	// ApplicationMethod is derived from the contact channels, never input.
	ApplicationMethod string
}

// HasEmail reports a non-blank email channel.
func (d *JobDraft) HasEmail() bool { return d.Email != nil && strings.TrimSpace(*d.Email) != "" }

// HasLink reports a non-blank application link.
func (d *JobDraft) HasLink() bool {
	return d.ApplicationLink != nil && strings.TrimSpace(*d.ApplicationLink) != ""
}

// HasPhone reports a non-blank phone channel.
func (d *JobDraft) HasPhone() bool { return d.Phone != nil && strings.TrimSpace(*d.Phone) != "" }

// DeriveApplicationMethod sets ApplicationMethod from whichever contact
// channels are populated: email > link > phone > unknown.
func (d *JobDraft) DeriveApplicationMethod() {
	switch {
	case d.HasEmail():
		d.ApplicationMethod = MethodEmail
	case d.HasLink():
		d.ApplicationMethod = MethodLink
	case d.HasPhone():
		d.ApplicationMethod = MethodPhone
	default:
		d.ApplicationMethod = MethodUnknown
	}
}

// EmailOrEmpty flattens the optional email for storage keys.
func (d *JobDraft) EmailOrEmpty() string {
	if d.Email == nil {
		return ""
	}
	return strings.TrimSpace(*d.Email)
}

// LinkOrEmpty flattens the optional application link.
func (d *JobDraft) LinkOrEmpty() string {
	if d.ApplicationLink == nil {
		return ""
	}
	return strings.TrimSpace(*d.ApplicationLink)
}

// PhoneOrEmpty flattens the optional phone number.
func (d *JobDraft) PhoneOrEmpty() string {
	if d.Phone == nil {
		return ""
	}
	return strings.TrimSpace(*d.Phone)
}

// SplitRecruiterName splits "Sarah Johnson" into ("Sarah", "Johnson").
// A single token becomes the first name.
func SplitRecruiterName(full string) (first, last string) {
	parts := strings.Fields(strings.TrimSpace(full))
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
