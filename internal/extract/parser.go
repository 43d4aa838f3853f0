package extract

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"jobsift-engine/internal/domain"
)

// ErrNoJSONArray means no strategy could pull a decodable JSON array out of
// a model completion. The orchestrator treats it as "this attempt found
// nothing" and moves on; it is never fatal.
var ErrNoJSONArray = errors.New("no JSON array in completion")

var (
	reFencedArray = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")
	reBareArray   = regexp.MustCompile(`(?s)\[.*?\]`)
)

// rawJob mirrors the object shape the system prompt asks the model for.
// Optional contact fields stay pointers so null and missing survive decoding.
type rawJob struct {
	CompanyName         string  `json:"company_name"`
	JobRole             string  `json:"job_role"`
	Location            string  `json:"location"`
	Eligibility         string  `json:"eligibility"`
	Email               *string `json:"email"`
	Phone               *string `json:"phone"`
	ApplicationLink     *string `json:"application_link"`
	RecruiterName       string  `json:"recruiter_name"`
	EmailSubject        *string `json:"email_subject"`
	JDText              string  `json:"jd_text"`
	ExperienceRequired  string  `json:"experience_required"`
	JobRelevance        string  `json:"job_relevance"`
	SheetClassification string  `json:"sheet_classification"`
}

// ParseCompletion extracts a JSON array of job objects from a model
// completion. Strategies, in order: whole-string parse, fenced code block,
// first bracketed substring anywhere in the text. An empty array is a valid
// result ("model explicitly found no jobs"), distinct from ErrNoJSONArray.
func ParseCompletion(completion string) ([]domain.JobDraft, error) {
	s := strings.TrimSpace(completion)
	if s == "" {
		return nil, ErrNoJSONArray
	}

	if jobs, ok := decodeArray(s); ok {
		return toDrafts(jobs), nil
	}

	if m := reFencedArray.FindStringSubmatch(s); len(m) > 1 {
		if jobs, ok := decodeArray(m[1]); ok {
			return toDrafts(jobs), nil
		}
	}

	if m := reBareArray.FindString(s); m != "" {
		if jobs, ok := decodeArray(m); ok {
			return toDrafts(jobs), nil
		}
	}

	return nil, ErrNoJSONArray
}

func decodeArray(s string) ([]rawJob, bool) {
	var jobs []rawJob
	if err := json.Unmarshal([]byte(s), &jobs); err != nil {
		return nil, false
	}
	return jobs, true
}

func toDrafts(jobs []rawJob) []domain.JobDraft {
	out := make([]domain.JobDraft, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, domain.JobDraft{
			CompanyName:         strings.TrimSpace(j.CompanyName),
			JobRole:             strings.TrimSpace(j.JobRole),
			Location:            strings.TrimSpace(j.Location),
			Eligibility:         strings.TrimSpace(j.Eligibility),
			Email:               trimOpt(j.Email),
			Phone:               trimOpt(j.Phone),
			ApplicationLink:     trimOpt(j.ApplicationLink),
			RecruiterName:       strings.TrimSpace(j.RecruiterName),
			EmailSubject:        trimOpt(j.EmailSubject),
			JDText:              strings.TrimSpace(j.JDText),
			ExperienceRequired:  strings.TrimSpace(j.ExperienceRequired),
			JobRelevance:        strings.TrimSpace(j.JobRelevance),
			SheetClassification: strings.TrimSpace(j.SheetClassification),
		})
	}
	return out
}

// trimOpt trims a pointer field, collapsing whitespace-only values to nil so
// downstream "is this channel present" checks stay unambiguous.
func trimOpt(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}
