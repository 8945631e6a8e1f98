package jobrecord

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/huntline/huntline/internal/common"
)

var structValidator = validator.New()

// Status is the JobRecord state machine (spec §4.2 referenced from §3):
// scraped -> stage1_scored -> processed, with re-scrape resetting a record
// back to scraped without changing its fingerprint.
type Status string

const (
	StatusScraped      Status = "scraped"
	StatusStage1Scored Status = "stage1_scored"
	StatusProcessed    Status = "processed"
)

// legalTransitions enumerates the only status arrows a record may advance
// along. AdvanceStatus compare-and-swaps against this table.
var legalTransitions = map[Status][]Status{
	StatusScraped:      {StatusStage1Scored},
	StatusStage1Scored: {StatusProcessed, StatusScraped},
	StatusProcessed:    {StatusScraped},
}

func IsLegalTransition(from, to Status) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ATSSystem tags the applicant-tracking-system family inferred from a
// canonical URL's host.
type ATSSystem string

const (
	ATSWorkday    ATSSystem = "workday"
	ATSGreenhouse ATSSystem = "greenhouse"
	ATSIcims      ATSSystem = "icims"
	ATSLever      ATSSystem = "lever"
	ATSBambooHR   ATSSystem = "bamboohr"
	ATSOther      ATSSystem = "other"
	ATSUnknown    ATSSystem = "unknown"
)

// JobRecord is the canonical job entity (component A).
type JobRecord struct {
	Fingerprint string `badgerhold:"key"`

	Title         string `validate:"required"`
	Company       string
	Location      string
	CanonicalURL  string
	SourceSite    string    `badgerhold:"index"`
	SearchKeyword string    `badgerhold:"index"`
	SearchLocation string
	ScrapedAt     time.Time

	SalaryText       string
	Summary          string
	Description      string
	JobType          string
	PostedText       string
	ExperienceLevel  string
	ExtractedSkills  []string
	Requirements     []string
	ATSSystemTag     ATSSystem

	Stage1Score   float64
	Stage1Reasons []string
	Stage2Score   *float64
	FinalScore    *float64
	Status        Status `badgerhold:"index"`

	Stage1At    *time.Time
	Stage2At    *time.Time
	ProcessedAt *time.Time
	LastSeenAt  time.Time
}

// Validate enforces the §3 invariants that aren't expressible as struct
// tags: scoring-field ordering and the company/canonical_url rule.
func (r *JobRecord) Validate() error {
	if err := structValidator.Struct(r); err != nil {
		return common.Invalid("JobRecord.Validate", errEmptyTitle)
	}
	if r.Company == "" && r.CanonicalURL == "" {
		return common.Invalid("JobRecord.Validate", errNoCompanyOrURL)
	}
	if r.Stage2Score != nil && r.Stage1Score < 0 {
		return common.Invalid("JobRecord.Validate", errScoreOrder)
	}
	if r.Stage2Score != nil {
		if r.Status != StatusStage1Scored && r.Status != StatusProcessed {
			return common.Invalid("JobRecord.Validate", errStage2WithoutStage1Status)
		}
	}
	if r.Stage1At != nil && !r.ScrapedAt.IsZero() && r.Stage1At.Before(r.ScrapedAt) {
		return common.Invalid("JobRecord.Validate", errTimestampOrder)
	}
	if r.Stage2At != nil && r.Stage1At != nil && r.Stage2At.Before(*r.Stage1At) {
		return common.Invalid("JobRecord.Validate", errTimestampOrder)
	}
	if r.ProcessedAt != nil && r.Stage2At != nil && r.ProcessedAt.Before(*r.Stage2At) {
		return common.Invalid("JobRecord.Validate", errTimestampOrder)
	}
	return nil
}

// Fingerprint computes the 128-bit (32-hex-char) stable identity hash
// described in component A: normalized (title, company, canonical-url) with
// a fallback to (title, company, location) when the URL is absent or is a
// listing-site URL.
func Fingerprint(title, company, canonicalURL, location string, isListingURL bool) string {
	nt := normalizeTitle(title)
	nc := normalizeCompany(company)

	var key string
	if canonicalURL != "" && !isListingURL {
		key = nt + "|" + nc + "|" + normalizeURL(canonicalURL)
	} else {
		key = nt + "|" + nc + "|" + normalizeLocation(location)
	}
	return hash128(key)
}
