package jobrecord

import (
	"testing"

	"github.com/huntline/huntline/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintStableAcrossTrackingParams(t *testing.T) {
	a := Fingerprint("Senior Python Developer", "Acme Corp", "https://jobs.acme.com/apply/42?utm_source=eluta", "", false)
	b := Fingerprint("Python Developer", "Acme Corp", "https://jobs.acme.com/apply/42", "", false)
	assert.Equal(t, a, b, "stop-prefix stripping and tracking-param stripping should fold to the same fingerprint")
}

func TestFingerprintFallsBackToLocationWhenListingURL(t *testing.T) {
	a := Fingerprint("Python Developer", "Acme Corp", "https://www.eluta.ca/search?q=python", "Toronto, ON", true)
	b := Fingerprint("Python Developer", "Acme Corp", "", "Toronto, ON", false)
	assert.Equal(t, a, b)
}

func TestFingerprintIsDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		fp := Fingerprint("Data Engineer", "Initech", "https://jobs.initech.com/1", "", false)
		assert.Len(t, fp, 32)
		assert.Equal(t, fp, Fingerprint("Data Engineer", "Initech", "https://jobs.initech.com/1", "", false))
	}
}

func TestJobRecordValidateRequiresTitle(t *testing.T) {
	r := &JobRecord{Company: "Acme"}
	err := r.Validate()
	require.Error(t, err)
	assert.Equal(t, common.KindInvalid, common.KindOf(err))
}

func TestJobRecordValidateRequiresCompanyOrURL(t *testing.T) {
	r := &JobRecord{Title: "Developer"}
	require.Error(t, r.Validate())

	r.CanonicalURL = "https://jobs.acme.com/1"
	assert.NoError(t, r.Validate())
}

func TestJobRecordValidateStage2RequiresStage1Status(t *testing.T) {
	score := 0.8
	r := &JobRecord{Title: "Developer", Company: "Acme", Stage2Score: &score, Status: StatusScraped}
	require.Error(t, r.Validate())

	r.Status = StatusStage1Scored
	assert.NoError(t, r.Validate())
}

func TestClassifySeniority(t *testing.T) {
	assert.Equal(t, SenioritySenior, ClassifySeniority("Senior Staff Engineer"))
	assert.Equal(t, SeniorityEntry, ClassifySeniority("Junior Python Developer"))
	assert.Equal(t, SeniorityMid, ClassifySeniority("Python Developer"))
}

func TestDetectATSSystem(t *testing.T) {
	assert.Equal(t, ATSWorkday, DetectATSSystem("https://acme.wd3.myworkdayjobs.com/en-US/careers/job/123"))
	assert.Equal(t, ATSGreenhouse, DetectATSSystem("https://boards.greenhouse.io/acme/jobs/123"))
	assert.Equal(t, ATSUnknown, DetectATSSystem(""))
	assert.Equal(t, ATSOther, DetectATSSystem("https://jobs.acme.com/apply/42"))
}
