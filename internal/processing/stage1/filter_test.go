package stage1

import (
	"testing"

	"github.com/huntline/huntline/internal/jobrecord"
	"github.com/huntline/huntline/internal/profile"
	"github.com/stretchr/testify/assert"
)

func entryRemoteProfile() *profile.Profile {
	return &profile.Profile{
		Keywords:             []string{"python", "developer"},
		PreferredLocations:   []string{"toronto"},
		AllowRemote:          true,
		SeniorityPreferences: []string{"entry", "mid"},
	}
}

// TestTwoStageGatingScenario mirrors spec scenario 5: a senior, on-site
// record fails the gate while a junior, remote record passes it.
func TestTwoStageGatingScenario(t *testing.T) {
	e := NewEvaluator(DefaultThreshold)
	p := entryRemoteProfile()

	recordA := &jobrecord.JobRecord{
		Title:        "Senior Principal Architect",
		Location:     "New York, on-site",
		CanonicalURL: "https://jobs.acme.com/1",
		SourceSite:   "eluta",
	}
	resultA := e.Evaluate(recordA, p, false)
	assert.Less(t, resultA.Score, DefaultThreshold)
	assert.False(t, resultA.PassesGate)

	recordB := &jobrecord.JobRecord{
		Title:        "Junior Python Developer",
		Location:     "Remote",
		CanonicalURL: "https://jobs.acme.com/2",
		SourceSite:   "eluta",
	}
	resultB := e.Evaluate(recordB, p, false)
	assert.GreaterOrEqual(t, resultB.Score, DefaultThreshold)
	assert.True(t, resultB.PassesGate)
}

func TestEvaluateDropsInvalidCanonicalURL(t *testing.T) {
	e := NewEvaluator(DefaultThreshold)
	p := entryRemoteProfile()
	record := &jobrecord.JobRecord{Title: "Python Developer", CanonicalURL: ""}
	result := e.Evaluate(record, p, false)
	assert.False(t, result.PassesGate)
	assert.Contains(t, result.Reasons, "invalid_canonical_url")
}

func TestEvaluateDropsDuplicateFingerprint(t *testing.T) {
	e := NewEvaluator(DefaultThreshold)
	p := entryRemoteProfile()
	record := &jobrecord.JobRecord{Title: "Python Developer", CanonicalURL: "https://jobs.acme.com/1"}
	result := e.Evaluate(record, p, true)
	assert.False(t, result.PassesGate)
	assert.Contains(t, result.Reasons, "duplicate_fingerprint")
}

func TestEvaluateIsPurelyFunctional(t *testing.T) {
	e := NewEvaluator(DefaultThreshold)
	p := entryRemoteProfile()
	record := &jobrecord.JobRecord{Title: "Python Developer", Location: "Toronto", CanonicalURL: "https://jobs.acme.com/1"}
	r1 := e.Evaluate(record, p, false)
	r2 := e.Evaluate(record, p, false)
	assert.Equal(t, r1.Score, r2.Score)
	assert.Equal(t, r1.PassesGate, r2.PassesGate)
}
