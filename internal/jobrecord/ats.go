package jobrecord

import "strings"

// atsPatterns mirrors the host-substring table used to tag a canonical URL
// with its applicant-tracking-system family: first match wins, in
// declaration order.
var atsPatterns = []struct {
	system   ATSSystem
	patterns []string
}{
	{ATSWorkday, []string{"myworkdayjobs.com", "workday.com", "wd3.myworkdayjobs.com", "workdayjobs.com"}},
	{ATSIcims, []string{"icims.com"}},
	{ATSGreenhouse, []string{"greenhouse.io"}},
	{ATSLever, []string{"lever.co"}},
	{ATSBambooHR, []string{"bamboohr.com"}},
}

// DetectATSSystem tags a canonical URL with its ATS family, returning
// ATSOther when the URL resolves but matches no known family, and
// ATSUnknown when the URL is empty.
func DetectATSSystem(canonicalURL string) ATSSystem {
	if canonicalURL == "" {
		return ATSUnknown
	}
	lower := strings.ToLower(canonicalURL)
	for _, entry := range atsPatterns {
		for _, p := range entry.patterns {
			if strings.Contains(lower, p) {
				return entry.system
			}
		}
	}
	return ATSOther
}
