package jobrecord

// stopPrefixes are seniority/qualifier tokens stripped from the front of a
// title before fingerprinting, so "Sr. Python Developer" and "Python
// Developer" fold to the same normalized title when the rest of the record
// agrees. Ported from the seniority vocabulary in the original scraper's
// job filters.
var stopPrefixes = []string{
	"sr.", "sr", "senior",
	"jr.", "jr", "junior",
	"lead", "staff", "principal",
	"intern", "co-op", "coop",
}

// SeniorityLevel is the coarse classification Stage1 assigns from title
// tokens.
type SeniorityLevel string

const (
	SeniorityEntry     SeniorityLevel = "entry"
	SeniorityMid       SeniorityLevel = "mid"
	SenioritySenior    SeniorityLevel = "senior"
	SeniorityUnknown   SeniorityLevel = "unknown"
)

var seniorTokens = map[string]bool{
	"senior": true, "sr": true, "sr.": true,
	"staff": true, "principal": true, "lead": true,
	"architect": true, "director": true, "manager": true, "head": true,
}

var entryTokens = map[string]bool{
	"junior": true, "jr": true, "jr.": true,
	"intern": true, "internship": true, "entry": true,
	"graduate": true, "new-grad": true, "co-op": true, "coop": true,
	"associate": true,
}

// ClassifySeniority inspects the lowercased, tokenized title and returns a
// coarse level. Mid is returned when the title has tokens but none matches
// either vocabulary; Unknown is returned only for an empty title, and Stage1
// never counts Unknown as a seniority mismatch.
func ClassifySeniority(title string) SeniorityLevel {
	tokens := tokenize(title)
	for _, t := range tokens {
		if seniorTokens[t] {
			return SenioritySenior
		}
	}
	for _, t := range tokens {
		if entryTokens[t] {
			return SeniorityEntry
		}
	}
	if len(tokens) == 0 {
		return SeniorityUnknown
	}
	return SeniorityMid
}
