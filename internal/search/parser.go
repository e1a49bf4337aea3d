// Package search implements the natural-language people search:
// heuristic criteria extraction from free-text queries and a relevance
// scorer over profiles.
package search

import (
	"strings"
)

// Criteria is the structured filter extracted from a query.
type Criteria struct {
	City   string // lower-cased; "" when not detected
	MinAge *int
	MaxAge *int
	Topics []string
}

var cityKeywords = map[string]struct{}{
	"in": {}, "from": {}, "city": {}, "location": {},
}

var ageKeywords = map[string]struct{}{
	"age": {}, "old": {},
}

// topicTriggers maps a topic to the substrings that activate it. Order
// is fixed so detected topics come out deterministically.
var topicTriggers = []struct {
	topic    string
	triggers []string
}{
	{"music", []string{"music", "musician", "singer", "guitar", "piano"}},
	{"sports", []string{"sports", "football", "basketball", "tennis", "running"}},
	{"art", []string{"art", "painting", "drawing", "design", "creative"}},
	{"technology", []string{"tech", "programming", "coding", "developer", "software"}},
	{"business", []string{"business", "entrepreneur", "startup", "marketing"}},
	{"education", []string{"teacher", "student", "education", "learning"}},
	{"fitness", []string{"fitness", "gym", "workout", "yoga", "exercise"}},
}

// ParseQuery extracts search criteria from a raw natural-language
// query using whitespace-tokenized, lower-cased scanning.
//
// City: the token following the first locative keyword, trailing
// punctuation stripped. Age: the first purely numeric token within
// ±2 tokens of an age keyword; <18 becomes a lower bound only, >65 an
// upper bound only, otherwise a ±5 symmetric range. Topics: any topic
// whose trigger appears as a substring anywhere in the query.
func ParseQuery(raw string) Criteria {
	query := strings.ToLower(raw)
	words := strings.Fields(query)
	c := Criteria{}

	// city: first keyword hit wins
	for i, w := range words {
		if _, ok := cityKeywords[w]; ok && i+1 < len(words) {
			c.City = strings.Trim(words[i+1], ".,!?")
			break
		}
	}

	// age: first numeric token near an age keyword wins
ageScan:
	for i, w := range words {
		if _, ok := ageKeywords[w]; !ok {
			continue
		}
		lo := i - 2
		if lo < 0 {
			lo = 0
		}
		hi := i + 2
		if hi > len(words)-1 {
			hi = len(words) - 1
		}
		for j := lo; j <= hi; j++ {
			age, ok := numeric(words[j])
			if !ok {
				continue
			}
			switch {
			case age < 18:
				min := age
				c.MinAge = &min
			case age > 65:
				max := age
				c.MaxAge = &max
			default:
				min, max := age-5, age+5
				c.MinAge = &min
				c.MaxAge = &max
			}
			break ageScan
		}
	}

	// topics: substring triggers against the whole query
	for _, t := range topicTriggers {
		for _, trig := range t.triggers {
			if strings.Contains(query, trig) {
				c.Topics = append(c.Topics, t.topic)
				break
			}
		}
	}

	return c
}

// numeric parses a purely-digit token.
func numeric(tok string) (int, bool) {
	if tok == "" {
		return 0, false
	}
	n := 0
	for _, r := range tok {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
