package search

import (
	"math"
	"strings"

	"github.com/legitsearch/platform/internal/engine"
)

// MinRelevance is the floor below which search results are dropped.
const MinRelevance = 0.1

const (
	bioWeight      = 0.4
	interestWeight = 0.3
	skillWeight    = 0.2
	cityWeight     = 0.1
)

// Relevance scores a profile against a parsed query in [0, 1].
//
// Contributions are independent and optional: bio word overlap (capped
// at 0.4), detected topics matched against interest names (0.3 split
// evenly across topics), detected topics matched against skill names
// (0.2, same split — the skill term reuses the interest topic list),
// and a city substring match (0.1). The sum is clamped to 1.0.
func Relevance(query string, p *engine.Profile, c Criteria) float64 {
	score := 0.0

	queryWords := wordSet(query)
	if p.Bio != nil && len(queryWords) > 0 {
		bioWords := wordSet(*p.Bio)
		common := 0
		for w := range queryWords {
			if _, ok := bioWords[w]; ok {
				common++
			}
		}
		if common > 0 {
			score += math.Min(bioWeight, float64(common)/float64(len(queryWords)))
		}
	}

	if len(c.Topics) > 0 {
		split := float64(len(c.Topics))

		interests := nameSet(p.Interests)
		for _, topic := range c.Topics {
			if _, ok := interests[topic]; ok {
				score += interestWeight / split
			}
		}

		skills := nameSet(p.Skills)
		for _, topic := range c.Topics {
			if _, ok := skills[topic]; ok {
				score += skillWeight / split
			}
		}
	}

	if c.City != "" && p.City != nil {
		if strings.Contains(strings.ToLower(*p.City), strings.ToLower(c.City)) {
			score += cityWeight
		}
	}

	return math.Min(1.0, score)
}

func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}
