// Package engine implements the compatibility scoring and ranking core:
// a deterministic weighted similarity over interests, skills, age,
// location and free-text bios, plus match creation on top of it.
package engine

import (
	"math"
	"sort"
	"strings"
)

// Weights holds the factor weights of the compatibility formula. They
// sum to 1.0; each factor only contributes when both profiles carry
// the required fields.
type Weights struct {
	Interests float64
	Skills    float64
	Age       float64
	Location  float64
	Bio       float64
}

// DefaultWeights is the production scoring configuration.
var DefaultWeights = Weights{
	Interests: 0.4,
	Skills:    0.3,
	Age:       0.1,
	Location:  0.1,
	Bio:       0.1,
}

// ageSpread is the age difference (in years) at which the age factor
// bottoms out at zero.
const ageSpread = 20.0

// Engine scores profile pairs and ranks candidate pools. It is an
// immutable value and safe for concurrent use; every bio similarity
// computation builds its vector space fresh from the two documents.
type Engine struct {
	weights Weights
}

// New returns an engine with the default weights.
func New() Engine {
	return Engine{weights: DefaultWeights}
}

// NewWithWeights returns an engine with custom weights.
func NewWithWeights(w Weights) Engine {
	return Engine{weights: w}
}

// CalculateCompatibility returns a deterministic score in [0, 1] for
// the pair. Absent optional data contributes zero; the function never
// fails on partial profiles. The score is symmetric in its arguments.
func (e Engine) CalculateCompatibility(a, b *Profile) float64 {
	score := 0.0

	// Shared interests: Jaccard over case-folded name sets.
	ai, bi := foldSet(a.Interests), foldSet(b.Interests)
	if len(ai) > 0 || len(bi) > 0 {
		score += jaccard(ai, bi) * e.weights.Interests
	}

	// Shared skills.
	as, bs := foldSet(a.Skills), foldSet(b.Skills)
	if len(as) > 0 || len(bs) > 0 {
		score += jaccard(as, bs) * e.weights.Skills
	}

	// Age: linear falloff, zero beyond ageSpread years apart.
	if a.Age != nil && b.Age != nil {
		diff := math.Abs(float64(*a.Age - *b.Age))
		score += math.Max(0, 1-diff/ageSpread) * e.weights.Age
	}

	// Location: same city scores full, different city half.
	if a.City != nil && b.City != nil {
		loc := 0.5
		if strings.EqualFold(*a.City, *b.City) {
			loc = 1.0
		}
		score += loc * e.weights.Location
	}

	// Bio: pairwise TF-IDF cosine. Degenerate inputs score zero and
	// never propagate an error.
	if a.Bio != nil && b.Bio != nil {
		score += BioSimilarity(*a.Bio, *b.Bio) * e.weights.Bio
	}

	return math.Min(1.0, score)
}

// Recommendation is a candidate decorated with its computed score and
// the shared interest/skill names that contributed to it.
type Recommendation struct {
	UserID             uint64   `json:"user_id"`
	FirstName          string   `json:"first_name"`
	LastName           string   `json:"last_name"`
	Age                *int     `json:"age"`
	City               *string  `json:"city"`
	Bio                *string  `json:"bio"`
	ProfilePicture     *string  `json:"profile_picture"`
	CompatibilityScore float64  `json:"compatibility_score"`
	CommonInterests    []string `json:"common_interests"`
	CommonSkills       []string `json:"common_skills"`
}

// RankCandidates scores every complete candidate against the target,
// sorts descending by score (stable on input order for ties) and
// truncates to limit. Incomplete candidates are skipped, not scored
// as zero.
func (e Engine) RankCandidates(target *Profile, candidates []*Profile, limit int) []Recommendation {
	recs := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || !c.Complete {
			continue
		}
		recs = append(recs, Recommendation{
			UserID:             c.UserID,
			FirstName:          c.FirstName,
			LastName:           c.LastName,
			Age:                c.Age,
			City:               c.City,
			Bio:                c.Bio,
			ProfilePicture:     c.ProfilePicture,
			CompatibilityScore: e.CalculateCompatibility(target, c),
			CommonInterests:    commonNames(target.Interests, c.Interests),
			CommonSkills:       commonNames(target.Skills, c.Skills),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CompatibilityScore > recs[j].CompatibilityScore
	})

	if limit >= 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// jaccard returns |A∩B| / |A∪B|, zero when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	common := 0
	for k := range a {
		if _, ok := b[k]; ok {
			common++
		}
	}
	union := len(a) + len(b) - common
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

func lower(s string) string { return strings.ToLower(s) }
