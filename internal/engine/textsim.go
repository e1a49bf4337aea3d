package engine

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// maxFeatures bounds the vocabulary of the pairwise vector space.
const maxFeatures = 1000

// BioSimilarity computes the cosine similarity of TF-IDF vectors built
// over exactly the two given documents. The vector space is local to
// the call: IDF is scoped to this 2-document corpus on purpose.
//
// Degenerate inputs (empty text after stop-word removal, zero-norm
// vectors) return 0.0; the function never fails.
func BioSimilarity(a, b string) float64 {
	ta := tokenize(a)
	tb := tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	vocab := buildVocab(ta, tb)
	if len(vocab) == 0 {
		return 0
	}

	va := vectorize(ta, vocab)
	vb := vectorize(tb, vocab)

	// smoothed IDF over the 2-document corpus: ln((1+n)/(1+df)) + 1
	for term, idx := range vocab {
		df := 0.0
		if hasTerm(ta, term) {
			df++
		}
		if hasTerm(tb, term) {
			df++
		}
		idf := math.Log(3.0/(1.0+df)) + 1
		va[idx] *= idf
		vb[idx] *= idf
	}

	return cosine(va, vb)
}

// tokenize lower-cases, splits on non-alphanumeric runs, and drops
// stop words and single-character tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// buildVocab maps terms to vector indices, keeping at most maxFeatures
// terms ranked by total frequency (ties broken alphabetically).
func buildVocab(docs ...[]string) map[string]int {
	counts := make(map[string]int)
	for _, doc := range docs {
		for _, t := range doc {
			counts[t]++
		}
	}

	terms := make([]string, 0, len(counts))
	for t := range counts {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}
	return vocab
}

func vectorize(tokens []string, vocab map[string]int) []float64 {
	vec := make([]float64, len(vocab))
	for _, t := range tokens {
		if idx, ok := vocab[t]; ok {
			vec[idx]++
		}
	}
	return vec
}

func hasTerm(tokens []string, term string) bool {
	for _, t := range tokens {
		if t == term {
			return true
		}
	}
	return false
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// stopWords is a compact English stop-word list; matches the intent of
// the vectorizer's built-in english filter.
var stopWords = func() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am",
		"an", "and", "any", "are", "as", "at", "be", "because", "been",
		"before", "being", "below", "between", "both", "but", "by",
		"can", "could", "did", "do", "does", "doing", "down", "during",
		"each", "few", "for", "from", "further", "had", "has", "have",
		"having", "he", "her", "here", "hers", "him", "his", "how", "i",
		"if", "in", "into", "is", "it", "its", "just", "me", "more",
		"most", "my", "no", "nor", "not", "now", "of", "off", "on",
		"once", "only", "or", "other", "our", "ours", "out", "over",
		"own", "same", "she", "should", "so", "some", "such", "than",
		"that", "the", "their", "theirs", "them", "then", "there",
		"these", "they", "this", "those", "through", "to", "too",
		"under", "until", "up", "very", "was", "we", "were", "what",
		"when", "where", "which", "while", "who", "whom", "why", "will",
		"with", "you", "your", "yours",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()
