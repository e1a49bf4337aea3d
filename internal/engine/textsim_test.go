package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/legitsearch/platform/internal/engine"
)

func TestBioSimilarity_EmptyInput(t *testing.T) {
	assert.Equal(t, 0.0, engine.BioSimilarity("", "hello world"))
	assert.Equal(t, 0.0, engine.BioSimilarity("hello world", ""))
	assert.Equal(t, 0.0, engine.BioSimilarity("", ""))
}

func TestBioSimilarity_StopWordsOnly(t *testing.T) {
	// nothing survives stop-word removal
	assert.Equal(t, 0.0, engine.BioSimilarity("the and of", "hello world"))
}

func TestBioSimilarity_IdenticalTexts(t *testing.T) {
	bio := "I love hiking in the mountains and cooking italian food"
	assert.InDelta(t, 1.0, engine.BioSimilarity(bio, bio), 1e-9)
}

func TestBioSimilarity_DisjointTexts(t *testing.T) {
	sim := engine.BioSimilarity("quantum physics research", "salsa dancing weekends")
	assert.Equal(t, 0.0, sim)
}

func TestBioSimilarity_PartialOverlap(t *testing.T) {
	sim := engine.BioSimilarity(
		"hiking mountains photography",
		"hiking beaches photography",
	)
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)
}

func TestBioSimilarity_Symmetric(t *testing.T) {
	a := "guitar player looking for bandmates"
	b := "drummer who plays guitar sometimes"
	assert.InDelta(t, engine.BioSimilarity(a, b), engine.BioSimilarity(b, a), 1e-12)
}

func TestBioSimilarity_CaseAndPunctuationInsensitive(t *testing.T) {
	sim := engine.BioSimilarity("HIKING, photography!", "hiking photography")
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestBioSimilarity_AlwaysInRange(t *testing.T) {
	inputs := []string{"", "a", "!!!", "hello", "hello hello hello world", "the of and"}
	for _, a := range inputs {
		for _, b := range inputs {
			sim := engine.BioSimilarity(a, b)
			assert.GreaterOrEqual(t, sim, 0.0)
			assert.LessOrEqual(t, sim, 1.0)
		}
	}
}
