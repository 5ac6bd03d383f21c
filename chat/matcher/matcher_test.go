package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-bot-demo/backend/knowledge/models"
)

func TestSimilarityIdenticalStrings(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("return policy", "return policy"))
	assert.Equal(t, 1.0, Similarity("Return Policy", "return POLICY"))
	assert.Equal(t, 1.0, Similarity("x", "X"))
}

func TestSimilarityEmptyStrings(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "return policy"))
	assert.Equal(t, 0.0, Similarity("return policy", ""))
	assert.Equal(t, 0.0, Similarity("", ""))
}

func TestSimilarityNoOverlap(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
}

func TestSimilarityRange(t *testing.T) {
	pairs := [][2]string{
		{"where is my order", "track my order"},
		{"refund", "return policy"},
		{"hola", "hello"},
		{"do you ship internationally", "shipping costs"},
		{"a", "ab"},
	}
	for _, p := range pairs {
		score := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, score, 0.0, "pair %q/%q", p[0], p[1])
		assert.LessOrEqual(t, score, 1.0, "pair %q/%q", p[0], p[1])
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	assert.Equal(t,
		Similarity("where is my order", "track my order"),
		Similarity("track my order", "where is my order"))
}

func TestClassifyEmptyPools(t *testing.T) {
	result := Classify("anything at all", nil, nil)
	noMatch, ok := result.(NoMatch)
	require.True(t, ok)
	assert.Equal(t, 0.0, noMatch.Confidence())
}

func TestClassifyExactPhraseMatch(t *testing.T) {
	intents := []models.Intent{
		{ID: 1, Name: "track_order", Phrases: models.StringList{"where is my order"}, Response: "Let me check on that."},
	}

	result := Classify("Where Is My Order", intents, nil)
	match, ok := result.(IntentMatch)
	require.True(t, ok)
	assert.Equal(t, 1.0, match.Score)
	assert.Equal(t, "track_order", match.Intent.Name)
	assert.Equal(t, "where is my order", match.Phrase)
}

func TestClassifyFaqWhenNoIntentClears(t *testing.T) {
	intents := []models.Intent{
		{ID: 1, Name: "track_order", Phrases: models.StringList{"where is my order"}},
	}
	faqs := []models.Faq{
		{ID: 1, Question: "return policy", Answer: "30 days, no questions asked."},
	}

	result := Classify("what is your return policy", intents, faqs)
	match, ok := result.(FaqMatch)
	require.True(t, ok)
	assert.Greater(t, match.Score, DefaultThreshold)
	assert.Equal(t, "30 days, no questions asked.", match.Faq.Answer)
}

func TestClassifyIntentBeatsEqualFaq(t *testing.T) {
	// Identical text in both pools scores 1.0 on each side; the intent
	// phase runs first and wins unconditionally.
	intents := []models.Intent{
		{ID: 1, Name: "shipping", Phrases: models.StringList{"shipping costs"}},
	}
	faqs := []models.Faq{
		{ID: 1, Question: "shipping costs", Answer: "Free over $50."},
	}

	result := Classify("shipping costs", intents, faqs)
	_, ok := result.(IntentMatch)
	assert.True(t, ok)
}

func TestClassifyStableArgmaxOnTies(t *testing.T) {
	intents := []models.Intent{
		{ID: 1, Name: "first", Phrases: models.StringList{"cancel my order"}},
		{ID: 2, Name: "second", Phrases: models.StringList{"cancel my order"}},
	}

	result := Classify("cancel my order", intents, nil)
	match, ok := result.(IntentMatch)
	require.True(t, ok)
	assert.Equal(t, "first", match.Intent.Name)
}

func TestClassifyNoMatchBelowThreshold(t *testing.T) {
	intents := []models.Intent{
		{ID: 1, Name: "track_order", Phrases: models.StringList{"where is my order"}},
	}
	faqs := []models.Faq{
		{ID: 1, Question: "return policy", Answer: "30 days."},
	}

	result := Classify("qqqq zzzz", intents, faqs)
	noMatch, ok := result.(NoMatch)
	require.True(t, ok)
	assert.LessOrEqual(t, noMatch.Score, DefaultThreshold)
}

func TestClassifyNoMatchKeepsBestScore(t *testing.T) {
	faqs := []models.Faq{
		{ID: 1, Question: "return policy", Answer: "30 days."},
	}

	// Some bigram overlap but not enough to clear the threshold.
	result := Classify("return the thing", nil, faqs)
	noMatch, ok := result.(NoMatch)
	require.True(t, ok)
	assert.Greater(t, noMatch.Score, 0.0)
	assert.LessOrEqual(t, noMatch.Score, DefaultThreshold)
}

func TestClassifyThresholdIsStrict(t *testing.T) {
	// Similarity("night", "nacht") shares exactly one bigram out of eight,
	// scoring 0.25. A threshold equal to the score must reject it.
	score := Similarity("night", "nacht")
	require.Equal(t, 0.25, score)

	faqs := []models.Faq{{ID: 1, Question: "nacht", Answer: "n/a"}}

	result := ClassifyWithThreshold("night", nil, faqs, 0.25)
	_, ok := result.(NoMatch)
	assert.True(t, ok)

	result = ClassifyWithThreshold("night", nil, faqs, 0.2)
	_, ok = result.(FaqMatch)
	assert.True(t, ok)
}

func TestClassifyIsPure(t *testing.T) {
	intents := []models.Intent{
		{ID: 1, Name: "track_order", Phrases: models.StringList{"where is my order", "track my order"}},
	}
	faqs := []models.Faq{
		{ID: 1, Question: "return policy", Answer: "30 days."},
	}

	first := Classify("where is my order", intents, faqs)
	second := Classify("where is my order", intents, faqs)
	assert.Equal(t, first, second)
}
