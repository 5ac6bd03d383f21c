// Package matcher scores a user utterance against the knowledge base and
// picks a single best classification. It is pure: no I/O, no hidden state,
// identical inputs always produce identical results.
package matcher

import (
	"strings"

	"support-bot-demo/backend/knowledge/models"
)

// DefaultThreshold is the minimum confidence a candidate must strictly
// exceed to be accepted instead of falling back to the escalation offer.
const DefaultThreshold = 0.6

// Result is the classification outcome: exactly one of IntentMatch,
// FaqMatch or NoMatch. The marker method keeps the set closed so callers
// can switch exhaustively.
type Result interface {
	Confidence() float64
	result()
}

// IntentMatch means a trigger phrase of an active intent cleared the
// threshold. Phrase is the pool entry that produced the score.
type IntentMatch struct {
	Intent *models.Intent
	Phrase string
	Score  float64
}

// FaqMatch means no intent cleared the threshold but an FAQ question did.
type FaqMatch struct {
	Faq   *models.Faq
	Score float64
}

// NoMatch means nothing cleared the threshold. Score is the best score
// observed across both phases, kept for confidence reporting.
type NoMatch struct {
	Score float64
}

func (m IntentMatch) result() {}
func (m FaqMatch) result()    {}
func (m NoMatch) result()     {}

func (m IntentMatch) Confidence() float64 { return m.Score }
func (m FaqMatch) Confidence() float64    { return m.Score }
func (m NoMatch) Confidence() float64     { return m.Score }

// Classify scores the utterance with the default threshold
func Classify(utterance string, intents []models.Intent, faqs []models.Faq) Result {
	return ClassifyWithThreshold(utterance, intents, faqs, DefaultThreshold)
}

// ClassifyWithThreshold runs the two-phase classification. Intents are
// scored first, one pool entry per trigger phrase in declaration order; an
// intent strictly above the threshold wins unconditionally, whatever FAQ
// matching would have produced. FAQ questions are only consulted when the
// intent phase fails. Ties keep the first-encountered entry (stable argmax).
func ClassifyWithThreshold(utterance string, intents []models.Intent, faqs []models.Faq, threshold float64) Result {
	if len(intents) == 0 && len(faqs) == 0 {
		return NoMatch{Score: 0}
	}

	bestIntentScore := 0.0
	var bestIntent *models.Intent
	bestPhrase := ""

	for i := range intents {
		for _, phrase := range intents[i].Phrases {
			score := Similarity(utterance, phrase)
			if score > bestIntentScore {
				bestIntentScore = score
				bestIntent = &intents[i]
				bestPhrase = phrase
			}
		}
	}

	if bestIntent != nil && bestIntentScore > threshold {
		return IntentMatch{Intent: bestIntent, Phrase: bestPhrase, Score: bestIntentScore}
	}

	bestFaqScore := 0.0
	var bestFaq *models.Faq

	for i := range faqs {
		score := Similarity(utterance, faqs[i].Question)
		if score > bestFaqScore {
			bestFaqScore = score
			bestFaq = &faqs[i]
		}
	}

	if bestFaq != nil && bestFaqScore > threshold {
		return FaqMatch{Faq: bestFaq, Score: bestFaqScore}
	}

	best := bestIntentScore
	if bestFaqScore > best {
		best = bestFaqScore
	}
	return NoMatch{Score: best}
}

// Similarity computes the Dice coefficient over case-folded character
// bigrams. 1.0 means identical (case-insensitive), 0 means no overlap.
// Empty strings score 0 against everything.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if a == b {
		return 1.0
	}

	bigramsA := bigrams(a)
	bigramsB := bigrams(b)

	if len(bigramsA) == 0 || len(bigramsB) == 0 {
		return 0
	}

	intersection := 0
	small, large := bigramsA, bigramsB
	if len(small) > len(large) {
		small, large = large, small
	}
	for bg, countSmall := range small {
		if countLarge, ok := large[bg]; ok {
			if countSmall < countLarge {
				intersection += countSmall
			} else {
				intersection += countLarge
			}
		}
	}

	totalA := 0
	for _, n := range bigramsA {
		totalA += n
	}
	totalB := 0
	for _, n := range bigramsB {
		totalB += n
	}

	return 2.0 * float64(intersection) / float64(totalA+totalB)
}

// bigrams returns the multiset of adjacent rune pairs in s
func bigrams(s string) map[string]int {
	runes := []rune(s)
	set := make(map[string]int, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])]++
	}
	return set
}
