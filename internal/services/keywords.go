package services

import (
	"context"
	"strings"
	"unicode"
)

var positiveKeywords = map[string]struct{}{
	"happy": {}, "good": {}, "great": {}, "better": {}, "hopeful": {}, "safe": {},
	"grateful": {}, "thankful": {}, "relieved": {}, "calm": {}, "supported": {},
	"strong": {}, "love": {}, "glad": {}, "proud": {}, "peaceful": {},
}

var negativeKeywords = map[string]struct{}{
	"sad": {}, "bad": {}, "hurt": {}, "scared": {}, "afraid": {}, "angry": {},
	"alone": {}, "hopeless": {}, "anxious": {}, "depressed": {}, "ashamed": {},
	"guilty": {}, "unsafe": {}, "terrible": {}, "worthless": {}, "pain": {},
}

const keywordScore = 0.3

// KeywordScorer is the degraded scorer used when no NLP provider is wanted.
// No keyword match is neutral; a text matching both sets counts as positive.
type KeywordScorer struct{}

func (KeywordScorer) ScoreSentiment(_ context.Context, text string) (Score, error) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	var pos, neg int
	for _, w := range words {
		if _, ok := positiveKeywords[w]; ok {
			pos++
		}
		if _, ok := negativeKeywords[w]; ok {
			neg++
		}
	}

	switch {
	case pos == 0 && neg == 0:
		return Score{}, nil
	case pos > 0:
		return Score{Score: keywordScore, Magnitude: float64(pos + neg)}, nil
	default:
		return Score{Score: -keywordScore, Magnitude: float64(neg)}, nil
	}
}
