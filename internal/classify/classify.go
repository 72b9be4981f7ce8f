// Package classify assigns the three review tags (sentiment, delivery
// performance, order accuracy) from raw review fields. All functions are pure
// and total: every input, including empty text, yields a value.
package classify

import (
	"strings"
	"unicode"

	"delivery_reviews/internal/domain"
)

type Tags struct {
	Sentiment   string
	Performance string
	Accuracy    string
}

type Classifier struct {
	lex Lexicon
}

func New(lex Lexicon) *Classifier {
	if lex == nil {
		lex = DefaultLexicon
	}
	return &Classifier{lex: lex}
}

// Tag classifies one review along all three axes.
func (c *Classifier) Tag(reviewText string, deliveryMinutes float64, orderAccuracyText string) Tags {
	return Tags{
		Sentiment:   c.Sentiment(reviewText),
		Performance: Performance(deliveryMinutes),
		Accuracy:    Accuracy(orderAccuracyText),
	}
}

// Sentiment thresholds the lexicon polarity score:
// score > 2 Positive, -2 <= score <= 2 Neutral, score < -2 Negative.
func (c *Classifier) Sentiment(text string) string {
	score := c.Score(text)
	switch {
	case score > 2:
		return domain.SentimentPositive
	case score >= -2:
		return domain.SentimentNeutral
	default:
		return domain.SentimentNegative
	}
}

// Score sums lexicon weights over lowercased tokens; unmatched tokens add 0.
func (c *Classifier) Score(text string) int {
	score := 0
	for _, tok := range tokenize(text) {
		score += c.lex[tok]
	}
	return score
}

// Performance buckets delivery time in minutes. Boundaries are inclusive on
// the lower bucket: 30 is Fast, 60 is Average.
func Performance(minutes float64) string {
	switch {
	case minutes <= 30:
		return domain.PerformanceFast
	case minutes <= 60:
		return domain.PerformanceAverage
	default:
		return domain.PerformanceSlow
	}
}

// Accuracy looks for the token "mistake" case-insensitively. Empty or missing
// text classifies as accurate.
func Accuracy(orderAccuracyText string) string {
	if strings.Contains(strings.ToLower(orderAccuracyText), "mistake") {
		return domain.AccuracyMistake
	}
	return domain.AccuracyAccurate
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}
