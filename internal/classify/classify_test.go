package classify_test

import (
	"testing"

	"delivery_reviews/internal/classify"
)

func TestPerformance_Boundaries(t *testing.T) {
	cases := []struct {
		minutes float64
		want    string
	}{
		{10, "Fast"},
		{30, "Fast"},
		{31, "Average"},
		{60, "Average"},
		{61, "Slow"},
		{120, "Slow"},
	}
	for _, c := range cases {
		if got := classify.Performance(c.minutes); got != c.want {
			t.Errorf("Performance(%v) = %s, want %s", c.minutes, got, c.want)
		}
	}
}

func TestAccuracy(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Customer reported a mistake", "Order Mistake"},
		{"BIG MISTAKE on the order", "Order Mistake"},
		{"All correct", "Order Accurate"},
		{"", "Order Accurate"},
	}
	for _, c := range cases {
		if got := classify.Accuracy(c.in); got != c.want {
			t.Errorf("Accuracy(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestSentiment_Thresholds(t *testing.T) {
	cl := classify.New(nil)

	cases := []struct {
		text string
		want string
	}{
		{"Absolutely amazing food, great service", "Positive"}, // 4 + 3 > 2
		{"The rider was on time", "Neutral"},                   // no lexicon hits
		{"", "Neutral"},
		{"good", "Positive"},                    // 3 > 2
		{"quick", "Neutral"},                    // 1 in [-2,2]
		{"terrible, cold and soggy", "Negative"}, // -3 -1 -2 < -2
	}
	for _, c := range cases {
		if got := cl.Sentiment(c.text); got != c.want {
			t.Errorf("Sentiment(%q) = %s, want %s (score %d)", c.text, got, c.want, cl.Score(c.text))
		}
	}
}

func TestSentiment_CustomLexicon(t *testing.T) {
	cl := classify.New(classify.Lexicon{"meh": -5})
	if got := cl.Sentiment("meh"); got != "Negative" {
		t.Fatalf("custom lexicon not honored, got %s", got)
	}
}

func TestTag_AllAxes(t *testing.T) {
	cl := classify.New(nil)
	tags := cl.Tag("terrible cold soggy mess", 75, "they made a mistake")
	if tags.Sentiment != "Negative" || tags.Performance != "Slow" || tags.Accuracy != "Order Mistake" {
		t.Fatalf("unexpected tags: %+v", tags)
	}
}
