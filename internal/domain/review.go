package domain

import (
	"fmt"
	"time"
)

// Tag vocabularies. Stored values always come from these sets; anything else
// is rejected before it reaches storage.
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"

	PerformanceFast    = "Fast"
	PerformanceAverage = "Average"
	PerformanceSlow    = "Slow"

	AccuracyAccurate  = "Order Accurate"
	AccuracyMistake   = "Order Mistake"
	AccuracyIncorrect = "Incorrect"
)

type Review struct {
	ID                    int64     `json:"id"`
	AgentName             string    `json:"agentName"`
	Rating                float64   `json:"rating"`
	ReviewText            string    `json:"reviewText"`
	DeliveryTime          float64   `json:"deliveryTime"` // minutes
	Location              string    `json:"location"`
	OrderType             string    `json:"orderType"`
	PriceRange            string    `json:"priceRange"`
	DiscountApplied       bool      `json:"discountApplied"`
	ProductAvailability   string    `json:"productAvailability"`
	CustomerServiceRating float64   `json:"customerServiceRating"`
	OrderAccuracy         string    `json:"orderAccuracy"` // free text, classifier input
	CustomerFeedbackType  string    `json:"customerFeedbackType"`
	Sentiment             string    `json:"sentiment"`
	Performance           string    `json:"performance"`
	Accuracy              string    `json:"accuracy"`
	DiscountRange         string    `json:"discountRange,omitempty"` // optional analytics attribute
	ComplaintType         string    `json:"complaintType,omitempty"` // optional analytics attribute
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// ApplyDefaultTags fills any unset classification axis. A Review constructed
// without explicit tags carries {Neutral, Average, Order Accurate}.
func (r *Review) ApplyDefaultTags() {
	if r.Sentiment == "" {
		r.Sentiment = SentimentNeutral
	}
	if r.Performance == "" {
		r.Performance = PerformanceAverage
	}
	if r.Accuracy == "" {
		r.Accuracy = AccuracyAccurate
	}
}

// UpdatableTagFields is the whitelist for the tag-update operation. Keys not
// in this set are dropped before validation.
var UpdatableTagFields = []string{"sentiment", "accuracy", "performance", "customerFeedbackType"}

// TagValidationRules maps each updatable field to its accepted values.
var TagValidationRules = map[string][]string{
	"sentiment":            {SentimentPositive, SentimentNeutral, SentimentNegative},
	"accuracy":             {AccuracyAccurate, AccuracyIncorrect},
	"performance":          {PerformanceFast, PerformanceAverage, PerformanceSlow},
	"customerFeedbackType": {SentimentPositive, SentimentNeutral, SentimentNegative},
}

// storedAccuracy additionally admits the classifier's "Order Mistake" so rows
// tagged at ingestion are never rejected by their own vocabulary.
var storedAccuracy = []string{AccuracyAccurate, AccuracyMistake, AccuracyIncorrect}

func ValidStoredAccuracy(v string) bool {
	return inSet(storedAccuracy, v)
}

// ValidateTags guards the storage boundary: a value outside its enumeration is
// rejected, never silently stored.
func (r Review) ValidateTags() error {
	if !inSet(TagValidationRules["sentiment"], r.Sentiment) {
		return fmt.Errorf("sentiment %q outside enumeration", r.Sentiment)
	}
	if !inSet(TagValidationRules["performance"], r.Performance) {
		return fmt.Errorf("performance %q outside enumeration", r.Performance)
	}
	if !ValidStoredAccuracy(r.Accuracy) {
		return fmt.Errorf("accuracy %q outside enumeration", r.Accuracy)
	}
	if !inSet(TagValidationRules["customerFeedbackType"], r.CustomerFeedbackType) {
		return fmt.Errorf("customerFeedbackType %q outside enumeration", r.CustomerFeedbackType)
	}
	return nil
}

func inSet(vals []string, v string) bool {
	for _, x := range vals {
		if v == x {
			return true
		}
	}
	return false
}

// ReviewProjection is the list-endpoint read model.
type ReviewProjection struct {
	ID                   int64     `json:"id"`
	AgentName            string    `json:"agentName"`
	ReviewText           string    `json:"reviewText"`
	Sentiment            string    `json:"sentiment"`
	Accuracy             string    `json:"accuracy"`
	Performance          string    `json:"performance"`
	CustomerFeedbackType string    `json:"customerFeedbackType"`
	CreatedAt            time.Time `json:"createdAt"`
}

func (r Review) Project() ReviewProjection {
	return ReviewProjection{
		ID:                   r.ID,
		AgentName:            r.AgentName,
		ReviewText:           r.ReviewText,
		Sentiment:            r.Sentiment,
		Accuracy:             r.Accuracy,
		Performance:          r.Performance,
		CustomerFeedbackType: r.CustomerFeedbackType,
		CreatedAt:            r.CreatedAt,
	}
}
