package app

import (
	"fmt"
	"strconv"
	"strings"

	"delivery_reviews/internal/classify"
	"delivery_reviews/internal/domain"
)

// Upload column names, fixed by the CSV template.
const (
	colAgentName     = "Agent Name"
	colRating        = "Rating"
	colReviewText    = "Review Text"
	colDeliveryTime  = "Delivery Time (min)"
	colLocation      = "Location"
	colOrderType     = "Order Type"
	colFeedbackType  = "Customer Feedback Type"
	colPriceRange    = "Price Range"
	colDiscount      = "Discount Applied"
	colAvailability  = "Product Availability"
	colServiceRating = "Customer Service Rating"
	colOrderAccuracy = "Order Accuracy"
)

// Row is one raw ingestion row: column name -> textual value.
type Row map[string]string

// TransformRow maps a raw row into a canonical pre-insert Review, applying the
// classifier tags at construction. A non-numeric value in a numeric column
// fails the row; it is never stored as NaN.
func TransformRow(cl *classify.Classifier, row Row) (domain.Review, error) {
	rating, err := parseNumber(row, colRating)
	if err != nil {
		return domain.Review{}, err
	}
	deliveryTime, err := parseNumber(row, colDeliveryTime)
	if err != nil {
		return domain.Review{}, err
	}
	serviceRating, err := parseNumber(row, colServiceRating)
	if err != nil {
		return domain.Review{}, err
	}

	feedback := strings.TrimSpace(row[colFeedbackType])
	switch feedback {
	case domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative:
	case "":
		feedback = domain.SentimentNeutral // missing feedback takes the construction default
	default:
		return domain.Review{}, fmt.Errorf("column %q: value %q outside enumeration", colFeedbackType, feedback)
	}

	tags := cl.Tag(row[colReviewText], deliveryTime, row[colOrderAccuracy])

	rv := domain.Review{
		AgentName:             row[colAgentName],
		Rating:                rating,
		ReviewText:            row[colReviewText],
		DeliveryTime:          deliveryTime,
		Location:              row[colLocation],
		OrderType:             row[colOrderType],
		PriceRange:            row[colPriceRange],
		DiscountApplied:       strings.TrimSpace(row[colDiscount]) == "Yes",
		ProductAvailability:   row[colAvailability],
		CustomerServiceRating: serviceRating,
		OrderAccuracy:         row[colOrderAccuracy],
		CustomerFeedbackType:  feedback,
		Sentiment:             tags.Sentiment,
		Performance:           tags.Performance,
		Accuracy:              tags.Accuracy,
	}
	rv.ApplyDefaultTags()
	return rv, nil
}

// parseNumber accepts "8,0" as well as "8.0"; upload sources disagree on the
// decimal separator.
func parseNumber(row Row, col string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(row[col], ",", "."))
	if s == "" {
		return 0, fmt.Errorf("column %q: empty numeric value", col)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: not a number: %q", col, row[col])
	}
	return f, nil
}
