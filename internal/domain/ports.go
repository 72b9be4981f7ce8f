package domain

import "context"

type ReviewRepository interface {
	// Write paths
	InsertReviews(ctx context.Context, rs []Review) error
	UpdateTags(ctx context.Context, id int64, fields map[string]string) (Review, error)

	// Read paths
	GetReview(ctx context.Context, id int64) (Review, error)
	ListReviews(ctx context.Context, q ReviewsQuery) (ReviewsPage, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ReviewsQuery is an offset-paginated, filtered, sorted read. Sort must be one
// of the allow-listed fields; the façade normalizes it before the repo sees it.
type ReviewsQuery struct {
	Location       *string
	OrderType      *string
	ServiceRating  *float64
	Page           int    // 1-based
	Limit          int
	Sort           string // createdAt|updatedAt
	OrderAscending bool
}

func (q ReviewsQuery) Offset() int { return (q.Page - 1) * q.Limit }

type ReviewsPage struct {
	Items []Review
	Total int64
}

// Pagination is the block returned alongside every paged response.
type Pagination struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int64 `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
}

func NewPagination(total int64, page, limit int) Pagination {
	tp := int64(0)
	if limit > 0 {
		tp = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  tp,
		HasNextPage: int64(page)*int64(limit) < total,
	}
}
