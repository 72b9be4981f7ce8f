package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"delivery_reviews/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) InsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*17)
	for i, rv := range rs {
		if err := rv.ValidateTags(); err != nil {
			return fmt.Errorf("review %d: %w", i, err)
		}
		values = append(values, insertReviewsRow)
		args = append(args,
			rv.AgentName,
			rv.Rating,
			rv.ReviewText,
			rv.DeliveryTime,
			rv.Location,
			rv.OrderType,
			rv.PriceRange,
			rv.DiscountApplied,
			rv.ProductAvailability,
			rv.CustomerServiceRating,
			rv.OrderAccuracy,
			rv.CustomerFeedbackType,
			rv.Sentiment,
			rv.Performance,
			rv.Accuracy,
			nullStr(rv.DiscountRange),
			nullStr(rv.ComplaintType),
		)
	}
	_, err := r.db.ExecContext(ctx, insertReviewsPrefix+strings.Join(values, ","), args...)
	return err
}

func (r *Repo) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	row := r.db.QueryRowContext(ctx, getReviewSQL, id)
	rv, err := scanReview(row)
	if err == sql.ErrNoRows {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, err
}

func (r *Repo) ListReviews(ctx context.Context, q domain.ReviewsQuery) (domain.ReviewsPage, error) {
	where, args := buildFilter(q)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews"+where, args...).Scan(&total); err != nil {
		return domain.ReviewsPage{}, err
	}

	col, ok := sortColumns[q.Sort]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if q.OrderAscending {
		dir = "ASC"
	}
	// id tie-break keeps pages disjoint when timestamps collide
	query := fmt.Sprintf("SELECT%s FROM reviews%s ORDER BY %s %s, id %s LIMIT ? OFFSET ?",
		selectReviewColumns, where, col, dir, dir)
	rows, err := r.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	defer rows.Close()

	var items []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return domain.ReviewsPage{}, err
		}
		items = append(items, rv)
	}
	if err := rows.Err(); err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.ReviewsPage{Items: items, Total: total}, nil
}

func (r *Repo) UpdateTags(ctx context.Context, id int64, fields map[string]string) (domain.Review, error) {
	if len(fields) == 0 {
		return r.GetReview(ctx, id)
	}
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for field, col := range tagColumns {
		v, ok := fields[field]
		if !ok {
			continue
		}
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if len(sets) == 0 {
		return domain.Review{}, fmt.Errorf("no updatable fields in %v", fields)
	}
	args = append(args, id)

	// RowsAffected is 0 both for a missing id and for an unchanged row, so
	// existence is decided by the read-back.
	if _, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return domain.Review{}, err
	}
	return r.GetReview(ctx, id)
}

/********** helpers **********/

func buildFilter(q domain.ReviewsQuery) (string, []any) {
	var conds []string
	var args []any
	if q.Location != nil {
		conds = append(conds, "location = ?")
		args = append(args, *q.Location)
	}
	if q.OrderType != nil {
		conds = append(conds, "order_type = ?")
		args = append(args, *q.OrderType)
	}
	if q.ServiceRating != nil {
		conds = append(conds, "customer_service_rating = ?")
		args = append(args, *q.ServiceRating)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dst ...any) error
}

func scanReview(s rowScanner) (domain.Review, error) {
	var rv domain.Review
	var discountRange, complaintType sql.NullString
	err := s.Scan(
		&rv.ID,
		&rv.AgentName,
		&rv.Rating,
		&rv.ReviewText,
		&rv.DeliveryTime,
		&rv.Location,
		&rv.OrderType,
		&rv.PriceRange,
		&rv.DiscountApplied,
		&rv.ProductAvailability,
		&rv.CustomerServiceRating,
		&rv.OrderAccuracy,
		&rv.CustomerFeedbackType,
		&rv.Sentiment,
		&rv.Performance,
		&rv.Accuracy,
		&discountRange,
		&complaintType,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		return domain.Review{}, err
	}
	rv.DiscountRange = discountRange.String
	rv.ComplaintType = complaintType.String
	return rv, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
