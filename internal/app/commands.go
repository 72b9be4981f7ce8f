package app

import (
	"context"
	"fmt"

	"delivery_reviews/internal/domain"
)

// UpdateService is the write half of the façade: whitelisted tag updates.
type UpdateService struct {
	repo  domain.ReviewRepository
	cache domain.Cache
}

func NewUpdateService(r domain.ReviewRepository, c domain.Cache) *UpdateService {
	return &UpdateService{repo: r, cache: c}
}

// UpdateTags applies a partial field map to one review. Keys outside the
// whitelist are silently dropped; every remaining value is validated against
// the enumeration table, and any violation rejects the whole update with the
// aggregated messages. A whitelisted payload that empties out is a no-op and
// returns the current record.
func (s *UpdateService) UpdateTags(ctx context.Context, id int64, payload map[string]any) (domain.Review, error) {
	fields := make(map[string]string, len(payload))
	var violations []string

	for _, key := range domain.UpdatableTagFields {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		val, ok := raw.(string)
		if !ok {
			violations = append(violations, domain.NewFieldViolation(key, fmt.Sprintf("%v", raw)))
			continue
		}
		if !contains(domain.TagValidationRules[key], val) {
			violations = append(violations, domain.NewFieldViolation(key, val))
			continue
		}
		fields[key] = val
	}

	if len(violations) > 0 {
		return domain.Review{}, &domain.ValidationError{Violations: violations}
	}
	if len(fields) == 0 {
		return s.repo.GetReview(ctx, id)
	}

	rv, err := s.repo.UpdateTags(ctx, id, fields)
	if err != nil {
		return domain.Review{}, err
	}

	if s.cache != nil {
		for _, key := range defaultReadKeys() {
			_ = s.cache.Del(ctx, key)
		}
	}
	return rv, nil
}

func contains(vals []string, v string) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}
