package app_test

import (
	"context"
	"encoding/json"
	"sort"

	"delivery_reviews/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	reviews   []domain.Review
	inserted  [][]domain.Review
	insertErr error
	listErr   error
	listCalls []domain.ReviewsQuery
}

func (f *fakeRepo) InsertReviews(ctx context.Context, rs []domain.Review) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, rs)
	f.reviews = append(f.reviews, rs...)
	return nil
}

func (f *fakeRepo) ListReviews(ctx context.Context, q domain.ReviewsQuery) (domain.ReviewsPage, error) {
	if f.listErr != nil {
		return domain.ReviewsPage{}, f.listErr
	}
	f.listCalls = append(f.listCalls, q)

	var filtered []domain.Review
	for _, rv := range f.reviews {
		if q.Location != nil && rv.Location != *q.Location {
			continue
		}
		if q.OrderType != nil && rv.OrderType != *q.OrderType {
			continue
		}
		if q.ServiceRating != nil && rv.CustomerServiceRating != *q.ServiceRating {
			continue
		}
		filtered = append(filtered, rv)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		ta, tb := a.CreatedAt, b.CreatedAt
		if q.Sort == "updatedAt" {
			ta, tb = a.UpdatedAt, b.UpdatedAt
		}
		if q.OrderAscending {
			return ta.Before(tb)
		}
		return tb.Before(ta)
	})

	total := int64(len(filtered))
	lo := q.Offset()
	if lo > len(filtered) {
		lo = len(filtered)
	}
	hi := lo + q.Limit
	if hi > len(filtered) {
		hi = len(filtered)
	}
	return domain.ReviewsPage{Items: filtered[lo:hi], Total: total}, nil
}

func (f *fakeRepo) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	for _, rv := range f.reviews {
		if rv.ID == id {
			return rv, nil
		}
	}
	return domain.Review{}, domain.ErrNotFound
}

func (f *fakeRepo) UpdateTags(ctx context.Context, id int64, fields map[string]string) (domain.Review, error) {
	for i := range f.reviews {
		if f.reviews[i].ID != id {
			continue
		}
		for k, v := range fields {
			switch k {
			case "sentiment":
				f.reviews[i].Sentiment = v
			case "accuracy":
				f.reviews[i].Accuracy = v
			case "performance":
				f.reviews[i].Performance = v
			case "customerFeedbackType":
				f.reviews[i].CustomerFeedbackType = v
			}
		}
		return f.reviews[i], nil
	}
	return domain.Review{}, domain.ErrNotFound
}

type fakeCache struct {
	store map[string][]byte
	sets  int
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	c.sets++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}
