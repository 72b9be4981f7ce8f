package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"delivery_reviews/internal/analytics"
	"delivery_reviews/internal/domain"
)

// MetricsScope selects what the dashboard aggregation runs over: the fetched
// page (bounded memory, original behavior) or the full filtered result set
// (statistically representative).
type MetricsScope string

const (
	MetricsScopePage     MetricsScope = "page"
	MetricsScopeFiltered MetricsScope = "filtered"
)

const (
	DefaultListLimit    = 10
	DefaultMetricsLimit = 100
	maxLimit            = 500

	sortCreatedAt = "createdAt"
	sortUpdatedAt = "updatedAt"
)

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
	scope    MetricsScope
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration, scope MetricsScope) *QueryService {
	if scope != MetricsScopeFiltered {
		scope = MetricsScopePage
	}
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, scope: scope}
}

// ListParams are raw request parameters; normalization degrades bad values to
// defaults rather than rejecting (sort outside the allow-list falls back to
// createdAt descending).
type ListParams struct {
	Page  int
	Limit int
	Sort  string
	Order string // "asc" | anything else means desc
}

type ListResult struct {
	Items      []domain.ReviewProjection `json:"data"`
	Pagination domain.Pagination         `json:"pagination"`
}

func (p ListParams) normalize() domain.ReviewsQuery {
	q := domain.ReviewsQuery{
		Page:           p.Page,
		Limit:          p.Limit,
		Sort:           sortCreatedAt,
		OrderAscending: p.Order == "asc",
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if p.Sort == sortCreatedAt || p.Sort == sortUpdatedAt {
		q.Sort = p.Sort
	}
	return q
}

func (s *QueryService) ListReviews(ctx context.Context, p ListParams) (ListResult, error) {
	q := p.normalize()
	key := listCacheKey(q)

	var out ListResult
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	pg, err := s.repo.ListReviews(ctx, q)
	if err != nil {
		return ListResult{}, err
	}

	out = ListResult{
		Items:      make([]domain.ReviewProjection, 0, len(pg.Items)),
		Pagination: domain.NewPagination(pg.Total, q.Page, q.Limit),
	}
	for _, rv := range pg.Items {
		out.Items = append(out.Items, rv.Project())
	}

	// size guard before caching, as with any unbounded page
	if b, _ := json.Marshal(out); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// MetricsFilters are the dashboard's exact-match filters plus pagination.
type MetricsFilters struct {
	Location      *string
	OrderType     *string
	ServiceRating *float64
	Page          int
	Limit         int
}

type MetricsResult struct {
	Metrics    analytics.MetricsBundle `json:"metrics"`
	Pagination domain.Pagination       `json:"pagination"`
}

// DashboardMetrics fetches the filtered records and recomputes the full
// bundle per request; nothing is maintained incrementally. Under the "page"
// scope the bundle reflects only the fetched page.
func (s *QueryService) DashboardMetrics(ctx context.Context, f MetricsFilters) (MetricsResult, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultMetricsLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	key := s.metricsCacheKey(f)

	var out MetricsResult
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	q := domain.ReviewsQuery{
		Location:      f.Location,
		OrderType:     f.OrderType,
		ServiceRating: f.ServiceRating,
		Page:          f.Page,
		Limit:         f.Limit,
		Sort:          sortCreatedAt,
	}
	pg, err := s.repo.ListReviews(ctx, q)
	if err != nil {
		return MetricsResult{}, err
	}

	records := pg.Items
	if s.scope == MetricsScopeFiltered && pg.Total > int64(len(records)) {
		full := q
		full.Page = 1
		full.Limit = int(pg.Total)
		fp, err := s.repo.ListReviews(ctx, full)
		if err != nil {
			return MetricsResult{}, err
		}
		records = fp.Items
	}

	out = MetricsResult{
		Metrics:    analytics.Aggregate(records),
		Pagination: domain.NewPagination(pg.Total, f.Page, f.Limit),
	}
	if b, _ := json.Marshal(out); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

/********** cache keys **********/

func listCacheKey(q domain.ReviewsQuery) string {
	dir := "desc"
	if q.OrderAscending {
		dir = "asc"
	}
	return fmt.Sprintf("reviews:list:%d:%d:%s:%s", q.Page, q.Limit, q.Sort, dir)
}

func (s *QueryService) metricsCacheKey(f MetricsFilters) string {
	sig := fmt.Sprintf("%s|%s|%v|%d|%d|%s",
		strDeref(f.Location), strDeref(f.OrderType), f.ServiceRating != nil, f.Page, f.Limit, s.scope)
	if f.ServiceRating != nil {
		sig += fmt.Sprintf("|%g", *f.ServiceRating)
	}
	sum := sha1.Sum([]byte(sig))
	return "dashboard:metrics:" + hex.EncodeToString(sum[:])
}

func strDeref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// defaultReadKeys lists the cache variants most dashboards hit; writes evict
// these eagerly and let TTL expire the rest.
func defaultReadKeys() []string {
	keys := []string{
		fmt.Sprintf("reviews:list:%d:%d:%s:%s", 1, DefaultListLimit, sortCreatedAt, "desc"),
	}
	for _, scope := range []MetricsScope{MetricsScopePage, MetricsScopeFiltered} {
		s := &QueryService{scope: scope}
		keys = append(keys, s.metricsCacheKey(MetricsFilters{Page: 1, Limit: DefaultMetricsLimit}))
	}
	return keys
}
