package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "delivery_reviews/internal/adapters/redis"
	"delivery_reviews/internal/analytics"
)

func TestCache_RoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	cache := redisad.New(srv.Addr(), "", 0)
	ctx := context.Background()

	in := analytics.MetricsBundle{
		TotalOrders:   3,
		AverageRating: 4.0,
		PriceRangeOrders: analytics.Histogram{
			{Key: "100-200", Count: 2},
			{Key: "Unknown", Count: 1},
		},
	}
	if err := cache.Set(ctx, "dashboard:metrics:test", in, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out analytics.MetricsBundle
	ok, err := cache.Get(ctx, "dashboard:metrics:test", &out)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if out.TotalOrders != 3 || out.AverageRating != 4.0 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	// histogram ordering survives the trip
	if len(out.PriceRangeOrders) != 2 || out.PriceRangeOrders[0].Key != "100-200" {
		t.Fatalf("histogram order lost: %+v", out.PriceRangeOrders)
	}
}

func TestCache_MissAndDelete(t *testing.T) {
	srv := miniredis.RunT(t)
	cache := redisad.New(srv.Addr(), "", 0)
	ctx := context.Background()

	var dst map[string]any
	ok, err := cache.Get(ctx, "absent", &dst)
	if err != nil || ok {
		t.Fatalf("miss: ok=%v err=%v", ok, err)
	}

	if err := cache.Set(ctx, "k", map[string]int{"a": 1}, 60); err != nil {
		t.Fatal(err)
	}
	if err := cache.Del(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	ok, _ = cache.Get(ctx, "k", &dst)
	if ok {
		t.Fatal("deleted key should miss")
	}
}
