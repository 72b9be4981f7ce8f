package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"delivery_reviews/internal/app"
	"delivery_reviews/internal/domain"
)

func TestUpdateTags_RejectsInvalidValue(t *testing.T) {
	repo := &fakeRepo{reviews: seedReviews(1)}
	u := app.NewUpdateService(repo, &fakeCache{})

	_, err := u.UpdateTags(context.Background(), 1, map[string]any{"sentiment": "Happy"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Violations) != 1 || !strings.Contains(ve.Violations[0], "sentiment") {
		t.Fatalf("violation should name the field: %+v", ve.Violations)
	}
}

func TestUpdateTags_AllOrNothing(t *testing.T) {
	repo := &fakeRepo{reviews: seedReviews(1)}
	u := app.NewUpdateService(repo, &fakeCache{})

	// one valid and one invalid value: nothing is applied
	_, err := u.UpdateTags(context.Background(), 1, map[string]any{
		"sentiment":   "Positive",
		"performance": "Turbo",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	rv, _ := repo.GetReview(context.Background(), 1)
	if rv.Sentiment == "Positive" {
		t.Fatal("partial update leaked through")
	}
}

func TestUpdateTags_DropsUnknownKeys(t *testing.T) {
	repo := &fakeRepo{reviews: seedReviews(1)}
	u := app.NewUpdateService(repo, &fakeCache{})

	rv, err := u.UpdateTags(context.Background(), 1, map[string]any{
		"sentiment": "Positive",
		"notAField": "x",
		"rating":    10, // not updatable either
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rv.Sentiment != "Positive" {
		t.Fatalf("sentiment not updated: %+v", rv)
	}
	if rv.Rating == 10 {
		t.Fatal("non-whitelisted field must not change")
	}
}

func TestUpdateTags_Idempotent(t *testing.T) {
	repo := &fakeRepo{reviews: seedReviews(1)}
	u := app.NewUpdateService(repo, &fakeCache{})

	first, err := u.UpdateTags(context.Background(), 1, map[string]any{"performance": "Fast"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := u.UpdateTags(context.Background(), 1, map[string]any{"performance": "Fast"})
	if err != nil {
		t.Fatal(err)
	}
	if first.Performance != second.Performance || second.Performance != "Fast" {
		t.Fatalf("idempotence broken: %s then %s", first.Performance, second.Performance)
	}
}

func TestUpdateTags_NotFound(t *testing.T) {
	repo := &fakeRepo{}
	u := app.NewUpdateService(repo, &fakeCache{})

	_, err := u.UpdateTags(context.Background(), 99, map[string]any{"sentiment": "Positive"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTags_EmptyAfterWhitelistIsNoOp(t *testing.T) {
	repo := &fakeRepo{reviews: seedReviews(1)}
	u := app.NewUpdateService(repo, &fakeCache{})

	rv, err := u.UpdateTags(context.Background(), 1, map[string]any{"notAField": "x"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rv.ID != 1 {
		t.Fatalf("expected current record back, got %+v", rv)
	}
}
