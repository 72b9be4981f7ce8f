package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"delivery_reviews/internal/app"
	"delivery_reviews/internal/classify"
)

const csvHeader = "Agent Name,Rating,Review Text,Delivery Time (min),Location,Order Type,Customer Feedback Type,Price Range,Discount Applied,Product Availability,Customer Service Rating,Order Accuracy\n"

const csvBody = csvHeader +
	"Ravi,5,great food,20,Delhi,Food,Positive,100-200,Yes,In Stock,5,All correct\n" +
	"Mina,3,was ok,45,Mumbai,Food,Neutral,100-200,No,In Stock,3,fine\n" +
	"Jo,bad,oops,30,Delhi,Food,Negative,50-100,No,In Stock,2,mistake made\n" + // non-numeric rating
	"Sam,4,arrived cold,70,Pune,Food,Negative,200-500,Yes,In Stock,2,big mistake\n"

func TestIngest_RowFailuresDoNotAbort(t *testing.T) {
	repo := &fakeRepo{}
	ing := app.NewIngestionService(repo, &fakeCache{}, classify.New(nil))

	stream, err := app.NewCSVStream(strings.NewReader(csvBody))
	if err != nil {
		t.Fatal(err)
	}
	res, err := ing.Ingest(context.Background(), stream)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.InsertedCount != 3 {
		t.Fatalf("insertedCount = %d", res.InsertedCount)
	}
	if len(res.FailedRows) != 1 || res.FailedRows[0].Row != 3 {
		t.Fatalf("failedRows: %+v", res.FailedRows)
	}
	if !strings.Contains(res.FailedRows[0].Reason, "Rating") {
		t.Errorf("reason should name the column: %s", res.FailedRows[0].Reason)
	}
	if len(repo.inserted) != 1 || len(repo.inserted[0]) != 3 {
		t.Fatalf("expected one bulk insert of 3 rows, got %+v", repo.inserted)
	}
	// classifier ran at construction
	if got := repo.inserted[0][2].Accuracy; got != "Order Mistake" {
		t.Errorf("row not auto-tagged: accuracy=%s", got)
	}
	if got := repo.inserted[0][2].Performance; got != "Slow" {
		t.Errorf("row not auto-tagged: performance=%s", got)
	}
}

func TestIngest_BulkInsertFailureAborts(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("storage unavailable")}
	ing := app.NewIngestionService(repo, &fakeCache{}, classify.New(nil))

	stream, err := app.NewCSVStream(strings.NewReader(csvBody))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ing.Ingest(context.Background(), stream); err == nil {
		t.Fatal("bulk insert failure must surface")
	}
}

func TestIngest_MalformedCSVRowRecorded(t *testing.T) {
	body := csvHeader +
		"Ravi,5,great food,20,Delhi,Food,Positive,100-200,Yes,In Stock,5,All correct\n" +
		"too,few,fields\n" +
		"Mina,3,was ok,45,Mumbai,Food,Neutral,100-200,No,In Stock,3,fine\n"
	repo := &fakeRepo{}
	ing := app.NewIngestionService(repo, &fakeCache{}, classify.New(nil))

	stream, err := app.NewCSVStream(strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	res, err := ing.Ingest(context.Background(), stream)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.InsertedCount != 2 || len(res.FailedRows) != 1 || res.FailedRows[0].Row != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestIngestFile_RemovesArtifactAfterAck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.csv")
	if err := os.WriteFile(path, []byte(csvBody), 0o600); err != nil {
		t.Fatal(err)
	}

	repo := &fakeRepo{}
	ing := app.NewIngestionService(repo, &fakeCache{}, classify.New(nil))
	res, err := ing.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.InsertedCount != 3 {
		t.Fatalf("insertedCount = %d", res.InsertedCount)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("artifact should be removed after a successful write")
	}
}

func TestIngestFile_KeepsArtifactOnWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upload.csv")
	if err := os.WriteFile(path, []byte(csvBody), 0o600); err != nil {
		t.Fatal(err)
	}

	repo := &fakeRepo{insertErr: errors.New("down")}
	ing := app.NewIngestionService(repo, &fakeCache{}, classify.New(nil))
	if _, err := ing.IngestFile(context.Background(), path); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal("artifact must survive a failed write")
	}
}
