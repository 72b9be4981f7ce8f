package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"delivery_reviews/internal/adapters/observability"
	"delivery_reviews/internal/classify"
	"delivery_reviews/internal/domain"
)

// RowStream yields ingestion rows one at a time. Next returns io.EOF at end
// of stream, a *BadRowError for a recoverable row-level problem, or any other
// error for a fatal stream failure.
type RowStream interface {
	Next() (Row, error)
}

// BadRowError marks one malformed row that the stream could skip past.
type BadRowError struct {
	Reason string
}

func (e *BadRowError) Error() string { return e.Reason }

// CSVStream adapts an encoding/csv reader to RowStream. The first record is
// the header; every subsequent record maps header name -> cell value.
type CSVStream struct {
	r      *csv.Reader
	header []string
}

func NewCSVStream(r io.Reader) (*CSVStream, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	return &CSVStream{r: cr, header: header}, nil
}

func (s *CSVStream) Next() (Row, error) {
	rec, err := s.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return nil, &BadRowError{Reason: err.Error()}
	}
	if err != nil {
		return nil, err
	}
	row := make(Row, len(s.header))
	for i, name := range s.header {
		if i < len(rec) {
			row[name] = rec[i]
		}
	}
	return row, nil
}

type IngestResult struct {
	InsertedCount int               `json:"insertedCount"`
	FailedRows    []domain.RowError `json:"failedRows"`
}

type IngestionService struct {
	repo       domain.ReviewRepository
	cache      domain.Cache
	classifier *classify.Classifier
}

func NewIngestionService(r domain.ReviewRepository, c domain.Cache, cl *classify.Classifier) *IngestionService {
	if cl == nil {
		cl = classify.New(nil)
	}
	return &IngestionService{repo: r, cache: c, classifier: cl}
}

// Ingest consumes the stream row by row, transforming and buffering as rows
// arrive. Malformed rows are recorded and skipped; the buffered batch is
// written in a single bulk insert at stream end. A bulk-insert failure aborts
// the whole operation and surfaces to the caller.
func (s *IngestionService) Ingest(ctx context.Context, rows RowStream) (IngestResult, error) {
	res := IngestResult{FailedRows: []domain.RowError{}}
	var batch []domain.Review

	for rowIdx := 1; ; rowIdx++ {
		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var bad *BadRowError
		if errors.As(err, &bad) {
			res.FailedRows = append(res.FailedRows, domain.RowError{Row: rowIdx, Reason: bad.Reason})
			observability.ObserveIngestRow("failed")
			continue
		}
		if err != nil {
			return IngestResult{}, fmt.Errorf("read row stream: %w", err)
		}

		rv, terr := TransformRow(s.classifier, row)
		if terr != nil {
			res.FailedRows = append(res.FailedRows, domain.RowError{Row: rowIdx, Reason: terr.Error()})
			observability.ObserveIngestRow("failed")
			continue
		}
		batch = append(batch, rv)
	}

	if len(batch) > 0 {
		if err := s.repo.InsertReviews(ctx, batch); err != nil {
			// Surface so partial inserts never pass silently.
			return IngestResult{}, fmt.Errorf("bulk insert of %d reviews failed: %w", len(batch), err)
		}
	}
	res.InsertedCount = len(batch)
	for range batch {
		observability.ObserveIngestRow("ok")
	}

	if s.cache != nil {
		s.invalidateReads(ctx)
	}
	return res, nil
}

// IngestFile ingests one CSV file and removes it only after the storage write
// has been acknowledged, so a write failure never loses the artifact.
func (s *IngestionService) IngestFile(ctx context.Context, path string) (IngestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return IngestResult{}, fmt.Errorf("open %s: %w", path, err)
	}

	stream, err := NewCSVStream(f)
	if err != nil {
		f.Close()
		return IngestResult{}, err
	}

	res, err := s.Ingest(ctx, stream)
	f.Close()
	if err != nil {
		return res, err
	}

	if rmErr := os.Remove(path); rmErr != nil {
		log.Warn().Str("path", path).Err(rmErr).Msg("upload artifact cleanup failed")
	}
	return res, nil
}

// invalidateReads evicts the default cached read variants after a write.
// Everything else expires by TTL.
func (s *IngestionService) invalidateReads(ctx context.Context) {
	for _, key := range defaultReadKeys() {
		_ = s.cache.Del(ctx, key)
	}
}
