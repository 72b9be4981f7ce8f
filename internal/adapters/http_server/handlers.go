package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"delivery_reviews/internal/app"
	"delivery_reviews/internal/domain"
)

type Handlers struct {
	Q   *app.QueryService
	U   *app.UpdateService
	Ing *app.IngestionService

	APIToken       string // gates the dashboard route; empty disables
	UploadLimiter  *rate.Limiter
	MaxUploadBytes int64
}

type problem struct {
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	Status     int      `json:"status"`
	Detail     string   `json:"detail,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.With(RateLimit(h.UploadLimiter)).Post("/v1/reviews/upload", h.uploadCSV)
	s.mux.Get("/v1/reviews", h.listReviews)
	s.mux.With(RequireBearer(h.APIToken)).Get("/v1/dashboard/metrics", h.dashboardMetrics)
	s.mux.Put("/v1/reviews/{id}/tags", h.updateTags)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemViolations(w, status, title, detail, nil)
}

func writeProblemViolations(w http.ResponseWriter, status int, title, detail string, violations []string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Violations: violations}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// uploadCSV receives the multipart file, spools it to a temp path and hands it
// to the ingestion pipeline, which deletes the artifact after the storage
// write is acknowledged.
func (h *Handlers) uploadCSV(w http.ResponseWriter, r *http.Request) {
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "reviews-upload-*.csv")
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Upload Failed", "could not spool upload")
		return
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		writeProblem(w, http.StatusInternalServerError, "Upload Failed", "could not spool upload")
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		writeProblem(w, http.StatusInternalServerError, "Upload Failed", "could not spool upload")
		return
	}

	res, err := h.Ing.IngestFile(r.Context(), tmp.Name())
	if err != nil {
		log.Error().Err(err).Msg("csv ingestion failed")
		writeProblem(w, http.StatusBadGateway, "Ingestion Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := app.ListParams{
		Page:  atoiDefault(q.Get("page"), 0),
		Limit: atoiDefault(q.Get("limit"), 0),
		Sort:  q.Get("sort"),
		Order: q.Get("order"),
	}
	out, err := h.Q.ListReviews(r.Context(), params)
	if err != nil {
		log.Error().Err(err).Msg("list reviews failed")
		writeProblem(w, http.StatusInternalServerError, "List Failed", "could not fetch reviews")
		return
	}
	writeWithETag(w, r, out)
}

func (h *Handlers) dashboardMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := app.MetricsFilters{
		Page:  atoiDefault(q.Get("page"), 0),
		Limit: atoiDefault(q.Get("limit"), 0),
	}
	if v := q.Get("location"); v != "" {
		f.Location = &v
	}
	if v := q.Get("orderType"); v != "" {
		f.OrderType = &v
	}
	if v := q.Get("serviceRating"); v != "" {
		sr, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid Filter", "serviceRating must be a number")
			return
		}
		f.ServiceRating = &sr
	}

	out, err := h.Q.DashboardMetrics(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("dashboard metrics failed")
		writeProblem(w, http.StatusInternalServerError, "Metrics Failed", "could not compute dashboard metrics")
		return
	}
	writeWithETag(w, r, out)
}

func (h *Handlers) updateTags(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be a JSON object")
		return
	}

	rv, err := h.U.UpdateTags(r.Context(), id, payload)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			writeProblemViolations(w, http.StatusBadRequest, "Validation Failed", "one or more tag values are invalid", ve.Violations)
		case errors.Is(err, domain.ErrNotFound):
			writeProblem(w, http.StatusNotFound, "Not Found", "review not found")
		default:
			log.Error().Err(err).Int64("id", id).Msg("update tags failed")
			writeProblem(w, http.StatusInternalServerError, "Update Failed", "could not update review tags")
		}
		return
	}
	writeJSON(w, http.StatusOK, rv)
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
