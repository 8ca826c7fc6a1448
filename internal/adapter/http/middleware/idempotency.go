package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iho/bankledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"

	// DefaultIdempotencyTTL bounds how long a stored response is replayable.
	DefaultIdempotencyTTL = 24 * time.Hour
)

// IdempotencyMiddleware makes POST requests carrying an Idempotency-Key
// header safe to retry: the first request executes and its response is
// stored, duplicates replay the stored response without touching the ledger.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A zero ttl
// falls back to DefaultIdempotencyTTL.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}

	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		reserved, cached, err := m.store.Reserve(r.Context(), key, m.ttl)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "idempotency check failed")
			return
		}

		if !reserved {
			if cached != nil {
				status, body := decodeStoredResponse(cached)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotency-Replay", "true")
				w.WriteHeader(status)
				w.Write(body)
				return
			}

			// The first request is still running.
			writeJSONError(w, http.StatusConflict, "request with this idempotency key is in flight")
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			if err := m.store.Save(r.Context(), key, encodeStoredResponse(recorder.statusCode, recorder.body.Bytes()), m.ttl); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("failed to store idempotent response")
			}
			return
		}

		// Failed requests release the key so the client can retry.
		if err := m.store.Release(r.Context(), key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to release idempotency key")
		}
	})
}

// storedResponse is the persisted form of an idempotent response: the
// original status code travels with the body so a replayed 201 stays a 201.
type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

func encodeStoredResponse(status int, body []byte) []byte {
	buf, err := json.Marshal(storedResponse{Status: status, Body: body})
	if err != nil {
		return body
	}

	return buf
}

func decodeStoredResponse(raw []byte) (int, []byte) {
	var sr storedResponse
	if err := json.Unmarshal(raw, &sr); err != nil || sr.Status == 0 {
		return http.StatusOK, raw
	}

	return sr.Status, sr.Body
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
