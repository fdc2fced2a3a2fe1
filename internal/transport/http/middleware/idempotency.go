package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ZainabRupawala2805/employee-management-system/internal/transport/http/api"
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
	RequestHash string `json:"requestHash"`
}

type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *captureWriter) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(p []byte) (int, error) {
	c.body.Write(p)
	return c.ResponseWriter.Write(p)
}

// Idempotency replays the stored response for a repeated mutation that
// carries the same Idempotency-Key and the same payload. The same key
// with a different payload is a conflict. A nil client disables the
// middleware.
func Idempotency(client *redis.Client, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if client == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, err := io.ReadAll(r.Body)
			if err != nil {
				api.Fail(w, http.StatusBadRequest, "bad_request", "unable to read request body", GetRequestID(r.Context()))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))

			sum := sha256.Sum256(raw)
			requestHash := hex.EncodeToString(sum[:])

			actor := "anon"
			if user, ok := GetUser(r.Context()); ok {
				actor = user.UserID
			}
			cacheKey := "idem:" + actor + ":" + r.Method + ":" + r.URL.Path + ":" + key

			if stored, err := client.Get(r.Context(), cacheKey).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(stored, &cached) == nil {
					if cached.RequestHash != requestHash {
						api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key reused with a different payload", GetRequestID(r.Context()))
						return
					}
					w.Header().Set("Content-Type", cached.ContentType)
					w.Header().Set("Idempotency-Replayed", "true")
					w.WriteHeader(cached.Status)
					_, _ = w.Write(cached.Body)
					return
				}
			}

			capture := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(capture, r)

			// Only successful outcomes are worth replaying.
			if capture.status >= 200 && capture.status < 300 {
				payload, err := json.Marshal(cachedResponse{
					Status:      capture.status,
					ContentType: capture.Header().Get("Content-Type"),
					Body:        capture.body.Bytes(),
					RequestHash: requestHash,
				})
				if err == nil {
					_ = client.Set(r.Context(), cacheKey, payload, ttl).Err()
				}
			}
		})
	}
}
