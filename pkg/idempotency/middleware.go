package idempotency

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
)

const (
	HeaderKey    = "Idempotency-Key"
	HeaderReplay = "Idempotent-Replay"
)

type Backend interface {
	Key(method, path, key string) string
	Reserve(ctx context.Context, key string) (bool, error)
	Load(ctx context.Context, key string) (Response, bool, error)
	Save(ctx context.Context, key string, resp Response) error
	Release(ctx context.Context, key string) error
}

// Middleware replays the first response of a POST carrying an
// Idempotency-Key header. Server errors are not recorded so the client can
// retry them. Reusing a key with a different body is rejected with 422.
func Middleware(log *slog.Logger, backend Backend) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idemKey := r.Header.Get(HeaderKey)
			if r.Method != http.MethodPost || idemKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			key := backend.Key(r.Method, r.URL.Path, idemKey)

			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "cannot read request body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			fingerprint := Fingerprint(body)

			reserved, err := backend.Reserve(ctx, key)
			if err != nil {
				log.Error("idempotency reserve failed", "key", key, "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if !reserved {
				replay(ctx, w, log, backend, key, fingerprint)
				return
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				if p := recover(); p != nil {
					_ = backend.Release(context.WithoutCancel(ctx), key)
					panic(p)
				}
			}()
			next.ServeHTTP(rec, r)

			if rec.status >= http.StatusInternalServerError {
				if err := backend.Release(context.WithoutCancel(ctx), key); err != nil {
					log.Error("idempotency release failed", "key", key, "err", err)
				}
				return
			}
			resp := Response{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
				Fingerprint: fingerprint,
			}
			if err := backend.Save(context.WithoutCancel(ctx), key, resp); err != nil {
				log.Error("idempotency save failed", "key", key, "err", err)
			}
		})
	}
}

// Fingerprint identifies a request body.
func Fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func replay(ctx context.Context, w http.ResponseWriter, log *slog.Logger, backend Backend, key, fingerprint string) {
	resp, done, err := backend.Load(ctx, key)
	if err != nil {
		log.Error("idempotency load failed", "key", key, "err", err)
		http.Error(w, "idempotency store unavailable", http.StatusServiceUnavailable)
		return
	}
	if !done {
		http.Error(w, "request with this idempotency key is in progress", http.StatusConflict)
		return
	}
	if resp.Fingerprint != fingerprint {
		http.Error(w, "idempotency key was used with a different request body", http.StatusUnprocessableEntity)
		return
	}
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.Header().Set(HeaderReplay, "true")
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

type recorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
