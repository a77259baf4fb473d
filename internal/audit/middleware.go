package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"

	"github.com/courseflow/courseflow/internal/platform/httpx"
	"github.com/courseflow/courseflow/internal/shared"
)

const maxCapturedBody = 64 << 10

// Middleware wraps an HTTP handler in the capture pipeline for resource. A
// response with status >= 400, or an error passed to httpx.RespondError,
// marks the call as failed.
func (p *Pipeline) Middleware(resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := shared.IdentityFromContext(r.Context())
			if p == nil || actor == nil || resource == "" {
				next.ServeHTTP(w, r)
				return
			}
			call := callFromRequest(r, actor.ID, resource)
			ctx, slot := shared.ContextWithFailureSlot(r.Context())
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			_ = p.Execute(ctx, call, func(ctx context.Context) error {
				next.ServeHTTP(rec, r.WithContext(ctx))
				if err := slot.Err(); err != nil {
					return err
				}
				if rec.status >= http.StatusBadRequest {
					return errors.New(http.StatusText(rec.status))
				}
				return nil
			})
		})
	}
}

func callFromRequest(r *http.Request, actorID, resource string) Call {
	params := httpx.URLParams(r)
	return Call{
		ActorID:   actorID,
		Resource:  resource,
		Kind:      r.Method,
		Path:      r.URL.Path,
		EntityID:  params["id"],
		Params:    params,
		Query:     flattenQuery(r),
		Body:      captureBody(r),
		UserAgent: r.UserAgent(),
		ClientIP:  clientIP(r),
	}
}

// captureBody reads a JSON object body and restores it for the handler.
func captureBody(r *http.Request) map[string]any {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxCapturedBody+1))
	rest := r.Body
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(raw), rest), Closer: rest}
	if err != nil || len(raw) > maxCapturedBody {
		return nil
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil
	}
	return body
}

func flattenQuery(r *http.Request) map[string]any {
	values := r.URL.Query()
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) == 1 {
			out[k] = v[0]
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	return out
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type readCloser struct {
	io.Reader
	io.Closer
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
