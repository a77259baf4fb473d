package rbac

import (
	"net/http"

	"github.com/courseflow/courseflow/internal/platform/httpx"
	"github.com/courseflow/courseflow/internal/shared"
)

// Guard runs the gate for op ahead of the wrapped handler. A denied request
// never reaches next.
func (g *Gate) Guard(op string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := shared.IdentityFromContext(r.Context())
			if err := g.Check(r.Context(), op, actor, httpx.URLParams(r)); err != nil {
				httpx.RespondError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
