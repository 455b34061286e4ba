package guard

import (
	"net/http"

	"github.com/aussiebroadwan/bookshelf/internal/catalog/fault"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/metrics"
	"github.com/aussiebroadwan/bookshelf/pkg/httpx"
	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
)

// Middleware guards next with policy p. Admitted requests carry the identity
// (IdentityFrom) and the user id (httpx.UserIDFrom), and their logger is tagged
// with user_id. Rejections are written through fault.Write.
func (c *Chain) Middleware(p Policy, m *metrics.Metrics) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id, err := c.Guard(ctx, r.Header.Get("Authorization"), p)
			if err != nil {
				kind := fault.KindOf(err)
				m.Rejection(kind.String())
				slogx.FromContext(ctx).Info("request rejected by guard",
					"reason", kind.String(),
					"path", r.URL.Path,
				)
				fault.Write(w, r, err)
				return
			}

			ctx = WithIdentity(ctx, id)
			ctx = httpx.WithUserID(ctx, id.ID)
			ctx = slogx.With(ctx, "user_id", id.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
