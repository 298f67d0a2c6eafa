package api

import (
	"net/http"
	"strings"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/auth"
)

// withAuth attaches the bearer principal to the request context. Requests
// without an Authorization header proceed anonymously; the services decide
// which operations anonymous callers may perform. A present but invalid
// token is rejected outright rather than silently downgraded.
func (rt *Router) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthHeaderName)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !strings.HasPrefix(header, common.AuthSchemePrefix) {
			rt.fail(w, http.StatusUnauthorized, "unsupported authorization scheme")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, common.AuthSchemePrefix))
		p, err := auth.PrincipalFromToken(token, rt.secret)
		if err != nil {
			rt.fail(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithPrincipal(r.Context(), p)))
	})
}
