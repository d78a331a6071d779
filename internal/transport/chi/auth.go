package chi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/ashokkumar81090/Hackathon/internal/metrics"
)

var (
	errNoCredentials = errors.New("missing authorization header")
	errNotBearer     = errors.New("authorization header must use Bearer scheme")
	errUnknownKey    = errors.New("invalid api key")
)

// BearerAuthMiddleware accepts requests carrying "Authorization: Bearer <key>"
// for one of apiKeys. Blank keys are ignored; with none left the middleware is
// a pass-through. Health checks and metric scrapes are never authenticated.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, []byte(k))
		}
	}
	open := map[string]bool{"/health": true, metrics.ScrapePath: true}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !open[r.URL.Path] {
				if err := authorize(keys, r.Header.Get("Authorization")); err != nil {
					w.Header().Set("WWW-Authenticate", `Bearer realm="incidentrag"`)
					writeError(w, http.StatusUnauthorized, CodeUnauthorized, err.Error())
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authorize(keys [][]byte, header string) error {
	if header == "" {
		return errNoCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return errNotBearer
	}
	// Every key is compared so timing does not reveal which one matched.
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare(k, []byte(token))
	}
	if match != 1 {
		return errUnknownKey
	}
	return nil
}
