package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPMetricsMiddleware instruments requests with Prometheus metrics.
// Paths with embedded identifiers are collapsed to their route shape so
// label cardinality stays bounded.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)
		dur := time.Since(start)
		ObserveHTTPRequest(r.Method, routeLabel(r.URL.Path), strconv.Itoa(ww.status), dur)
	})
}

func routeLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/uploads/"):
		return "/uploads/{id}"
	case strings.HasPrefix(path, "/api/public/"):
		return "/api/public/{username}/{resource}"
	case strings.HasPrefix(path, "/api/admin/view/"):
		return "/api/admin/view/{resource}"
	case strings.HasPrefix(path, "/api/admin/delete/"):
		return "/api/admin/delete/{resource}/{id}"
	default:
		return path
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
