package middleware

import (
	"net/http"
	"path"
	"strings"
)

// CacheControl sets Cache-Control by route. The ideas API and the landing
// page change whenever someone posts, so neither may be served stale.
type CacheControl struct{}

func NewCacheControl() *CacheControl {
	return &CacheControl{}
}

func (c *CacheControl) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cachePolicy(r.URL.Path))
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Pragma", "no-cache")
		}
		next.ServeHTTP(w, r)
	})
}

func cachePolicy(p string) string {
	switch {
	case strings.HasPrefix(p, "/static/"):
		return staticCachePolicy(p)
	case strings.HasPrefix(p, "/api/"):
		return "no-store, no-cache, must-revalidate"
	case p == "/" || p == "":
		return "no-cache, must-revalidate"
	default:
		return "no-store"
	}
}

func staticCachePolicy(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".woff", ".woff2", ".ttf", ".otf", ".jpg", ".jpeg", ".png", ".gif", ".webp", ".ico", ".svg":
		return "public, max-age=31536000, immutable"
	case ".css", ".js":
		// Fingerprinted bundles are safe to keep longer, but dev builds are not.
		return "public, max-age=86400, must-revalidate"
	default:
		return "public, max-age=3600"
	}
}
