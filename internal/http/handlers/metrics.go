package handlers

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the Prometheus registry.
func (a *App) Metrics() http.Handler {
	return promhttp.Handler()
}

// Downloads serves files from the download store. Directory listings are
// hidden; only concrete files resolved by /analyze-reference are reachable.
func (a *App) Downloads(prefix string) http.Handler {
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(a.DownloadStore.BasePath())))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == prefix || strings.HasSuffix(r.URL.Path, "/") {
			a.error(w, http.StatusNotFound, "Not Found")
			return
		}
		files.ServeHTTP(w, r)
	})
}
