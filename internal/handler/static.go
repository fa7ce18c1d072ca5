package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// StaticFileServer serves the admin dashboard assets with an index.html
// fallback for client-side routes.
func StaticFileServer(staticDir, prefix string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, prefix)
		path = strings.TrimPrefix(path, "/")

		if path != "" {
			filePath := filepath.Join(staticDir, filepath.Clean(path))
			info, err := os.Stat(filePath)
			if err == nil && !info.IsDir() {
				http.ServeFile(w, r, filePath)
				return
			}
		}

		indexPath := filepath.Join(staticDir, "index.html")
		if _, err := os.Stat(indexPath); err != nil {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, indexPath)
	})
}
