package api

import (
	"net/http"
	"os"
	"path/filepath"
)

// servePublicFile serves a fixed file from the public directory, or a plain
// 404 naming the file when it does not exist.
func (s *Server) servePublicFile(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(s.cfg.Server.PublicDir, name)
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			writeText(w, http.StatusNotFound, name+" not found")
			return
		}
		http.ServeFile(w, r, path)
	}
}

func (s *Server) staticFiles() http.Handler {
	return http.FileServer(http.Dir(s.cfg.Server.PublicDir))
}
