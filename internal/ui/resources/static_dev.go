//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// getStaticDir derives the absolute path to the static directory
// relative to this source file, regardless of where the binary is run from.
func getStaticDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// Handler returns an HTTP handler for serving static files.
// In dev builds, files are read from disk so stylesheet edits show up on reload.
func Handler() http.Handler {
	staticDir := getStaticDir()
	slog.Debug("static assets served from filesystem", "path", staticDir)

	return http.StripPrefix(StaticPrefix, http.FileServer(http.FS(os.DirFS(staticDir))))
}
