package app

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// staticHandler serves the compiled frontend. Paths that do not name a file
// fall back to index.html so client-side routes survive a reload.
type staticHandler struct {
	root  string
	files http.Handler
}

func newStaticHandler(dir string) (*staticHandler, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &staticHandler{root: dir, files: http.FileServer(http.Dir(dir))}, nil
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := filepath.Join(h.root, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	if info, err := os.Stat(name); err != nil || (info.IsDir() && r.URL.Path != "/") {
		http.ServeFile(w, r, filepath.Join(h.root, "index.html"))
		return
	}
	h.files.ServeHTTP(w, r)
}
