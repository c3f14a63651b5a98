package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// staticStage serves files found under dir. Requests for anything else,
// directories included, fall through.
type staticStage struct {
	dir   string
	files http.Handler
}

func newStaticStage(dir string) *staticStage {
	return &staticStage{dir: dir, files: http.FileServer(http.Dir(dir))}
}

func (s *staticStage) Process(x *Exchange) Outcome {
	r := x.Request
	if s.dir == "" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		return Continue()
	}

	name := filepath.Join(s.dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	info, err := os.Stat(name)
	if err != nil || info.IsDir() {
		return Continue()
	}

	s.files.ServeHTTP(x.Writer, r)
	return Respond()
}
