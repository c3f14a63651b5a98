package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticStage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "style.css"), []byte("body{}"), 0o600))

	tests := []struct {
		name     string
		dir      string
		method   string
		path     string
		wantKind outcomeKind
	}{
		{name: "existing file is served", dir: dir, method: http.MethodGet, path: "/css/style.css", wantKind: outcomeRespond},
		{name: "head is served", dir: dir, method: http.MethodHead, path: "/css/style.css", wantKind: outcomeRespond},
		{name: "missing file falls through", dir: dir, method: http.MethodGet, path: "/css/missing.css", wantKind: outcomeContinue},
		{name: "directory falls through", dir: dir, method: http.MethodGet, path: "/css", wantKind: outcomeContinue},
		{name: "post falls through", dir: dir, method: http.MethodPost, path: "/css/style.css", wantKind: outcomeContinue},
		{name: "traversal stays inside dir", dir: dir, method: http.MethodGet, path: "/../../etc/passwd", wantKind: outcomeContinue},
		{name: "no directory configured", dir: "", method: http.MethodGet, path: "/css/style.css", wantKind: outcomeContinue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			x := newTestExchange(rr, httptest.NewRequest(tt.method, tt.path, nil))

			out := newStaticStage(tt.dir).Process(x)

			assert.Equal(t, tt.wantKind, out.kind)
			if tt.wantKind == outcomeRespond {
				assert.Equal(t, http.StatusOK, rr.Code)
			}
		})
	}
}

func TestStaticStage_ServesContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "favicon.txt"), []byte("natours"), 0o600))

	rr := httptest.NewRecorder()
	x := newTestExchange(rr, httptest.NewRequest(http.MethodGet, "/favicon.txt", nil))
	newStaticStage(dir).Process(x)

	assert.Equal(t, "natours", rr.Body.String())
}
