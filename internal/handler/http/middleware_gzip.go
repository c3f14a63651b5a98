package http

import (
	"compress/gzip"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() any {
		w := gzip.NewWriter(nil)
		return w
	},
}

// gzipStage compresses the response when the client accepts gzip. The
// compressor is flushed and returned to the pool when the exchange finishes.
type gzipStage struct{}

func (gzipStage) Process(x *Exchange) Outcome {
	if !strings.Contains(x.Request.Header.Get("Accept-Encoding"), "gzip") {
		return Continue()
	}

	gzipWriter := gzipWriterPool.Get().(*gzip.Writer)
	gzipWriter.Reset(x.Writer)

	gzipRW := &gzipResponseWriter{
		ResponseWriter: x.Writer,
		gzipWriter:     gzipWriter,
	}
	x.Writer = gzipRW

	x.OnFinish(func() {
		gzipRW.Close()
		gzipWriterPool.Put(gzipWriter)
	})

	return Continue()
}

// gzipResponseWriter compresses bodies of responses that may carry one.
// 204 and 304 responses pass through untouched.
type gzipResponseWriter struct {
	http.ResponseWriter
	gzipWriter  *gzip.Writer
	wroteHeader bool
	compress    bool
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	if statusCode != http.StatusNoContent && statusCode != http.StatusNotModified {
		w.compress = true
		h := w.Header()
		h.Del("Content-Length")
		h.Set("Content-Encoding", "gzip")
		h.Add("Vary", "Accept-Encoding")
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if !w.compress {
		return w.ResponseWriter.Write(data)
	}

	return w.gzipWriter.Write(data)
}

// Close flushes the gzip footer. It is a no-op for uncompressed responses.
func (w *gzipResponseWriter) Close() error {
	if !w.compress {
		return nil
	}

	return w.gzipWriter.Close()
}

func (w *gzipResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
