package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
)

const (
	// maxBodyBytes is the ceiling for JSON and URL-encoded bodies.
	maxBodyBytes = 10 << 10

	// maxRawBodyBytes is the ceiling for the raw payment callback body.
	maxRawBodyBytes = 100 << 10
)

// bodyStage parses JSON and URL-encoded bodies into the exchange. Bodies of
// any other type are read against the same ceiling and dropped. The body of
// rawPath is kept as the exact bytes received.
type bodyStage struct {
	rawPath string
}

func newBodyStage(rawPath string) *bodyStage {
	return &bodyStage{rawPath: rawPath}
}

func (s *bodyStage) Process(x *Exchange) Outcome {
	r := x.Request
	if r.Body == nil || r.Body == http.NoBody {
		return Continue()
	}

	if r.URL.Path == s.rawPath {
		raw, err := readLimited(x.Writer, r, maxRawBodyBytes)
		if err != nil {
			return Fail(err)
		}
		r.Body = io.NopCloser(bytes.NewReader(raw))
		return Continue()
	}

	raw, err := readLimited(x.Writer, r, maxBodyBytes)
	if err != nil {
		return Fail(err)
	}
	// Handlers only ever see a body parsed here.
	r.Body = http.NoBody
	r.ContentLength = 0

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if len(bytes.TrimSpace(raw)) == 0 {
			return Continue()
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var body any
		if err := dec.Decode(&body); err != nil {
			return Fail(apperror.Wrap(err, http.StatusBadRequest, app.MsgInvalidJSON))
		}
		x.SetBody(body)

	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return Fail(apperror.Wrap(err, http.StatusBadRequest, app.MsgInvalidForm))
		}
		x.SetBody(formBody(values))
	}

	return Continue()
}

// readLimited reads the whole body, failing with 400 once limit is exceeded.
func readLimited(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperror.Wrap(err, http.StatusBadRequest, app.MsgBodyTooLarge)
		}
		return nil, fmt.Errorf("error reading request body: %w", err)
	}

	return raw, nil
}

// formBody turns form values into a JSON-like object. Repeated keys become
// arrays.
func formBody(values url.Values) map[string]any {
	body := make(map[string]any, len(values))
	for key, vs := range values {
		if len(vs) == 1 {
			body[key] = vs[0]
			continue
		}
		list := make([]any, len(vs))
		for i, v := range vs {
			list[i] = v
		}
		body[key] = list
	}

	return body
}
