package http

import (
	"time"

	"github.com/MKhiriev/go-tour-booking/internal/logger"
)

// devLoggingStage writes one line per request in development mode. In any
// other mode it does nothing.
type devLoggingStage struct {
	enabled bool
	now     func() time.Time
}

func newDevLoggingStage(enabled bool) *devLoggingStage {
	return &devLoggingStage{enabled: enabled, now: time.Now}
}

func (s *devLoggingStage) Process(x *Exchange) Outcome {
	if !s.enabled {
		return Continue()
	}

	log := logger.FromRequest(x.Request)
	start := s.now()
	uri := x.Request.RequestURI
	method := x.Request.Method

	lw := &responseWriter{ResponseWriter: x.Writer}
	x.Writer = lw

	x.OnFinish(func() {
		log.Info().
			Str("uri", uri).
			Str("method", method).
			Int("status", lw.status).
			Dur("duration", s.now().Sub(start)).
			Int("size", lw.size).
			Send()
	})

	return Continue()
}
