package http

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// middlewareStage runs a standard net/http middleware as a pipeline stage.
// The stage continues when the middleware calls its next handler and
// responds otherwise.
type middlewareStage struct {
	middleware func(http.Handler) http.Handler
}

func (s middlewareStage) Process(x *Exchange) Outcome {
	passed := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		passed = true
		x.Writer = w
		x.Request = r
	})

	s.middleware(next).ServeHTTP(x.Writer, x.Request)
	if passed {
		return Continue()
	}

	return Respond()
}

// newCORSStage allows the given origins. Preflight requests are answered
// here and never reach later stages. A "*" origin answers with a literal
// wildcard, which browsers refuse for credentialed requests, so credentials
// are only allowed for an explicit origin list.
func newCORSStage(origins []string) Stage {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", traceIDHeader},
		ExposedHeaders:   []string{traceIDHeader, headerRateLimitLimit, headerRateLimitRemaining, headerRateLimitReset},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	})

	return middlewareStage{middleware: c.Handler}
}
