package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
	"github.com/MKhiriev/go-tour-booking/internal/config"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/service"
	"github.com/MKhiriev/go-tour-booking/internal/store"
	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/go-chi/chi/v5/middleware"
)

// webhookPath receives payment provider callbacks with an unparsed body.
const webhookPath = "/webhook-checkout"

type Handler struct {
	services   *service.Services
	rateLimits store.RateLimitStore
	views      *viewRenderer

	cfg                 config.StructuredConfig
	cookieExpiresInDays int

	logger *logger.Logger
}

func NewHandler(services *service.Services, rateLimits store.RateLimitStore, cfg config.StructuredConfig, logger *logger.Logger) (*Handler, error) {
	views, err := newViewRenderer()
	if err != nil {
		return nil, fmt.Errorf("error loading views: %w", err)
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:            services,
		rateLimits:          rateLimits,
		views:               views,
		cfg:                 cfg,
		cookieExpiresInDays: cfg.Auth.JWTCookieExpiresInDays,
		logger:              logger,
	}, nil
}

// Init assembles the request pipeline. The stage order is fixed: rate
// limiting runs before any body is read, and the raw webhook body is kept
// before generic parsing could consume it.
func (h *Handler) Init() http.Handler {
	pipeline := NewPipeline(
		NewErrorHandler(h.cfg.App.IsDevelopment(), h.views),
		newCORSStage(h.cfg.Server.CORSOrigins),
		newStaticStage(h.cfg.Server.StaticDir),
		newSecurityHeadersStage(),
		newDevLoggingStage(h.cfg.App.IsDevelopment()),
		newRateLimitStage(h.rateLimits, h.cfg.RateLimit, time.Now),
		newBodyStage(webhookPath),
		cookieStage{},
		newSanitizeStage(),
		newParameterPollutionStage(multiValueParams),
		gzipStage{},
		newTimestampStage(time.Now),
		dispatchStage{router: h.routes()},
	)

	return middleware.RealIP(h.withTraceID(pipeline))
}

// handle adapts an error-returning handler to net/http. The error is left
// to the pipeline's error handler.
func (h *Handler) handle(fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			failRequest(r, err)
		}
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, data any, statusCode int) {
	if _, err := utils.WriteJSON(w, data, statusCode); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "Handler.writeJSON").Msg("error writing response")
	}
}

// baseURL is the configured public URL, or the scheme and host the request
// was made to.
func (h *Handler) baseURL(r *http.Request) string {
	if h.cfg.App.BaseURL != "" {
		return h.cfg.App.BaseURL
	}

	scheme := "http"
	if isSecure(r) {
		scheme = "https"
	}

	return scheme + "://" + r.Host
}

// decodeJSON reads the request body into dst. An empty body leaves dst
// untouched.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperror.Wrap(err, http.StatusBadRequest, app.MsgInvalidJSON)
	}

	return nil
}
