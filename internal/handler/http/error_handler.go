package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/utils"
)

const (
	apiPathPrefix  = "/api"
	errorViewTitle = "Something went wrong!"
)

// errorBody is the JSON error response. Error and Stack are only filled in
// verbose mode.
type errorBody struct {
	Status  string       `json:"status"`
	Error   *errorDetail `json:"error,omitempty"`
	Message string       `json:"message"`
	Stack   string       `json:"stack,omitempty"`
}

type errorDetail struct {
	StatusCode    int    `json:"statusCode"`
	Status        string `json:"status"`
	IsOperational bool   `json:"isOperational"`
	Cause         string `json:"cause,omitempty"`
}

type stackTracer interface {
	StackTrace() string
}

// ErrorHandler turns any error into exactly one response. Verbose mode
// exposes raw errors and stacks; minimal mode describes operational errors
// only.
type ErrorHandler struct {
	verbose bool
	views   *viewRenderer
}

func NewErrorHandler(verbose bool, views *viewRenderer) *ErrorHandler {
	return &ErrorHandler{verbose: verbose, views: views}
}

// Handle writes the error response for err. API paths get JSON, everything
// else gets the rendered error page.
func (e *ErrorHandler) Handle(x *Exchange, err error) {
	log := logger.FromRequest(x.Request)

	if !e.verbose {
		err = translateError(err)
	}

	opErr, operational := apperror.As(err)
	if operational {
		log.Debug().Err(err).Int("status", opErr.StatusCode()).Msg("operational error")
	} else {
		log.Error().Err(err).Str("func", "ErrorHandler.Handle").Str("uri", x.Request.RequestURI).Msg("unexpected error")
	}

	if x.Started() {
		log.Warn().Err(err).Msg("response already started, error not delivered")
		return
	}

	statusCode := http.StatusInternalServerError
	if operational {
		statusCode = opErr.StatusCode()
	}

	if strings.HasPrefix(x.Request.URL.Path, apiPathPrefix) {
		e.writeJSON(x, err, opErr, statusCode)
		return
	}
	e.writeView(x, err, opErr, statusCode)
}

func (e *ErrorHandler) writeJSON(x *Exchange, err error, opErr *apperror.OperationalError, statusCode int) {
	body := errorBody{Status: apperror.StatusClass(statusCode)}

	switch {
	case e.verbose:
		body.Message = err.Error()
		body.Error = &errorDetail{
			StatusCode:    statusCode,
			Status:        body.Status,
			IsOperational: opErr != nil,
		}
		if cause := errorsCause(opErr); cause != nil {
			body.Error.Cause = cause.Error()
		}
		var st stackTracer
		if errors.As(err, &st) {
			body.Stack = st.StackTrace()
		}
	case opErr != nil:
		body.Message = opErr.Message()
	default:
		body.Message = app.MsgSomethingWentWrong
	}

	if _, err := utils.WriteJSON(x.Writer, body, statusCode); err != nil {
		logger.FromRequest(x.Request).Err(err).Str("func", "ErrorHandler.writeJSON").Msg("error writing error response")
	}
}

func (e *ErrorHandler) writeView(x *Exchange, err error, opErr *apperror.OperationalError, statusCode int) {
	msg := app.MsgTryAgainLater
	switch {
	case e.verbose:
		msg = err.Error()
	case opErr != nil:
		msg = opErr.Message()
	}

	data := viewData{Title: errorViewTitle, Msg: msg}
	if err := e.views.render(x.Writer, statusCode, viewError, data); err != nil {
		logger.FromRequest(x.Request).Err(err).Str("func", "ErrorHandler.writeView").Msg("error rendering error page")
	}
}

func errorsCause(opErr *apperror.OperationalError) error {
	if opErr == nil {
		return nil
	}

	return opErr.Unwrap()
}
