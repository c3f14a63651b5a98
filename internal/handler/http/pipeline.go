// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-tour-booking/internal/app"
	"github.com/MKhiriev/go-tour-booking/internal/apperror"
	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/internal/utils"
	"github.com/MKhiriev/go-tour-booking/models"
)

type outcomeKind int

const (
	outcomeContinue outcomeKind = iota
	outcomeRespond
	outcomeFail
)

// Outcome is the result of one stage: pass the exchange on, stop because a
// response was written, or stop with an error for the error handler.
type Outcome struct {
	kind outcomeKind
	err  error
}

// Continue passes the exchange to the next stage.
func Continue() Outcome {
	return Outcome{kind: outcomeContinue}
}

// Respond stops the pipeline. The stage has written the response.
func Respond() Outcome {
	return Outcome{kind: outcomeRespond}
}

// Fail stops the pipeline and hands err to the error handler.
func Fail(err error) Outcome {
	return Outcome{kind: outcomeFail, err: err}
}

// Err is the error carried by a failed outcome.
func (o Outcome) Err() error {
	return o.err
}

// Stage is one step of the request pipeline.
type Stage interface {
	Process(x *Exchange) Outcome
}

// StageFunc adapts a function to [Stage].
type StageFunc func(x *Exchange) Outcome

func (f StageFunc) Process(x *Exchange) Outcome {
	return f(x)
}

// Exchange is one request travelling through the pipeline. Stages may
// replace Writer and Request; later stages and the error handler see the
// replacements.
type Exchange struct {
	Writer  http.ResponseWriter
	Request *http.Request

	root       *responseWriter
	body       any
	hasBody    bool
	finalizers []func()
	err        error
}

// RequestContext returns the request-scoped state.
func (x *Exchange) RequestContext() models.RequestContext {
	rc, _ := utils.GetRequestContext(x.Request.Context())
	return rc
}

// SetRequestContext stores rc for the stages and handlers that follow.
func (x *Exchange) SetRequestContext(rc models.RequestContext) {
	x.Request = x.Request.WithContext(utils.WithRequestContext(x.Request.Context(), rc))
}

// Body returns the parsed request payload.
func (x *Exchange) Body() (any, bool) {
	return x.body, x.hasBody
}

// SetBody replaces the parsed request payload. Handlers receive it
// re-encoded as JSON.
func (x *Exchange) SetBody(body any) {
	x.body = body
	x.hasBody = true
}

// OnFinish registers f to run once the response is complete. Finalizers
// run in reverse registration order.
func (x *Exchange) OnFinish(f func()) {
	x.finalizers = append(x.finalizers, f)
}

// Started reports whether the response status line has been written.
func (x *Exchange) Started() bool {
	return x.root.wroteHeader
}

// commitBody hands the parsed payload to handlers as a JSON body.
func (x *Exchange) commitBody() error {
	if !x.hasBody {
		return nil
	}

	data, err := json.Marshal(x.body)
	if err != nil {
		return fmt.Errorf("error encoding request body: %w", err)
	}

	r := x.Request
	r.Body = io.NopCloser(bytes.NewReader(data))
	r.ContentLength = int64(len(data))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Content-Length", strconv.Itoa(len(data)))

	return nil
}

type exchangeCtxKey struct{}

// failRequest records err as the outcome of the routed handler. Guards and
// handlers call it instead of writing an error response themselves.
func failRequest(r *http.Request, err error) {
	if x, ok := r.Context().Value(exchangeCtxKey{}).(*Exchange); ok {
		x.err = err
		return
	}

	logger.FromRequest(r).Err(err).Msg("request failed outside of the pipeline")
}

// panicError is a recovered stage or handler panic.
type panicError struct {
	value any
	stack string
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) StackTrace() string {
	return e.stack
}

// Pipeline runs stages in order until one of them does not continue. The
// error handler is the single terminal step of the failure path.
type Pipeline struct {
	stages       []Stage
	errorHandler *ErrorHandler
}

// NewPipeline returns a pipeline over stages. Their order is fixed.
func NewPipeline(errorHandler *ErrorHandler, stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages, errorHandler: errorHandler}
}

func (p *Pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	root := &responseWriter{ResponseWriter: w}
	x := &Exchange{Writer: root, root: root}
	x.Request = r.WithContext(context.WithValue(r.Context(), exchangeCtxKey{}, x))
	x.SetRequestContext(models.RequestContext{})

	defer func() {
		for i := len(x.finalizers) - 1; i >= 0; i-- {
			x.finalizers[i]()
		}
	}()

	for _, stage := range p.stages {
		out := runStage(stage, x)
		switch out.kind {
		case outcomeContinue:
			continue
		case outcomeFail:
			p.errorHandler.Handle(x, out.err)
		}
		return
	}

	// Nothing answered: the same as an unmatched route.
	p.errorHandler.Handle(x, apperror.NotFound(fmt.Sprintf(app.MsgRouteNotFoundFmt, r.RequestURI)))
}

func runStage(stage Stage, x *Exchange) (out Outcome) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if v == http.ErrAbortHandler {
			panic(v)
		}
		out = Fail(&panicError{value: v, stack: apperror.Stack(3)})
	}()

	return stage.Process(x)
}

// dispatchStage hands the exchange to the router. Handler failures reported
// through [failRequest] become the stage's outcome.
type dispatchStage struct {
	router http.Handler
}

func (s dispatchStage) Process(x *Exchange) Outcome {
	if err := x.commitBody(); err != nil {
		return Fail(err)
	}

	x.err = nil
	s.router.ServeHTTP(x.Writer, x.Request)
	if x.err != nil {
		return Fail(x.err)
	}

	return Respond()
}
