// Package http implements the HTTP transport layer of the application.
//
// Every request runs through a fixed pipeline of stages (CORS, static
// assets, security headers, request logging, rate limiting, body parsing,
// cookie parsing, sanitization, parameter pollution, compression, request
// timestamp) before it reaches the router. Route handlers report failures
// instead of writing them; the error handler is the single place that turns
// an error into a JSON body or a rendered error page.
package http
