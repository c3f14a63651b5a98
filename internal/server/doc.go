// Package server runs the HTTP listener and the background workers.
//
// It owns the process lifecycle: startup, stop-signal handling and the
// graceful drain of in-flight requests.
package server
