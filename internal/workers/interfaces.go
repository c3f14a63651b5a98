// Package workers runs the background jobs of the application next to the
// HTTP server.
package workers

import "context"

// Worker is a background job. Run blocks until ctx is cancelled or the job
// fails; a cancelled context is a clean stop and returns nil.
type Worker interface {
	Run(ctx context.Context) error
}
