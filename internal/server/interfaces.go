// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "context"

// Server defines the lifecycle contract of the application server.
type Server interface {
	// Run serves requests until ctx is cancelled, a stop signal arrives or
	// a component fails, then drains and returns the first failure.
	Run(ctx context.Context) error
}
