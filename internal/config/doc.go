// Package config provides configuration loading, merging, and validation
// for the tour-booking server.
//
// Configuration is assembled from multiple sources. For every field the
// first source holding a non-zero value wins:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The DSN may contain a "<PASSWORD>" placeholder which is replaced with
// the separately supplied database password.
//
// The main entry point is [GetStructuredConfig].
package config
