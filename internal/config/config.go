// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Run modes accepted by App.RunMode.
const (
	RunModeDevelopment = "development"
	RunModeProduction  = "production"
)

// Mail transports accepted by Mail.Transport.
const (
	MailTransportSMTP     = "smtp"
	MailTransportSendGrid = "sendgrid"
	MailTransportAMQP     = "amqp"
)

// Rate-limit counter backends accepted by RateLimit.Backend.
const (
	RateLimitBackendMemory   = "memory"
	RateLimitBackendPostgres = "postgres"
)

// passwordPlaceholder is replaced in the DSN by DB.Password.
const passwordPlaceholder = "<PASSWORD>"

// StructuredConfig is the top-level configuration container of the
// tour-booking server. It is populated by merging values from environment
// variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds the run mode and the public base URL.
	App App `envPrefix:"APP_"`

	// Auth holds token signing and cookie lifetime settings.
	Auth Auth `envPrefix:"AUTH_"`

	// Storage holds the relational database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listener, static assets, CORS and timeout settings.
	Server Server `envPrefix:"SERVER_"`

	// RateLimit holds the /api request ceiling and its counter backend.
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`

	// Mail holds outbound mail transport settings.
	Mail Mail `envPrefix:"MAIL_"`

	// Payment holds payment provider credentials.
	Payment Payment `envPrefix:"PAYMENT_"`

	// Workers holds background worker settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level settings.
type App struct {
	// RunMode is "development" (verbose errors, request logging) or
	// "production".
	// Env: APP_RUN_MODE
	RunMode string `env:"RUN_MODE"`

	// BaseURL overrides the scheme://host used in links sent by email.
	// When empty the request's own scheme and host are used.
	// Env: APP_BASE_URL
	BaseURL string `env:"BASE_URL"`
}

// IsDevelopment reports whether the server runs in development mode.
func (a App) IsDevelopment() bool {
	return a.RunMode == RunModeDevelopment
}

// Auth holds session token settings.
type Auth struct {
	// JWTSecret signs and verifies session tokens.
	// Env: AUTH_JWT_SECRET
	JWTSecret string `env:"JWT_SECRET"`

	// JWTExpiresIn is the token lifetime (e.g. "2160h").
	// Env: AUTH_JWT_EXPIRES_IN
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN"`

	// JWTCookieExpiresInDays is the lifetime of the jwt cookie in days.
	// Env: AUTH_JWT_COOKIE_EXPIRES_IN
	JWTCookieExpiresInDays int `env:"JWT_COOKIE_EXPIRES_IN"`
}

// Storage groups the configuration for storage backends.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for PostgreSQL.
type DB struct {
	// DSN is the connection string. It may contain the "<PASSWORD>"
	// placeholder, substituted with Password when the config is built.
	// Env: STORAGE_DB_DATABASE
	DSN string `env:"DATABASE"`

	// Password replaces "<PASSWORD>" in DSN.
	// Env: STORAGE_DB_DATABASE_PASSWORD
	Password string `env:"DATABASE_PASSWORD"`

	// MaxOpenConns caps the connection pool.
	// Env: STORAGE_DB_MAX_OPEN_CONNS
	MaxOpenConns int `env:"MAX_OPEN_CONNS"`
}

// Server holds network and timeout settings for the HTTP listener.
type Server struct {
	// HTTPAddress is the TCP address the server listens on (e.g. ":3000").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// StaticDir is the directory served by the static-asset stage.
	// Env: SERVER_STATIC_DIR
	StaticDir string `env:"STATIC_DIR"`

	// CORSOrigins lists the allowed cross-origin callers ("*" for any).
	// Env: SERVER_CORS_ORIGINS (comma separated)
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// ReadTimeout bounds reading an entire request.
	// Env: SERVER_READ_TIMEOUT
	ReadTimeout time.Duration `env:"READ_TIMEOUT"`

	// WriteTimeout bounds writing a response.
	// Env: SERVER_WRITE_TIMEOUT
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT"`

	// ShutdownTimeout bounds the graceful drain after a stop signal.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// RateLimit holds the request ceiling applied to PathPrefix.
type RateLimit struct {
	// Max is the number of requests allowed per client address per Window.
	// Env: RATE_LIMIT_MAX
	Max int `env:"MAX"`

	// Window is the counting window.
	// Env: RATE_LIMIT_WINDOW
	Window time.Duration `env:"WINDOW"`

	// PathPrefix scopes the limiter.
	// Env: RATE_LIMIT_PREFIX
	PathPrefix string `env:"PREFIX"`

	// Backend selects the counter store: "memory" or "postgres".
	// Env: RATE_LIMIT_BACKEND
	Backend string `env:"BACKEND"`
}

// Mail holds outbound mail settings.
type Mail struct {
	// Transport selects "smtp", "sendgrid" or "amqp". Defaults to smtp in
	// development and sendgrid in production.
	// Env: MAIL_TRANSPORT
	Transport string `env:"TRANSPORT"`

	// From is the sender address.
	// Env: MAIL_FROM
	From string `env:"FROM"`

	// FromName is the sender display name.
	// Env: MAIL_FROM_NAME
	FromName string `env:"FROM_NAME"`

	// Host, Port, Username and Password configure the SMTP relay.
	// Env: MAIL_HOST, MAIL_PORT, MAIL_USERNAME, MAIL_PASSWORD
	Host     string `env:"HOST"`
	Port     int    `env:"PORT"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`

	// SendGridAPIKey authenticates against the SendGrid v3 API.
	// Env: MAIL_SENDGRID_API_KEY
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`

	// SendGridURL is the API base URL.
	// Env: MAIL_SENDGRID_URL
	SendGridURL string `env:"SENDGRID_URL"`

	// AMQPURL and AMQPQueue configure the mail job queue.
	// Env: MAIL_AMQP_URL, MAIL_AMQP_QUEUE
	AMQPURL   string `env:"AMQP_URL"`
	AMQPQueue string `env:"AMQP_QUEUE"`

	// Timeout bounds a single delivery attempt.
	// Env: MAIL_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Payment holds payment provider settings.
type Payment struct {
	// StripeSecretKey authenticates API calls.
	// Env: PAYMENT_STRIPE_SECRET_KEY
	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`

	// StripeWebhookSecret verifies webhook signatures.
	// Env: PAYMENT_STRIPE_WEBHOOK_SECRET
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`

	// Currency is the ISO currency code of tour prices.
	// Env: PAYMENT_CURRENCY
	Currency string `env:"CURRENCY"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// RateLimitPruneInterval is how often expired rate-limit buckets are removed.
	// Env: WORKERS_RATE_LIMIT_PRUNE_INTERVAL
	RateLimitPruneInterval time.Duration `env:"RATE_LIMIT_PRUNE_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources. For each field the first
// source holding a non-zero value wins:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
