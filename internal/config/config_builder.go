package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

// build merges the collected configs (earlier sources win), resolves the
// values that depend on other fields and validates the result.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergeInto(config, cfg); err != nil {
			return nil, err
		}
	}

	config.resolve()

	return config, config.validate()
}

// mergeInto copies every field of src that is still zero in dst.
func mergeInto(dst, src *StructuredConfig) error {
	if err := mergo.Merge(dst, src); err != nil {
		return fmt.Errorf("error merging configs: %w", err)
	}
	return nil
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags() *configBuilder {
	flagsCfg, err := parseFlags(os.Args[1:])
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flagsCfg)
	return b
}

func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, jsonCfg)

	return b
}

// withDefaults appends the built-in defaults as the lowest-priority source.
func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, defaultConfig())
	return b
}

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			RunMode: RunModeProduction,
		},
		Auth: Auth{
			JWTExpiresIn:           90 * 24 * time.Hour,
			JWTCookieExpiresInDays: 90,
		},
		Storage: Storage{
			DB: DB{MaxOpenConns: 10},
		},
		Server: Server{
			HTTPAddress:     ":3000",
			StaticDir:       "public",
			CORSOrigins:     []string{"*"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		RateLimit: RateLimit{
			Max:        100,
			Window:     time.Hour,
			PathPrefix: "/api",
			Backend:    RateLimitBackendMemory,
		},
		Mail: Mail{
			From:        "hello@natours.io",
			FromName:    "AbdElrhman",
			Port:        587,
			SendGridURL: "https://api.sendgrid.com",
			AMQPQueue:   "email_jobs",
			Timeout:     10 * time.Second,
		},
		Payment: Payment{
			Currency: "usd",
		},
		Workers: Workers{
			RateLimitPruneInterval: 10 * time.Minute,
		},
	}
}

// resolve fills fields derived from other fields.
func (cfg *StructuredConfig) resolve() {
	if cfg.Storage.DB.Password != "" {
		cfg.Storage.DB.DSN = strings.ReplaceAll(cfg.Storage.DB.DSN, passwordPlaceholder, cfg.Storage.DB.Password)
	}

	if cfg.Mail.Transport == "" {
		if cfg.App.IsDevelopment() {
			cfg.Mail.Transport = MailTransportSMTP
		} else {
			cfg.Mail.Transport = MailTransportSendGrid
		}
	}
}
