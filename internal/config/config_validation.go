// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	switch cfg.App.RunMode {
	case RunModeDevelopment, RunModeProduction:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRunMode, cfg.App.RunMode)
	}

	if cfg.Auth.JWTSecret == "" || cfg.Auth.JWTExpiresIn <= 0 || cfg.Auth.JWTCookieExpiresInDays <= 0 {
		return ErrInvalidAuthConfigs
	}

	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, passwordPlaceholder) {
		return ErrInvalidStorageConfigs
	}

	if cfg.RateLimit.Max <= 0 || cfg.RateLimit.Window <= 0 {
		return ErrInvalidRateLimitConfigs
	}
	switch cfg.RateLimit.Backend {
	case RateLimitBackendMemory, RateLimitBackendPostgres:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidRateLimitConfigs, cfg.RateLimit.Backend)
	}

	switch cfg.Mail.Transport {
	case MailTransportSMTP, MailTransportSendGrid, MailTransportAMQP:
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidMailConfigs, cfg.Mail.Transport)
	}

	return nil
}
