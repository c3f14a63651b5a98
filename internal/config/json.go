package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk layout of the JSON configuration file.
type StructuredJSONConfig struct {
	App struct {
		RunMode string `json:"run_mode"`
		BaseURL string `json:"base_url"`
	} `json:"app,omitempty"`

	Auth struct {
		JWTSecret              string   `json:"jwt_secret"`
		JWTExpiresIn           Duration `json:"jwt_expires_in"`
		JWTCookieExpiresInDays int      `json:"jwt_cookie_expires_in"`
	} `json:"auth,omitempty"`

	Storage struct {
		DB struct {
			DSN          string `json:"database"`
			Password     string `json:"database_password"`
			MaxOpenConns int    `json:"max_open_conns"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		StaticDir       string   `json:"static_dir"`
		CORSOrigins     []string `json:"cors_origins"`
		ReadTimeout     Duration `json:"read_timeout"`
		WriteTimeout    Duration `json:"write_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`

	RateLimit struct {
		Max        int      `json:"max"`
		Window     Duration `json:"window"`
		PathPrefix string   `json:"prefix"`
		Backend    string   `json:"backend"`
	} `json:"rate_limit,omitempty"`

	Mail struct {
		Transport      string   `json:"transport"`
		From           string   `json:"from"`
		FromName       string   `json:"from_name"`
		Host           string   `json:"host"`
		Port           int      `json:"port"`
		Username       string   `json:"username"`
		Password       string   `json:"password"`
		SendGridAPIKey string   `json:"sendgrid_api_key"`
		SendGridURL    string   `json:"sendgrid_url"`
		AMQPURL        string   `json:"amqp_url"`
		AMQPQueue      string   `json:"amqp_queue"`
		Timeout        Duration `json:"timeout"`
	} `json:"mail,omitempty"`

	Payment struct {
		StripeSecretKey     string `json:"stripe_secret_key"`
		StripeWebhookSecret string `json:"stripe_webhook_secret"`
		Currency            string `json:"currency"`
	} `json:"payment,omitempty"`

	Workers struct {
		RateLimitPruneInterval Duration `json:"rate_limit_prune_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var j StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&j); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		App: App{
			RunMode: j.App.RunMode,
			BaseURL: j.App.BaseURL,
		},
		Auth: Auth{
			JWTSecret:              j.Auth.JWTSecret,
			JWTExpiresIn:           time.Duration(j.Auth.JWTExpiresIn),
			JWTCookieExpiresInDays: j.Auth.JWTCookieExpiresInDays,
		},
		Storage: Storage{
			DB: DB{
				DSN:          j.Storage.DB.DSN,
				Password:     j.Storage.DB.Password,
				MaxOpenConns: j.Storage.DB.MaxOpenConns,
			},
		},
		Server: Server{
			HTTPAddress:     j.Server.HTTPAddress,
			StaticDir:       j.Server.StaticDir,
			CORSOrigins:     j.Server.CORSOrigins,
			ReadTimeout:     time.Duration(j.Server.ReadTimeout),
			WriteTimeout:    time.Duration(j.Server.WriteTimeout),
			ShutdownTimeout: time.Duration(j.Server.ShutdownTimeout),
		},
		RateLimit: RateLimit{
			Max:        j.RateLimit.Max,
			Window:     time.Duration(j.RateLimit.Window),
			PathPrefix: j.RateLimit.PathPrefix,
			Backend:    j.RateLimit.Backend,
		},
		Mail: Mail{
			Transport:      j.Mail.Transport,
			From:           j.Mail.From,
			FromName:       j.Mail.FromName,
			Host:           j.Mail.Host,
			Port:           j.Mail.Port,
			Username:       j.Mail.Username,
			Password:       j.Mail.Password,
			SendGridAPIKey: j.Mail.SendGridAPIKey,
			SendGridURL:    j.Mail.SendGridURL,
			AMQPURL:        j.Mail.AMQPURL,
			AMQPQueue:      j.Mail.AMQPQueue,
			Timeout:        time.Duration(j.Mail.Timeout),
		},
		Payment: Payment{
			StripeSecretKey:     j.Payment.StripeSecretKey,
			StripeWebhookSecret: j.Payment.StripeWebhookSecret,
			Currency:            j.Payment.Currency,
		},
		Workers: Workers{
			RateLimitPruneInterval: time.Duration(j.Workers.RateLimitPruneInterval),
		},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as from integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
