package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses command-line flags from args into a config.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-mode run mode (development or production)
//	-jwt-secret token signing secret
//	-jwt-expires-in token lifetime (e.g., "720h")
//	-static-dir directory with public assets
//	-rate-limit-backend rate limit counter store (memory or postgres)
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("tour-booking", flag.ContinueOnError)

	var serverAddress NetAddress
	var databaseDSN, jsonConfigPath, runMode, jwtSecret, staticDir, rateLimitBackend string
	var jwtExpiresIn time.Duration

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&runMode, "mode", "", "Run mode: development or production")
	fs.StringVar(&jwtSecret, "jwt-secret", "", "Token signing secret")
	fs.DurationVar(&jwtExpiresIn, "jwt-expires-in", 0, "Token lifetime (e.g., 720h)")
	fs.StringVar(&staticDir, "static-dir", "", "Directory with public assets")
	fs.StringVar(&rateLimitBackend, "rate-limit-backend", "", "Rate limit counter store: memory or postgres")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			RunMode: runMode,
		},
		Auth: Auth{
			JWTSecret:    jwtSecret,
			JWTExpiresIn: jwtExpiresIn,
		},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		Server: Server{
			HTTPAddress: serverAddress.String(),
			StaticDir:   staticDir,
		},
		RateLimit: RateLimit{
			Backend: rateLimitBackend,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form [host]:port and populates the
// NetAddress. An empty host listens on all interfaces.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
