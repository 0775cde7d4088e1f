package server

import (
	"net"
	"strconv"
	"time"

	"github.com/agentstation/amjd/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	Host       string
	Port       int
	PathPrefix string

	// CORSOrigins enables CORS when non-empty; "*" allows any origin.
	CORSOrigins []string

	// CacheTTL bounds how long a loaded event index and conversion results
	// are reused.
	CacheTTL time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// RequestTimeout is the deadline placed on each request's context;
	// zero disables it.
	RequestTimeout time.Duration

	MetricsEnabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           constants.DefaultServerHost,
		Port:           constants.DefaultServerPort,
		PathPrefix:     constants.DefaultPathPrefix,
		CacheTTL:       constants.DefaultCacheTTL,
		ReadTimeout:    constants.ServerReadTimeout,
		WriteTimeout:   constants.ServerWriteTimeout,
		IdleTimeout:    constants.ServerIdleTimeout,
		RequestTimeout: constants.RequestTimeout,
		MetricsEnabled: true,
	}
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
