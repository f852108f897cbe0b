package model

import (
	"time"
)

// LogLevel defines logging levels
type LogLevel string

const (
	// LogLevelDebug is the level for debug messages
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the level for informational messages
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn is the level for warning messages
	LogLevelWarn LogLevel = "warn"
	// LogLevelError is the level for error messages
	LogLevelError LogLevel = "error"
)

// Config is the configuration structure for the manualhttp client
type Config struct {
	// ConnectTimeout bounds DNS resolution, TCP connect and the TLS handshake
	ConnectTimeout time.Duration
	// ReadTimeout is applied before every read on the connection
	ReadTimeout time.Duration
	// WriteTimeout is applied before every write on the connection
	WriteTimeout time.Duration
	// UserAgent is sent when a request has no User-Agent header
	UserAgent string
	// Encoding is the text encoding of request and response messages
	Encoding string
	// TLSVerify enables certificate validation against the system roots
	TLSVerify bool
	// TLSMinVersion is the lowest accepted TLS version (1.0, 1.1, 1.2, 1.3); empty for the Go default
	TLSMinVersion string
	// FollowRedirects re-issues 3xx responses to their Location
	FollowRedirects bool
	// MaxRedirects caps the number of followed redirects
	MaxRedirects int
	// AttachCookies sends stored cookies matching the request host
	AttachCookies bool
	// LogLevel is the logging level (debug, info, warn, error)
	LogLevel LogLevel
	// LogFile is the path to log file (empty for stderr only)
	LogFile string
}

// NewConfig creates a new Config instance with default values
func NewConfig() *Config {
	return &Config{
		ConnectTimeout:  10 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		UserAgent:       DefaultUserAgent,
		Encoding:        "utf-8",
		TLSVerify:       false,
		TLSMinVersion:   "",
		FollowRedirects: false,
		MaxRedirects:    5,
		AttachCookies:   false,
		LogLevel:        LogLevelWarn,
		LogFile:         "",
	}
}
