package model

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Endpoint describes where and how a Transport opens a stream
type Endpoint struct {
	// Scheme selects TLS when it is https
	Scheme string
	Host   string
	Port   int
	// ConnectTimeout bounds the connect and the TLS handshake
	ConnectTimeout time.Duration
	// ReadTimeout is refreshed before every read
	ReadTimeout time.Duration
	// WriteTimeout is refreshed before every write
	WriteTimeout time.Duration
}

// IsTLS reports whether the endpoint needs a TLS stream
func (e Endpoint) IsTLS() bool {
	return e.Scheme == "https" || e.Scheme == "wss"
}

// Address returns host:port
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// DefaultPort returns 443 for TLS schemes and 80 otherwise
func DefaultPort(tls bool) int {
	if tls {
		return 443
	}
	return 80
}

// EndpointFromURL derives an endpoint from an http(s) or ws(s) URL
func EndpointFromURL(u *url.URL) (Endpoint, error) {
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return Endpoint{}, fmt.Errorf("invalid scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return Endpoint{}, fmt.Errorf("missing host in %q", u.String())
	}

	ep := Endpoint{Scheme: u.Scheme, Host: u.Hostname()}
	ep.Port = DefaultPort(ep.IsTLS())
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return Endpoint{}, fmt.Errorf("invalid port %q", p)
		}
		ep.Port = port
	}
	return ep, nil
}

// RequestTarget returns the origin-form target of u: path plus query, "/" when empty
func RequestTarget(u *url.URL) string {
	target := u.EscapedPath()
	if target == "" {
		target = "/"
	}
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target
}

// ExchangeState is the step a request/response exchange has reached
type ExchangeState string

const (
	StateIdle             ExchangeState = "idle"
	StateConnecting       ExchangeState = "connecting"
	StateSending          ExchangeState = "sending"
	StateAwaitingResponse ExchangeState = "awaiting_response"
	StateCookieHarvest    ExchangeState = "cookie_harvest"
	StateDone             ExchangeState = "done"
	StateFailed           ExchangeState = "failed"
)
