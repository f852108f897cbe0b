package model

import (
	"strings"
)

// DefaultHTTPVersion is the protocol version written on request lines
const DefaultHTTPVersion = "HTTP/1.1"

// DefaultUserAgent is sent when a request carries no User-Agent header
const DefaultUserAgent = "Casio Typewriter"

// RequestLine is the first line of an HTTP request
type RequestLine struct {
	// Method is the request method, e.g. GET
	Method string
	// Target is the request target, usually path and query
	Target string
	// Version is the protocol version, HTTP/1.1 when empty
	Version string
}

// NewRequestLine creates a request line with an upper-cased method and the default version
func NewRequestLine(method, target string) RequestLine {
	return RequestLine{
		Method:  strings.ToUpper(method),
		Target:  target,
		Version: DefaultHTTPVersion,
	}
}

// String renders the request line without the line terminator
func (l RequestLine) String() string {
	version := l.Version
	if version == "" {
		version = DefaultHTTPVersion
	}
	return l.Method + " " + l.Target + " " + version
}

// HTTPRequestMessage is an HTTP request as it is written on the wire
type HTTPRequestMessage struct {
	RequestLine RequestLine
	Header      *Header
	Body        string
}

// NewHTTPRequestMessage creates a request message with an empty header
func NewHTTPRequestMessage(method, target string) *HTTPRequestMessage {
	return &HTTPRequestMessage{
		RequestLine: NewRequestLine(method, target),
		Header:      NewHeader(),
	}
}

// ApplyDefaultHeaders fills the headers every request carries unless the caller set them
func (m *HTTPRequestMessage) ApplyDefaultHeaders(host, userAgent string) {
	if m.Header == nil {
		m.Header = NewHeader()
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	m.Header.SetDefault("Host", host)
	m.Header.SetDefault("Connection", "keep-alive")
	m.Header.SetDefault("User-Agent", userAgent)
	m.Header.SetDefault("Accept", "*/*")
}

// String renders the full message the way it is transmitted
func (m *HTTPRequestMessage) String() string {
	var b strings.Builder
	b.WriteString(m.RequestLine.String())
	b.WriteString("\r\n")
	for _, f := range m.Header.Fields() {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return b.String()
}

// StatusLine is the first line of an HTTP response
type StatusLine struct {
	Version      string
	StatusCode   string
	ReasonPhrase string
}

// String renders the status line without the line terminator
func (l StatusLine) String() string {
	return l.Version + " " + l.StatusCode + " " + l.ReasonPhrase
}

// HTTPResponseMessage is an HTTP response as it was read off the wire
type HTTPResponseMessage struct {
	StatusLine StatusLine
	Header     *Header
	Body       string
}

// String renders the response head and body
func (m *HTTPResponseMessage) String() string {
	var b strings.Builder
	b.WriteString(m.StatusLine.String())
	b.WriteString("\r\n")
	if m.Header.Len() > 0 {
		b.WriteString(m.Header.Format())
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(m.Body)
	return b.String()
}

// IsRedirect reports whether the status code is in the 3xx range
func (m *HTTPResponseMessage) IsRedirect() bool {
	return len(m.StatusLine.StatusCode) == 3 && m.StatusLine.StatusCode[0] == '3'
}
