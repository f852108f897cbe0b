package wire

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
)

func TestReadResponse(t *testing.T) {
	tests := []struct {
		name          string
		data          string
		expectVersion string
		expectCode    string
		expectReason  string
		expectHeaders map[string]string
		expectBody    string
		expectRest    string
	}{
		{
			name:          "status line and headers",
			data:          "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nServer: test\r\n\r\n",
			expectVersion: "HTTP/1.1",
			expectCode:    "200",
			expectReason:  "OK",
			expectHeaders: map[string]string{
				"Content-Type": "text/plain",
				"server":       "test",
			},
		},
		{
			name:          "reason phrase with spaces",
			data:          "HTTP/1.1 404 Not Found Here\r\n\r\n",
			expectVersion: "HTTP/1.1",
			expectCode:    "404",
			expectReason:  "Not Found Here",
			expectHeaders: map[string]string{},
		},
		{
			name:          "missing reason phrase",
			data:          "HTTP/1.1 204\r\n\r\n",
			expectVersion: "HTTP/1.1",
			expectCode:    "204",
			expectReason:  "",
			expectHeaders: map[string]string{},
		},
		{
			name:          "repeated header merged with comma",
			data:          "HTTP/1.1 200 OK\r\nX-Foo: a\r\nX-Foo: b\r\n\r\n",
			expectVersion: "HTTP/1.1",
			expectCode:    "200",
			expectReason:  "OK",
			expectHeaders: map[string]string{
				"X-Foo": "a,b",
			},
		},
		{
			name:          "repeated header with different casing",
			data:          "HTTP/1.1 200 OK\r\nSet-Cookie: a=1\r\nset-cookie: b=2\r\n\r\n",
			expectVersion: "HTTP/1.1",
			expectCode:    "200",
			expectReason:  "OK",
			expectHeaders: map[string]string{
				"Set-Cookie": "a=1,b=2",
			},
		},
		{
			name:          "colons in header value",
			data:          "HTTP/1.1 200 OK\r\nLocation: http://example.com:8080/x\r\n\r\n",
			expectVersion: "HTTP/1.1",
			expectCode:    "200",
			expectReason:  "OK",
			expectHeaders: map[string]string{
				"Location": "http://example.com:8080/x",
			},
		},
		{
			name:          "whitespace around key and value",
			data:          "HTTP/1.1 200 OK\r\n  K1 :   V1  \r\nK2:V2\r\n\r\n",
			expectVersion: "HTTP/1.1",
			expectCode:    "200",
			expectReason:  "OK",
			expectHeaders: map[string]string{
				"K1": "V1",
				"K2": "V2",
			},
		},
		{
			name:          "bare LF line endings",
			data:          "HTTP/1.0 301 Moved\nLocation: /next\n\n",
			expectVersion: "HTTP/1.0",
			expectCode:    "301",
			expectReason:  "Moved",
			expectHeaders: map[string]string{
				"Location": "/next",
			},
		},
		{
			name:          "content length body",
			data:          "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello",
			expectVersion: "HTTP/1.1",
			expectCode:    "200",
			expectReason:  "OK",
			expectHeaders: map[string]string{"Content-Length": "5"},
			expectBody:    "hello",
		},
		{
			name:          "bytes past content length stay on the stream",
			data:          "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello world",
			expectVersion: "HTTP/1.1",
			expectCode:    "200",
			expectReason:  "OK",
			expectHeaders: map[string]string{"Content-Length": "5"},
			expectBody:    "hello",
			expectRest:    " world",
		},
		{
			name:          "zero content length ignores following bytes",
			data:          "HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\nignored",
			expectVersion: "HTTP/1.1",
			expectCode:    "200",
			expectReason:  "OK",
			expectHeaders: map[string]string{"Content-Length": "0"},
			expectBody:    "",
			expectRest:    "ignored",
		},
		{
			name:          "absent content length ignores following bytes",
			data:          "HTTP/1.1 200 OK\r\n\r\nignored",
			expectVersion: "HTTP/1.1",
			expectCode:    "200",
			expectReason:  "OK",
			expectHeaders: map[string]string{},
			expectBody:    "",
			expectRest:    "ignored",
		},
		{
			name:          "invalid content length ignores following bytes",
			data:          "HTTP/1.1 200 OK\r\nContent-Length: abc\r\n\r\nignored",
			expectVersion: "HTTP/1.1",
			expectCode:    "200",
			expectReason:  "OK",
			expectHeaders: map[string]string{"Content-Length": "abc"},
			expectBody:    "",
			expectRest:    "ignored",
		},
		{
			name:          "chunked body is not decoded",
			data:          "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n0\r\n\r\n",
			expectVersion: "HTTP/1.1",
			expectCode:    "200",
			expectReason:  "OK",
			expectHeaders: map[string]string{"Transfer-Encoding": "chunked"},
			expectBody:    "",
			expectRest:    "5\r\nhello\r\n0\r\n\r\n",
		},
		{
			name:          "content length counts bytes not characters",
			data:          "HTTP/1.1 200 OK\r\nContent-Length: 6\r\n\r\nhéllo!",
			expectVersion: "HTTP/1.1",
			expectCode:    "200",
			expectReason:  "OK",
			expectHeaders: map[string]string{"Content-Length": "6"},
			expectBody:    "héllo",
			expectRest:    "!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := NewReader(strings.NewReader(tt.data))
			msg, err := ReadResponse(br, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expectVersion, msg.StatusLine.Version)
			assert.Equal(t, tt.expectCode, msg.StatusLine.StatusCode)
			assert.Equal(t, tt.expectReason, msg.StatusLine.ReasonPhrase)
			assert.Equal(t, len(tt.expectHeaders), msg.Header.Len())
			for k, v := range tt.expectHeaders {
				assert.Equal(t, v, msg.Header.Value(k))
			}
			assert.Equal(t, tt.expectBody, msg.Body)

			rest, err := io.ReadAll(br)
			require.NoError(t, err)
			assert.Equal(t, tt.expectRest, string(rest))
		})
	}
}

func TestReadResponseErrors(t *testing.T) {
	tests := []struct {
		name        string
		reader      io.Reader
		expectKind  error
		errContains string
	}{
		{
			name:        "empty stream",
			reader:      strings.NewReader(""),
			expectKind:  model.ErrMalformedResponse,
			errContains: "connection closed while reading status line",
		},
		{
			name:        "blank status line",
			reader:      strings.NewReader("\r\n\r\n"),
			expectKind:  model.ErrMalformedResponse,
			errContains: "empty status line",
		},
		{
			name:        "status line without status code",
			reader:      strings.NewReader("HTTP/1.1\r\n\r\n"),
			expectKind:  model.ErrMalformedResponse,
			errContains: "missing status code",
		},
		{
			name:        "non numeric status code",
			reader:      strings.NewReader("HTTP/1.1 OK fine\r\n\r\n"),
			expectKind:  model.ErrMalformedResponse,
			errContains: "invalid status code",
		},
		{
			name:        "header line without colon",
			reader:      strings.NewReader("HTTP/1.1 200 OK\r\nMalformedLine\r\nK1: V1\r\n\r\n"),
			expectKind:  model.ErrMalformedResponse,
			errContains: "header line without colon",
		},
		{
			name:        "header line without name",
			reader:      strings.NewReader("HTTP/1.1 200 OK\r\n: value\r\n\r\n"),
			expectKind:  model.ErrMalformedResponse,
			errContains: "header line without name",
		},
		{
			name:        "closed before end of headers",
			reader:      strings.NewReader("HTTP/1.1 200 OK\r\nHost: example.com\r\n"),
			expectKind:  model.ErrMalformedResponse,
			errContains: "connection closed while reading headers",
		},
		{
			name:        "status line longer than the buffer",
			reader:      strings.NewReader("HTTP/1.1 200 " + strings.Repeat("x", MaxLineBytes+1) + "\r\n\r\n"),
			expectKind:  model.ErrMalformedResponse,
			errContains: "exceeds",
		},
		{
			name:        "short body",
			reader:      strings.NewReader("HTTP/1.1 200 OK\r\nContent-Length: 10\r\n\r\nshort"),
			expectKind:  model.ErrTransport,
			errContains: "unexpected EOF",
		},
		{
			name: "read failure after status line",
			reader: io.MultiReader(
				strings.NewReader("HTTP/1.1 200 OK\r\n"),
				iotest.ErrReader(errors.New("connection reset by peer")),
			),
			expectKind:  model.ErrTransport,
			errContains: "connection reset by peer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := ReadResponse(NewReader(tt.reader), nil)
			assert.Nil(t, msg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expectKind), "unexpected error kind: %v", err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestReadResponseWithSingleByteEncoding(t *testing.T) {
	enc, err := LookupEncoding("iso-8859-1")
	require.NoError(t, err)

	data := "HTTP/1.1 200 Caf\xe9\r\nX-Name: Jos\xe9\r\nContent-Length: 4\r\n\r\nCaf\xe9"
	msg, err := ReadResponse(bufio.NewReader(strings.NewReader(data)), enc)
	require.NoError(t, err)

	assert.Equal(t, "Café", msg.StatusLine.ReasonPhrase)
	assert.Equal(t, "José", msg.Header.Value("X-Name"))
	assert.Equal(t, "Café", msg.Body)
}

func TestLookupEncoding(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		expectErr bool
	}{
		{"empty defaults to utf-8", "", false},
		{"utf-8", "UTF-8", false},
		{"latin1", "iso-8859-1", false},
		{"shift jis", "shift_jis", false},
		{"unknown", "klingon-8", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := LookupEncoding(tt.label)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, enc)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, enc)
		})
	}
}
