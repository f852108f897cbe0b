package wire

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
)

// WriteRequest serializes msg onto w: request line, headers, a blank line
// and, when Content-Length is a positive integer, the body.
func WriteRequest(w io.Writer, msg *model.HTTPRequestMessage, enc encoding.Encoding) error {
	var b strings.Builder
	b.WriteString(msg.RequestLine.String())
	b.WriteString("\r\n")
	for _, f := range msg.Header.Fields() {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")

	if n, ok := contentLength(msg.Header); ok && n > 0 && msg.Body != "" {
		b.WriteString(msg.Body)
	}

	data, err := orDefault(enc).NewEncoder().String(b.String())
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	return WriteRaw(w, []byte(data))
}

// WriteRaw transmits data in full and flushes it before returning
func WriteRaw(w io.Writer, data []byte) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(data); err != nil {
		return model.NewTransportError("write request", err)
	}
	if err := bw.Flush(); err != nil {
		return model.NewTransportError("flush request", err)
	}
	return nil
}

// EncodeText converts text into the bytes of enc
func EncodeText(text string, enc encoding.Encoding) ([]byte, error) {
	data, err := orDefault(enc).NewEncoder().String(text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode text: %w", err)
	}
	return []byte(data), nil
}

func contentLength(h *model.Header) (int64, bool) {
	raw, ok := h.Get("Content-Length")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
