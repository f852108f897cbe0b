package wire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
)

// MaxLineBytes is the longest status or header line ReadResponse accepts
// from a reader created by NewReader.
const MaxLineBytes = 64 * 1024

const readOp = "read response"

var (
	errLineTooLong = errors.New("line too long")
	errUndecodable = errors.New("undecodable line")
)

// NewReader wraps r in a buffered reader sized for MaxLineBytes lines
func NewReader(r io.Reader) *bufio.Reader {
	return bufio.NewReaderSize(r, MaxLineBytes)
}

// ReadResponse parses a status line, the header block and a
// Content-Length delimited body from br. Bytes past the body are left
// unread. Chunked bodies are not decoded: without a Content-Length the
// body is empty and the chunks stay on br.
func ReadResponse(br *bufio.Reader, enc encoding.Encoding) (*model.HTTPResponseMessage, error) {
	dec := orDefault(enc).NewDecoder()

	line, err := readLine(br, dec)
	if err != nil {
		return nil, classify(err, "status line")
	}
	statusLine, err := parseStatusLine(line)
	if err != nil {
		return nil, err
	}

	header := model.NewHeader()
	for {
		line, err := readLine(br, dec)
		if err != nil {
			return nil, classify(err, "headers")
		}
		if line == "" {
			break
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, model.NewMalformedResponseError(readOp, "header line without colon: %q", line)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, model.NewMalformedResponseError(readOp, "header line without name: %q", line)
		}
		header.SetOrAdd(name, strings.TrimSpace(value))
	}

	msg := &model.HTTPResponseMessage{
		StatusLine: statusLine,
		Header:     header,
	}

	if n, ok := contentLength(header); ok {
		var body bytes.Buffer
		if _, err := io.CopyN(&body, br, n); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, model.NewTransportError("read body", err)
		}
		decoded, err := dec.Bytes(body.Bytes())
		if err != nil {
			return nil, model.NewMalformedResponseError(readOp, "cannot decode body: %v", err)
		}
		msg.Body = string(decoded)
	}

	return msg, nil
}

func parseStatusLine(line string) (model.StatusLine, error) {
	if line == "" {
		return model.StatusLine{}, model.NewMalformedResponseError(readOp, "empty status line")
	}

	version, rest, ok := strings.Cut(line, " ")
	if !ok {
		return model.StatusLine{}, model.NewMalformedResponseError(readOp, "missing status code in %q", line)
	}
	code, reason, _ := strings.Cut(rest, " ")
	if _, err := strconv.Atoi(code); err != nil {
		return model.StatusLine{}, model.NewMalformedResponseError(readOp, "invalid status code %q", code)
	}

	return model.StatusLine{
		Version:      version,
		StatusCode:   code,
		ReasonPhrase: reason,
	}, nil
}

// readLine returns the next line without its CRLF or LF terminator. A
// final line cut short by EOF is returned as is; EOF is only reported
// when no bytes were left.
func readLine(br *bufio.Reader, dec *encoding.Decoder) (string, error) {
	raw, err := br.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		return "", errLineTooLong
	}
	if err != nil && !(errors.Is(err, io.EOF) && len(raw) > 0) {
		return "", err
	}

	raw = bytes.TrimRight(raw, "\r\n")
	decoded, derr := dec.Bytes(raw)
	if derr != nil {
		return "", fmt.Errorf("%w: %v", errUndecodable, derr)
	}
	return string(decoded), nil
}

func classify(err error, section string) error {
	switch {
	case errors.Is(err, io.EOF):
		return model.NewMalformedResponseError(readOp, "connection closed while reading %s", section)
	case errors.Is(err, errLineTooLong):
		return model.NewMalformedResponseError(readOp, "line in %s exceeds %d bytes", section, MaxLineBytes)
	case errors.Is(err, errUndecodable):
		return model.NewMalformedResponseError(readOp, "%s: %v", section, err)
	default:
		return model.NewTransportError(readOp, err)
	}
}
