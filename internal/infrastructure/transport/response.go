package transport

import (
	"bufio"
	"io"
	"strconv"
	"sync"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
)

// Response is the result of one exchange. It owns the connection the
// response was read from until Close is called.
type Response struct {
	StatusCode        int
	StatusDescription string
	Header            *model.Header
	// Message is the response exactly as it was parsed
	Message *model.HTTPResponseMessage

	mutex    sync.Mutex
	conn     io.Closer
	reader   *bufio.Reader
	stop     func() bool
	released bool
}

func newResponse(msg *model.HTTPResponseMessage, conn io.Closer, reader *bufio.Reader, stop func() bool) (*Response, error) {
	code, err := strconv.Atoi(msg.StatusLine.StatusCode)
	if err != nil {
		return nil, model.NewMalformedResponseError(readResponseOp, "invalid status code %q", msg.StatusLine.StatusCode)
	}
	return &Response{
		StatusCode:        code,
		StatusDescription: msg.StatusLine.ReasonPhrase,
		Header:            msg.Header,
		Message:           msg,
		conn:              conn,
		reader:            reader,
		stop:              stop,
	}, nil
}

// Body returns the Content-Length delimited body
func (r *Response) Body() string {
	return r.Message.Body
}

// Remaining returns the stream positioned after the parsed body. For
// chunked responses this is where the undecoded chunks are.
func (r *Response) Remaining() io.Reader {
	return r.reader
}

// Close releases the connection. It is safe to call more than once.
func (r *Response) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.released {
		return nil
	}
	r.released = true

	if r.stop != nil {
		r.stop()
	}
	return r.conn.Close()
}

// Released reports whether Close has been called
func (r *Response) Released() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.released
}
