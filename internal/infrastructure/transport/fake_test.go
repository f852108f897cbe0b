package transport

import (
	"bytes"
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
	"github.com/manualhttp/manualhttp-go-client/internal/infrastructure/logger"
)

// fakeConn replays a canned response and records what was written
type fakeConn struct {
	mutex   sync.Mutex
	reader  io.Reader
	written bytes.Buffer
	closed  int
}

func newFakeConn(response string) *fakeConn {
	return &fakeConn{reader: bytes.NewBufferString(response)}
}

func (c *fakeConn) Read(p []byte) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed > 0 {
		return 0, net.ErrClosed
	}
	return c.reader.Read(p)
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed > 0 {
		return 0, net.ErrClosed
	}
	return c.written.Write(p)
}

func (c *fakeConn) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.closed++
	return nil
}

func (c *fakeConn) Closed() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.closed
}

func (c *fakeConn) Written() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.written.String()
}

func (c *fakeConn) LocalAddr() net.Addr              { return &net.TCPAddr{} }
func (c *fakeConn) RemoteAddr() net.Addr             { return &net.TCPAddr{} }
func (c *fakeConn) SetDeadline(time.Time) error      { return nil }
func (c *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

// fakeTransport hands out prepared connections in order
type fakeTransport struct {
	conns     []*fakeConn
	endpoints []model.Endpoint
	err       error
}

func (t *fakeTransport) OpenStream(_ context.Context, endpoint model.Endpoint) (net.Conn, error) {
	t.endpoints = append(t.endpoints, endpoint)
	if t.err != nil {
		return nil, t.err
	}
	conn := t.conns[0]
	t.conns = t.conns[1:]
	return conn, nil
}

func testLogger() *logger.Logger {
	return logger.NewLogger(io.Discard, "error")
}
