package transport

import (
	"net"
	"time"
)

// deadlineConn pushes the read or write deadline forward before every
// call so a stalled peer fails the operation instead of blocking forever.
type deadlineConn struct {
	net.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func newDeadlineConn(conn net.Conn, readTimeout, writeTimeout time.Duration) net.Conn {
	if readTimeout <= 0 && writeTimeout <= 0 {
		return conn
	}
	return &deadlineConn{
		Conn:         conn,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if c.readTimeout > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(p)
}

func (c *deadlineConn) Write(p []byte) (int, error) {
	if c.writeTimeout > 0 {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Write(p)
}
