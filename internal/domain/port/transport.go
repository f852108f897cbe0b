package port

import (
	"context"
	"net"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
)

// Transport opens byte streams to remote endpoints
type Transport interface {
	// OpenStream connects to the endpoint, negotiating TLS for https.
	// The returned conn applies the endpoint's read and write timeouts.
	OpenStream(ctx context.Context, endpoint model.Endpoint) (net.Conn, error)
}
