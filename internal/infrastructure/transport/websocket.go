package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
)

// Upgrade performs a websocket handshake to a ws or wss URL. The stream is
// opened by the Protocol's Transport, so the TLS validator and timeouts
// apply to it the same way they apply to plain exchanges.
func (p *Protocol) Upgrade(ctx context.Context, rawURL string, header http.Header) (*websocket.Conn, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	endpoint, err := model.EndpointFromURL(target)
	if err != nil {
		return nil, err
	}
	if endpoint.Scheme != "ws" && endpoint.Scheme != "wss" {
		return nil, fmt.Errorf("invalid websocket scheme %q", endpoint.Scheme)
	}
	p.applyTimeouts(&endpoint)

	if header == nil {
		header = http.Header{}
	}
	if header.Get("User-Agent") == "" && p.options.UserAgent != "" {
		header.Set("User-Agent", p.options.UserAgent)
	}
	if p.options.AttachCookies && header.Get("Cookie") == "" {
		if cookie := p.cookies.CookieHeader(endpoint.Host); cookie != "" {
			header.Set("Cookie", cookie)
		}
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: p.options.ConnectTimeout + p.options.ReadTimeout,
		NetDialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			return p.transport.OpenStream(ctx, endpoint)
		},
	}

	// TLS has already been negotiated by the transport when the scheme is wss
	plain := *target
	plain.Scheme = "ws"

	p.logger.Info("Upgrading %s", target.Redacted())
	conn, resp, err := dialer.DialContext(ctx, plain.String(), header)
	if err != nil {
		if resp != nil {
			return nil, model.NewMalformedResponseError("websocket handshake", "unexpected status %s: %v", resp.Status, err)
		}
		return nil, err
	}

	if resp != nil {
		msg := &model.HTTPResponseMessage{
			StatusLine: model.StatusLine{Version: resp.Proto, StatusCode: fmt.Sprint(resp.StatusCode)},
			Header:     model.NewHeader(),
		}
		for name, values := range resp.Header {
			for _, value := range values {
				msg.Header.SetOrAdd(name, value)
			}
		}
		p.harvest(endpoint.Host, msg, p.logger)
	}
	return conn, nil
}
