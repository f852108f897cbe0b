package transport

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
	"github.com/manualhttp/manualhttp-go-client/internal/domain/port"
	"github.com/manualhttp/manualhttp-go-client/internal/domain/service"
	"github.com/manualhttp/manualhttp-go-client/internal/infrastructure/wire"
)

const readResponseOp = "read response"

// RedirectPredicate decides whether a 3xx response is followed
type RedirectPredicate func(*model.HTTPResponseMessage) bool

// Options tune the exchanges run by a Protocol
type Options struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	// UserAgent is the default User-Agent header
	UserAgent string
	// Encoding is the text encoding of messages; nil means UTF-8
	Encoding encoding.Encoding
	// FollowRedirects is off by default: 3xx responses are returned untouched
	FollowRedirects bool
	MaxRedirects    int
	// OnRedirect may veto a redirect; nil allows all
	OnRedirect RedirectPredicate
	// AttachCookies adds a Cookie header built from the store when the request has none
	AttachCookies bool
}

// OptionsFromConfig builds Options from the client configuration
func OptionsFromConfig(config *model.Config) (Options, error) {
	enc, err := wire.LookupEncoding(config.Encoding)
	if err != nil {
		return Options{}, err
	}
	return Options{
		ConnectTimeout:  config.ConnectTimeout,
		ReadTimeout:     config.ReadTimeout,
		WriteTimeout:    config.WriteTimeout,
		UserAgent:       config.UserAgent,
		Encoding:        enc,
		FollowRedirects: config.FollowRedirects,
		MaxRedirects:    config.MaxRedirects,
		AttachCookies:   config.AttachCookies,
	}, nil
}

// Protocol runs HTTP/1.1 exchanges over streams opened by a Transport and
// keeps the cookies they return. Each exchange uses its own connection.
type Protocol struct {
	transport port.Transport
	cookies   *service.CookieStore
	logger    port.Logger
	options   Options
}

// NewProtocol creates a Protocol; a nil cookie store is replaced by an empty one
func NewProtocol(transport port.Transport, cookies *service.CookieStore, logger port.Logger, options Options) *Protocol {
	if cookies == nil {
		cookies = service.NewCookieStore()
	}
	return &Protocol{
		transport: transport,
		cookies:   cookies,
		logger:    logger,
		options:   options,
	}
}

// CookieStore returns the store the Protocol harvests cookies into
func (p *Protocol) CookieStore() *service.CookieStore {
	return p.cookies
}

// Options returns the options the Protocol was created with
func (p *Protocol) Options() Options {
	return p.options
}

// NewRequest builds a request for verb and target with the default headers applied
func (p *Protocol) NewRequest(verb string, target *url.URL) *model.HTTPRequestMessage {
	msg := model.NewHTTPRequestMessage(verb, model.RequestTarget(target))
	msg.ApplyDefaultHeaders(target.Host, p.options.UserAgent)
	return msg
}

// AttachCookies adds the stored cookies for host to msg when the option is
// enabled and msg carries no Cookie header yet
func (p *Protocol) AttachCookies(msg *model.HTTPRequestMessage, host string) {
	if !p.options.AttachCookies {
		return
	}
	if cookie := p.cookies.CookieHeader(host); cookie != "" {
		msg.Header.SetDefault("Cookie", cookie)
	}
}

// Fire sends a default request for verb to rawURL
func (p *Protocol) Fire(ctx context.Context, verb, rawURL string) (*Response, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	return p.Send(ctx, target, p.NewRequest(verb, target))
}

// Send transmits msg to target and reads the response head and body. The
// caller owns the returned Response and must Close it.
func (p *Protocol) Send(ctx context.Context, target *url.URL, msg *model.HTTPRequestMessage) (*Response, error) {
	resp, err := p.exchange(ctx, target, msg)
	if err != nil {
		return nil, err
	}

	for redirects := 0; p.options.FollowRedirects && resp.Message.IsRedirect(); redirects++ {
		location := resp.Header.Value("Location")
		if location == "" || redirects >= p.options.MaxRedirects {
			break
		}
		if p.options.OnRedirect != nil && !p.options.OnRedirect(resp.Message) {
			break
		}

		next, err := target.Parse(location)
		if err != nil {
			resp.Close()
			return nil, fmt.Errorf("invalid redirect location %q: %w", location, err)
		}
		resp.Close()

		p.logger.Info("Following redirect %d to %s", resp.StatusCode, next)
		redirect := p.NewRequest("GET", next)
		redirect.Header.Set("Referer", target.String())
		target = next

		resp, err = p.exchange(ctx, target, redirect)
		if err != nil {
			return nil, err
		}
	}

	return resp, nil
}

// SendRaw transmits payload verbatim to endpoint and parses the reply
func (p *Protocol) SendRaw(ctx context.Context, endpoint model.Endpoint, payload []byte) (*Response, error) {
	p.applyTimeouts(&endpoint)
	log := p.logger.WithField("exchange", uuid.NewString())

	conn, err := p.transport.OpenStream(ctx, endpoint)
	if err != nil {
		log.Warn("Connection to %s failed: %v", endpoint.Address(), err)
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })

	if err := wire.WriteRaw(conn, payload); err != nil {
		return nil, p.abort(ctx, conn, stop, err)
	}

	reader := wire.NewReader(conn)
	msg, err := wire.ReadResponse(reader, p.options.Encoding)
	if err != nil {
		return nil, p.abort(ctx, conn, stop, err)
	}
	p.harvest(endpoint.Host, msg, log)

	resp, err := newResponse(msg, conn, reader, stop)
	if err != nil {
		return nil, p.abort(ctx, conn, stop, err)
	}
	return resp, nil
}

func (p *Protocol) exchange(ctx context.Context, target *url.URL, msg *model.HTTPRequestMessage) (*Response, error) {
	log := p.logger.WithField("exchange", uuid.NewString())
	state := model.StateIdle
	transition := func(next model.ExchangeState) {
		log.Debug("Exchange %s -> %s", state, next)
		state = next
	}

	endpoint, err := model.EndpointFromURL(target)
	if err != nil {
		transition(model.StateFailed)
		return nil, err
	}
	p.applyTimeouts(&endpoint)
	if err := ctx.Err(); err != nil {
		transition(model.StateFailed)
		return nil, model.NewTransportError("exchange cancelled", err)
	}

	msg.ApplyDefaultHeaders(target.Host, p.options.UserAgent)
	p.AttachCookies(msg, endpoint.Host)

	transition(model.StateConnecting)
	conn, err := p.transport.OpenStream(ctx, endpoint)
	if err != nil {
		transition(model.StateFailed)
		log.Warn("Connection to %s failed: %v", endpoint.Address(), err)
		return nil, err
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })

	transition(model.StateSending)
	log.Info("%s %s", msg.RequestLine.Method, target.Redacted())
	if err := wire.WriteRequest(conn, msg, p.options.Encoding); err != nil {
		transition(model.StateFailed)
		return nil, p.abort(ctx, conn, stop, err)
	}

	transition(model.StateAwaitingResponse)
	reader := wire.NewReader(conn)
	respMsg, err := wire.ReadResponse(reader, p.options.Encoding)
	if err != nil {
		transition(model.StateFailed)
		return nil, p.abort(ctx, conn, stop, err)
	}

	transition(model.StateCookieHarvest)
	p.harvest(endpoint.Host, respMsg, log)

	resp, err := newResponse(respMsg, conn, reader, stop)
	if err != nil {
		transition(model.StateFailed)
		return nil, p.abort(ctx, conn, stop, err)
	}

	transition(model.StateDone)
	log.Info("%s %s", respMsg.StatusLine.StatusCode, respMsg.StatusLine.ReasonPhrase)
	return resp, nil
}

func (p *Protocol) applyTimeouts(endpoint *model.Endpoint) {
	endpoint.ConnectTimeout = p.options.ConnectTimeout
	endpoint.ReadTimeout = p.options.ReadTimeout
	endpoint.WriteTimeout = p.options.WriteTimeout
}

// harvest stores every cookie of the Set-Cookie header, scoping cookies
// without a Domain attribute to host.
func (p *Protocol) harvest(host string, msg *model.HTTPResponseMessage, log port.Logger) {
	for _, cookie := range model.ParseCookies(msg.Header.Value("Set-Cookie"), p.cookies.Now()) {
		if strings.TrimSpace(cookie.Domain) == "" {
			cookie.Domain = host
		}
		log.Debug("Storing cookie %s for %s", cookie.Name, cookie.Domain)
		p.cookies.Store(cookie)
	}
}

func (p *Protocol) abort(ctx context.Context, conn net.Conn, stop func() bool, err error) error {
	stop()
	if closeErr := conn.Close(); closeErr != nil {
		p.logger.Debug("Failed to close connection: %v", closeErr)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return model.NewTransportError("exchange cancelled", ctxErr)
	}
	return err
}
