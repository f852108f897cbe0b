package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
	"github.com/manualhttp/manualhttp-go-client/internal/domain/port"
	"github.com/manualhttp/manualhttp-go-client/internal/infrastructure/transport"
	"github.com/manualhttp/manualhttp-go-client/internal/infrastructure/wire"
)

// SendRequest describes a request built from command line input
type SendRequest struct {
	Verb string
	URL  string
	// Headers are "Name: value" pairs applied in order
	Headers []string
	Body    string
	// Query is a gjson path evaluated against a JSON response body
	Query string
}

// HTTPService runs exchanges and prints them the way they travelled on the wire
type HTTPService struct {
	protocol *transport.Protocol
	logger   port.Logger
	out      io.Writer
}

// NewHTTPService creates a new HTTPService writing its report to out
func NewHTTPService(protocol *transport.Protocol, logger port.Logger, out io.Writer) *HTTPService {
	return &HTTPService{
		protocol: protocol,
		logger:   logger,
		out:      out,
	}
}

// Cookies returns the jar shared by every exchange of the service
func (s *HTTPService) Cookies() []model.Cookie {
	return s.protocol.CookieStore().GetAllCookies()
}

// BuildRequest turns req into a target URL and a request message
func (s *HTTPService) BuildRequest(req SendRequest) (*url.URL, *model.HTTPRequestMessage, error) {
	target, err := url.Parse(req.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid URL: %w", err)
	}
	endpoint, err := model.EndpointFromURL(target)
	if err != nil {
		return nil, nil, err
	}

	msg := s.protocol.NewRequest(req.Verb, target)
	for _, header := range req.Headers {
		name, value, ok := strings.Cut(header, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", header)
		}
		msg.Header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	// attach here so the printed request matches the wire
	s.protocol.AttachCookies(msg, endpoint.Host)

	if req.Body != "" {
		msg.Body = req.Body
		if !msg.Header.Has("Content-Length") {
			body, err := wire.EncodeText(req.Body, s.protocol.Options().Encoding)
			if err != nil {
				return nil, nil, err
			}
			msg.Header.Set("Content-Length", strconv.Itoa(len(body)))
		}
	}

	return target, msg, nil
}

// Fire sends req and prints the request, the response and the cookie jar
func (s *HTTPService) Fire(ctx context.Context, req SendRequest) error {
	target, msg, err := s.BuildRequest(req)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Host: %s\n", target.Hostname())
	fmt.Fprintf(s.out, "Port: %s\n", portOf(target))
	fmt.Fprintf(s.out, "Path: %s\n", model.RequestTarget(target))
	fmt.Fprintln(s.out)
	s.printBlock("Request", msg.String())

	resp, err := s.protocol.Send(ctx, target, msg)
	if err != nil {
		return err
	}
	defer resp.Close()

	s.printBlock("Response", resp.Message.String())
	s.printCookies()

	if req.Query != "" {
		return s.printQuery(resp.Body(), req.Query)
	}
	return nil
}

// SendFile sends the request template in path verbatim to host and prints
// the raw response. Lines starting with # are comments. A port of 0 picks
// 443 with TLS and 80 otherwise.
func (s *HTTPService) SendFile(ctx context.Context, path, host string, useTLS bool, port int) error {
	enc := s.protocol.Options().Encoding
	request, err := LoadTemplate(path, enc)
	if err != nil {
		return err
	}
	if port == 0 {
		port = model.DefaultPort(useTLS)
	}

	endpoint := model.Endpoint{Scheme: "http", Host: host, Port: port}
	if useTLS {
		endpoint.Scheme = "https"
	}

	fmt.Fprintf(s.out, "Host: %s\n", host)
	fmt.Fprintf(s.out, "Port: %d\n", port)
	fmt.Fprintln(s.out)
	s.printBlock("Request", request)

	payload, err := wire.EncodeText(request, enc)
	if err != nil {
		return err
	}

	resp, err := s.protocol.SendRaw(ctx, endpoint, payload)
	if err != nil {
		return err
	}
	defer resp.Close()

	s.printBlock("Response", resp.Message.String())
	return nil
}

// LoadTemplate reads a request template: comment lines are dropped and the
// rest is joined with CRLF and terminated by a blank line.
func LoadTemplate(path string, enc encoding.Encoding) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	if enc == nil {
		enc = unicode.UTF8
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode template: %w", err)
	}

	text := strings.TrimSuffix(strings.TrimSuffix(string(decoded), "\n"), "\r")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}

	return strings.Join(append(lines, "\r\n"), "\r\n"), nil
}

// Echo upgrades to a websocket at rawURL, sends every message as a text
// frame and prints each reply.
func (s *HTTPService) Echo(ctx context.Context, rawURL string, messages []string) error {
	conn, err := s.protocol.Upgrade(ctx, rawURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Fprintf(s.out, "Connected to %s\n", rawURL)
	for _, message := range messages {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
			return model.NewTransportError("websocket write", err)
		}
		fmt.Fprintf(s.out, "> %s\n", message)

		_, reply, err := conn.ReadMessage()
		if err != nil {
			return model.NewTransportError("websocket read", err)
		}
		fmt.Fprintf(s.out, "< %s\n", reply)
	}

	closing := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteMessage(websocket.CloseMessage, closing); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		s.logger.Debug("Failed to send close frame: %v", err)
	}
	return nil
}

// CollectCookies fires a GET at every URL in order, sharing one cookie jar,
// and prints the jar once all exchanges are done.
func (s *HTTPService) CollectCookies(ctx context.Context, urls []string) error {
	for _, rawURL := range urls {
		resp, err := s.protocol.Fire(ctx, "GET", rawURL)
		if err != nil {
			return fmt.Errorf("%s: %w", rawURL, err)
		}
		fmt.Fprintf(s.out, "%s %d %s\n", rawURL, resp.StatusCode, resp.StatusDescription)
		resp.Close()
	}
	fmt.Fprintln(s.out)
	s.printCookies()
	return nil
}

func (s *HTTPService) printBlock(name, content string) {
	fmt.Fprintf(s.out, "<%s>\n", name)
	fmt.Fprintln(s.out, content)
	fmt.Fprintf(s.out, "</%s>\n", name)
	fmt.Fprintln(s.out)
}

func (s *HTTPService) printCookies() {
	fmt.Fprintln(s.out, "<Cookies>")
	for _, cookie := range s.protocol.CookieStore().GetAllCookies() {
		fmt.Fprintln(s.out, cookie.String())
	}
	fmt.Fprintln(s.out, "</Cookies>")
}

func (s *HTTPService) printQuery(body, query string) error {
	if !gjson.Valid(body) {
		return fmt.Errorf("response body is not valid JSON")
	}
	result := gjson.Get(body, query)
	if !result.Exists() {
		return fmt.Errorf("query %q matched nothing", query)
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "<Query>")
	fmt.Fprintln(s.out, result.String())
	fmt.Fprintln(s.out, "</Query>")
	return nil
}

func portOf(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	endpoint, err := model.EndpointFromURL(u)
	if err != nil {
		return ""
	}
	return strconv.Itoa(endpoint.Port)
}
