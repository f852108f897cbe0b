package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
	"github.com/manualhttp/manualhttp-go-client/internal/domain/port"
)

// CertificateValidator decides whether the certificate chain presented by
// host is accepted. rawCerts holds the DER certificates, leaf first.
type CertificateValidator func(host string, rawCerts [][]byte) error

// AcceptAnyCertificate accepts every certificate. This is the default and is
// insecure: it gives no protection against an active man in the middle.
func AcceptAnyCertificate(string, [][]byte) error {
	return nil
}

// SystemCertificateValidator verifies the chain against roots and the host
// name. A nil roots pool uses the system roots.
func SystemCertificateValidator(roots *x509.CertPool) CertificateValidator {
	return func(host string, rawCerts [][]byte) error {
		if len(rawCerts) == 0 {
			return errors.New("server presented no certificate")
		}

		certs := make([]*x509.Certificate, 0, len(rawCerts))
		for _, raw := range rawCerts {
			cert, err := x509.ParseCertificate(raw)
			if err != nil {
				return fmt.Errorf("failed to parse certificate: %w", err)
			}
			certs = append(certs, cert)
		}

		intermediates := x509.NewCertPool()
		for _, cert := range certs[1:] {
			intermediates.AddCert(cert)
		}

		_, err := certs[0].Verify(x509.VerifyOptions{
			DNSName:       host,
			Roots:         roots,
			Intermediates: intermediates,
		})
		return err
	}
}

// ParseTLSVersion converts 1.0, 1.1, 1.2 or 1.3 into a crypto/tls version.
// An empty string returns 0, which keeps the Go default.
func ParseTLSVersion(version string) (uint16, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(version)), "tls") {
	case "":
		return 0, nil
	case "1.0", "10":
		return tls.VersionTLS10, nil
	case "1.1", "11":
		return tls.VersionTLS11, nil
	case "1.2", "12":
		return tls.VersionTLS12, nil
	case "1.3", "13":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version: %s", version)
	}
}

// Dialer is the TCP/TLS implementation of port.Transport
type Dialer struct {
	validator     CertificateValidator
	minTLSVersion uint16
	logger        port.Logger
}

// NewDialer creates a Dialer that accepts any server certificate
func NewDialer(logger port.Logger) *Dialer {
	return &Dialer{
		validator: AcceptAnyCertificate,
		logger:    logger,
	}
}

// SetCertificateValidator replaces the certificate callback; nil restores AcceptAnyCertificate
func (d *Dialer) SetCertificateValidator(validator CertificateValidator) {
	if validator == nil {
		validator = AcceptAnyCertificate
	}
	d.validator = validator
}

// SetMinTLSVersion sets the lowest TLS version offered in the handshake
func (d *Dialer) SetMinTLSVersion(version uint16) {
	d.minTLSVersion = version
}

// OpenStream connects to endpoint within its ConnectTimeout and, for TLS
// schemes, completes the client handshake before returning.
func (d *Dialer) OpenStream(ctx context.Context, endpoint model.Endpoint) (net.Conn, error) {
	connectCtx := ctx
	if endpoint.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, endpoint.ConnectTimeout)
		defer cancel()
	}

	address := endpoint.Address()
	d.logger.Debug("Connecting to %s", address)

	var dialer net.Dialer
	conn, err := dialer.DialContext(connectCtx, "tcp", address)
	if err != nil {
		return nil, model.NewConnectionError("connect "+address, err)
	}

	if endpoint.IsTLS() {
		tlsConn := tls.Client(conn, d.tlsConfig(endpoint.Host))
		if err := tlsConn.HandshakeContext(connectCtx); err != nil {
			conn.Close()
			if connectCtx.Err() != nil || isTimeout(err) {
				return nil, model.NewConnectionError("tls handshake "+address, err)
			}
			return nil, model.NewTLSAuthenticationError("tls handshake "+address, err)
		}
		state := tlsConn.ConnectionState()
		d.logger.Debug("TLS established with %s: %s", address, tls.VersionName(state.Version))
		conn = tlsConn
	}

	return newDeadlineConn(conn, endpoint.ReadTimeout, endpoint.WriteTimeout), nil
}

func (d *Dialer) tlsConfig(host string) *tls.Config {
	validator := d.validator
	return &tls.Config{
		ServerName: host,
		MinVersion: d.minTLSVersion,
		// Chain verification is done by the validator callback.
		InsecureSkipVerify: true,
		VerifyPeerCertificate: func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			return validator(host, rawCerts)
		},
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Ensure Dialer implements port.Transport
var _ port.Transport = (*Dialer)(nil)
