package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"

	"registration-mailer/internal/domain"
)

// DialFunc opens the connection to the relay.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// SMTPConfig describes the relay and the credentials used to log in to it.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
	// Dialer overrides the implicit TLS dialer.
	Dialer DialFunc
}

// SMTPSender submits messages over an implicit TLS SMTP session.
type SMTPSender struct {
	cfg  SMTPConfig
	dial DialFunc
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	dial := cfg.Dialer
	if dial == nil {
		d := &tls.Dialer{
			NetDialer: &net.Dialer{},
			Config: &tls.Config{
				ServerName: cfg.Host,
				MinVersion: tls.VersionTLS12,
			},
		}
		dial = d.DialContext
	}
	return &SMTPSender{cfg: cfg, dial: dial}
}

func (s *SMTPSender) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	raw, err := BuildMessage(msg)
	if err != nil {
		return err
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	addr := s.Addr()
	conn, err := s.dial(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", domain.ErrTransport, addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("%w: greeting from %s: %v", domain.ErrTransport, addr, err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		if isNetworkError(err) {
			return fmt.Errorf("%w: auth: %v", domain.ErrTransport, err)
		}
		return fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}

	if err := client.Mail(msg.From); err != nil {
		return classify("mail from", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return classify("rcpt to", err)
	}

	w, err := client.Data()
	if err != nil {
		return classify("data", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("%w: write message: %v", domain.ErrTransport, err)
	}
	if err := w.Close(); err != nil {
		return classify("end of data", err)
	}

	// The relay has accepted the message; a failed QUIT does not undo that.
	_ = client.Quit()
	return nil
}

// classify maps a reply from the relay onto ErrDelivery and anything else
// onto ErrTransport.
func classify(stage string, err error) error {
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return fmt.Errorf("%w: %s: %v", domain.ErrDelivery, stage, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrTransport, stage, err)
}

func isNetworkError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed)
}

var _ Sender = (*SMTPSender)(nil)
