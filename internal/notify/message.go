package notify

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"registration-mailer/internal/domain"
)

// BuildMessage renders msg as a multipart MIME document ready for submission.
func BuildMessage(msg Message) ([]byte, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("%w: sender address: %v", domain.ErrConfig, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("%w: recipient address: %v", domain.ErrInvalidInput, err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	for _, att := range msg.Attachments {
		name := strings.TrimSpace(att.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: attachment name is required", domain.ErrInvalidInput)
		}
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := m.AttachReader(name, bytes.NewReader(att.Data),
			mail.WithFileContentType(mail.ContentType(contentType)),
		); err != nil {
			return nil, fmt.Errorf("attach %s: %w", name, err)
		}
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write message: %w", err)
	}
	return buf.Bytes(), nil
}
