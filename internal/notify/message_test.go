package notify

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registration-mailer/internal/domain"
)

type parsedPart struct {
	contentType string
	params      map[string]string
	disposition string
	filename    string
	body        []byte
}

func collectParts(t *testing.T, contentType string, body io.Reader) []parsedPart {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	if !strings.HasPrefix(mediaType, "multipart/") {
		data, err := io.ReadAll(body)
		require.NoError(t, err)
		return []parsedPart{{contentType: mediaType, params: params, body: data}}
	}

	var parts []parsedPart
	mr := multipart.NewReader(body, params["boundary"])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		ct := p.Header.Get("Content-Type")
		if mt, _, _ := mime.ParseMediaType(ct); strings.HasPrefix(mt, "multipart/") {
			parts = append(parts, collectParts(t, ct, p)...)
			continue
		}

		data, err := io.ReadAll(p)
		require.NoError(t, err)
		if strings.EqualFold(p.Header.Get("Content-Transfer-Encoding"), "base64") {
			decoded, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(string(data)), ""))
			require.NoError(t, err)
			data = decoded
		}

		mt, ctParams, err := mime.ParseMediaType(ct)
		require.NoError(t, err)
		part := parsedPart{contentType: mt, params: ctParams, body: data}
		if cd := p.Header.Get("Content-Disposition"); cd != "" {
			disp, dispParams, err := mime.ParseMediaType(cd)
			require.NoError(t, err)
			part.disposition = disp
			part.filename = dispParams["filename"]
		}
		parts = append(parts, part)
	}
	return parts
}

func parseMessage(t *testing.T, raw []byte) (*mail.Message, []parsedPart) {
	t.Helper()
	m, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	return m, collectParts(t, m.Header.Get("Content-Type"), m.Body)
}

func sampleMessage(data []byte) Message {
	return Message{
		From:    "reports@example.com",
		To:      "ada@example.org",
		Subject: "Registration Report",
		Body:    "Please find the attached PDF report.",
		Attachments: []Attachment{{
			Name:        "registration_info.pdf",
			ContentType: ContentTypePDF,
			Data:        data,
		}},
	}
}

func TestBuildMessageCarriesOneAttachment(t *testing.T) {
	data := []byte("%PDF-1.3\n\x00\x01\xfe\xff binary tail\r\n.\r\n")
	raw, err := BuildMessage(sampleMessage(data))
	require.NoError(t, err)

	m, parts := parseMessage(t, raw)
	assert.Equal(t, "Registration Report", m.Header.Get("Subject"))
	assert.Contains(t, m.Header.Get("From"), "reports@example.com")
	assert.Contains(t, m.Header.Get("To"), "ada@example.org")

	var attachments, texts []parsedPart
	for _, p := range parts {
		if p.disposition == "attachment" {
			attachments = append(attachments, p)
		} else if p.contentType == "text/plain" {
			texts = append(texts, p)
		}
	}

	require.Len(t, attachments, 1)
	assert.Equal(t, "registration_info.pdf", attachments[0].filename)
	assert.Equal(t, "application/pdf", attachments[0].contentType)
	assert.Equal(t, data, attachments[0].body)

	require.Len(t, texts, 1)
	assert.Contains(t, string(texts[0].body), "Please find the attached PDF report.")
}

func TestBuildMessageRejectsBadAddresses(t *testing.T) {
	msg := sampleMessage([]byte("x"))
	msg.To = "not an address"
	_, err := BuildMessage(msg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	msg = sampleMessage([]byte("x"))
	msg.From = "Reports Team"
	_, err = BuildMessage(msg)
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildMessageRequiresAttachmentName(t *testing.T) {
	msg := sampleMessage([]byte("x"))
	msg.Attachments[0].Name = "  "
	_, err := BuildMessage(msg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
