package notify

import "context"

// ContentTypePDF is the media type used for rendered reports.
const ContentTypePDF = "application/pdf"

// Attachment is a binary part carried alongside the message body.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is a plain text mail addressed to exactly one recipient.
type Message struct {
	From        string
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Sender submits a message to a mail relay. Implementations do not retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
