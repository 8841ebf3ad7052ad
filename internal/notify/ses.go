package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"registration-mailer/internal/domain"
)

// SESAPI is the subset of the SES v2 client used for sending.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender submits raw MIME messages through Amazon SES.
type SESSender struct {
	client SESAPI
}

func NewSESSender(client SESAPI) *SESSender {
	return &SESSender{client: client}
}

func (s *SESSender) Send(ctx context.Context, msg Message) error {
	raw, err := BuildMessage(msg)
	if err != nil {
		return err
	}

	_, err = s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return classifySES(err)
	}
	return nil
}

func classifySES(err error) error {
	var (
		rejected    *types.MessageRejected
		badRequest  *types.BadRequestException
		notVerified *types.MailFromDomainNotVerifiedException
		suspended   *types.AccountSuspendedException
		paused      *types.SendingPausedException
	)
	switch {
	case errors.As(err, &rejected), errors.As(err, &badRequest):
		return fmt.Errorf("%w: ses: %v", domain.ErrDelivery, err)
	case errors.As(err, &notVerified), errors.As(err, &suspended), errors.As(err, &paused):
		return fmt.Errorf("%w: ses: %v", domain.ErrAuth, err)
	default:
		return fmt.Errorf("%w: ses: %v", domain.ErrTransport, err)
	}
}

var _ Sender = (*SESSender)(nil)
