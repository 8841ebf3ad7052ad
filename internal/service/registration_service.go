package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"registration-mailer/internal/domain"
	"registration-mailer/internal/logging"
	"registration-mailer/internal/notify"
)

const (
	DefaultSubject        = "Registration Report"
	DefaultBody           = "Please find the attached PDF report."
	DefaultAttachmentName = "registration_info.pdf"
)

// Deriver computes the fields printed on a report from a date of birth.
type Deriver interface {
	Derive(dob string) (domain.DerivedInfo, error)
}

// Composer renders a report document.
type Composer interface {
	Compose(form domain.RegistrationForm, info domain.DerivedInfo) ([]byte, error)
}

// RegistrationService turns a submitted form into an emailed report.
type RegistrationService interface {
	Submit(ctx context.Context, form domain.RegistrationForm) (*domain.Receipt, error)
}

// MailSettings controls the outgoing message. Empty fields use the defaults.
type MailSettings struct {
	Sender         string
	Subject        string
	Body           string
	AttachmentName string
}

type registrationService struct {
	deriver  Deriver
	composer Composer
	sender   notify.Sender
	mail     MailSettings
	logger   logrus.FieldLogger
}

func NewRegistrationService(deriver Deriver, composer Composer, sender notify.Sender, settings MailSettings, logger logrus.FieldLogger) RegistrationService {
	if settings.Subject == "" {
		settings.Subject = DefaultSubject
	}
	if settings.Body == "" {
		settings.Body = DefaultBody
	}
	if settings.AttachmentName == "" {
		settings.AttachmentName = DefaultAttachmentName
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &registrationService{
		deriver:  deriver,
		composer: composer,
		sender:   sender,
		mail:     settings,
		logger:   logger,
	}
}

func (s *registrationService) Submit(ctx context.Context, form domain.RegistrationForm) (*domain.Receipt, error) {
	form = normalize(form)
	if err := validate(form); err != nil {
		return nil, err
	}

	id := uuid.New()
	log := s.logger.WithFields(logrus.Fields{
		"submission": id.String(),
		"email":      logging.RedactEmail(form.Email),
	})

	info, err := s.deriver.Derive(form.DOB)
	if err != nil {
		log.WithError(err).Warn("derive birth date fields")
		return nil, err
	}

	doc, err := s.composer.Compose(form, info)
	if err != nil {
		log.WithError(err).Error("compose report")
		if !errors.Is(err, domain.ErrRender) {
			err = fmt.Errorf("%w: %v", domain.ErrRender, err)
		}
		return nil, err
	}
	log.WithField("bytes", len(doc)).Debug("report composed")

	msg := notify.Message{
		From:    s.mail.Sender,
		To:      form.Email,
		Subject: s.mail.Subject,
		Body:    s.mail.Body,
		Attachments: []notify.Attachment{{
			Name:        s.mail.AttachmentName,
			ContentType: notify.ContentTypePDF,
			Data:        doc,
		}},
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		log.WithError(err).Error("send report")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"age":         info.Age,
		"day_of_week": info.DayOfWeek,
	}).Info("report sent")

	return &domain.Receipt{
		ID:        id,
		Age:       info.Age,
		DayOfWeek: info.DayOfWeek,
	}, nil
}

func normalize(form domain.RegistrationForm) domain.RegistrationForm {
	return domain.RegistrationForm{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		DOB:       strings.TrimSpace(form.DOB),
		Email:     strings.TrimSpace(form.Email),
	}
}

func validate(form domain.RegistrationForm) error {
	var missing []string
	if form.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if form.LastName == "" {
		missing = append(missing, "lastName")
	}
	if form.DOB == "" {
		missing = append(missing, "dob")
	}
	if form.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}

	addr, err := mail.ParseAddress(form.Email)
	if err != nil || addr.Address != form.Email {
		return fmt.Errorf("%w: email %q is not a valid address", domain.ErrInvalidInput, form.Email)
	}
	return nil
}
