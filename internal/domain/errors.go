package domain

import "errors"

var (
	// ErrInvalidInput indicates a missing or malformed form field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidDate indicates the date of birth is not a usable calendar date.
	ErrInvalidDate = errors.New("invalid date")
	// ErrRender is returned when the report document cannot be produced.
	ErrRender = errors.New("render report")
	// ErrAuth is returned when the mail relay rejects the sender credentials.
	ErrAuth = errors.New("mail authentication rejected")
	// ErrTransport covers network and connection failures talking to the relay.
	ErrTransport = errors.New("mail transport failure")
	// ErrConfig indicates a server side setting is unusable.
	ErrConfig = errors.New("server misconfigured")
	// ErrDelivery is returned when the relay refuses the message or recipient.
	ErrDelivery = errors.New("mail delivery rejected")
)
