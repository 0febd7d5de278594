// Package whatsapp builds wa.me deep links for sending an estimate.
package whatsapp

import (
	"errors"
	"fmt"

	"garage/internal/utils"
)

const baseURL = "https://wa.me/"

var ErrInvalidPhone = errors.New("whatsapp: destination phone must be digits with country code")

// MessageSource exposes the stored percent-encoded estimate text.
type MessageSource interface {
	EstimateMessage() string
}

type Dispatcher struct {
	phone string
}

// New returns a Dispatcher addressed to phone. Decoration such as "+" or
// spaces is stripped; anything else non-numeric is a configuration error.
func New(phone string) (*Dispatcher, error) {
	digits, ok := utils.DigitsOnly(phone)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return &Dispatcher{phone: digits}, nil
}

func (d *Dispatcher) Phone() string { return d.phone }

// Link returns the deep link for an already percent-encoded message.
func (d *Dispatcher) Link(encodedMessage string) string {
	return baseURL + d.phone + "?text=" + encodedMessage
}

// SendEstimate returns the link carrying src's stored estimate. With nothing
// stored the link has empty text.
func (d *Dispatcher) SendEstimate(src MessageSource) string {
	return d.Link(src.EstimateMessage())
}
