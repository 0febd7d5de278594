package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"garage/internal/log"
	"garage/internal/utils"
)

// WhatsAppSender delivers a text message to a WhatsApp number.
type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, toPhone, body string) error
}

// EmailSender delivers an e-mail with plain text and HTML parts.
type EmailSender interface {
	SendEmail(ctx context.Context, toEmail, toName, subject, plainText, html string) error
}

// TwilioSender sends WhatsApp messages through the Twilio Messages API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	log    log.Logger
}

func NewTwilioSender(accountSID, authToken, fromNumber string, logger log.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSID,
		Password:   authToken,
		AccountSid: accountSID,
	})
	return &TwilioSender{client: client, from: fromNumber, log: logger}
}

func whatsAppAddress(phone string) (string, error) {
	digits, ok := utils.DigitsOnly(phone)
	if !ok {
		return "", fmt.Errorf("invalid whatsapp number %q", phone)
	}
	return "whatsapp:+" + digits, nil
}

func (s *TwilioSender) SendWhatsApp(ctx context.Context, toPhone, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to, err := whatsAppAddress(toPhone)
	if err != nil {
		return err
	}
	from, err := whatsAppAddress(s.from)
	if err != nil {
		return fmt.Errorf("twilio sender: %w", err)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		s.log.Info("whatsapp message sent", "to", to, "sid", *resp.Sid)
	} else {
		s.log.Warn("whatsapp message sent without sid in response", "to", to)
	}
	return nil
}

// SendGridSender sends e-mail through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
	log    log.Logger
}

func NewSendGridSender(apiKey, fromEmail, fromName string, logger log.Logger) *SendGridSender {
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
		log:    logger,
	}
}

func (s *SendGridSender) SendEmail(ctx context.Context, toEmail, toName, subject, plainText, html string) error {
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail(toName, toEmail), plainText, html)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s failed: %w", toEmail, err)
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		s.log.Info("email sent", "to", toEmail, "subject", subject, "status", response.StatusCode)
		return nil
	}
	return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
}
