package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"
	"time"

	"garage/internal/entities"
	"garage/internal/log"
	"garage/internal/metrics"
)

var ErrSendDisabled = errors.New("estimate delivery is not configured")

var estimateEmailTemplate = template.Must(template.New("estimate_email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <h2>New service estimate</h2>
  <p><strong>Services:</strong> {{range $i, $s := .Estimate.Services}}{{if $i}}, {{end}}{{$s}}{{end}}</p>
  <p><strong>Total cost:</strong> {{.Estimate.Currency}} {{.Estimate.TotalCost}}</p>
  <p><strong>Estimated time:</strong> ~{{.Estimate.TotalMinutes}} mins</p>
  {{with .Vehicle}}<p><strong>Vehicle:</strong> {{.Year}} {{.Make}} {{.Model}}</p>{{end}}
  <pre>{{.Estimate.Message}}</pre>
  <p style="color: #888;">Sent {{.SentAt}}</p>
</body>
</html>`))

type estimateEmailData struct {
	Estimate entities.Estimate
	Vehicle  *entities.VehicleDetails
	SentAt   string
}

// SenderService forwards a computed estimate to the workshop: over WhatsApp
// through Twilio and, when configured, as an e-mail copy through SendGrid.
type SenderService struct {
	whatsApp      WhatsAppSender
	email         EmailSender
	workshopPhone string
	workshopEmail string
	log           log.Logger

	wg sync.WaitGroup
}

// NewSenderService wires the delivery channels. whatsApp or email may be nil
// when the channel is not configured.
func NewSenderService(whatsApp WhatsAppSender, email EmailSender, workshopPhone, workshopEmail string, logger log.Logger) *SenderService {
	return &SenderService{
		whatsApp:      whatsApp,
		email:         email,
		workshopPhone: workshopPhone,
		workshopEmail: workshopEmail,
		log:           logger,
	}
}

func (s *SenderService) Enabled() bool {
	return s.whatsApp != nil
}

// SendEstimate delivers est over WhatsApp and, in the background, e-mails a
// copy. Only the WhatsApp outcome is returned.
func (s *SenderService) SendEstimate(ctx context.Context, est entities.Estimate, vehicle *entities.VehicleDetails) error {
	if s.whatsApp == nil {
		return ErrSendDisabled
	}

	if err := s.whatsApp.SendWhatsApp(ctx, s.workshopPhone, est.Message); err != nil {
		metrics.EstimatesSent.WithLabelValues("whatsapp", "failed").Inc()
		return fmt.Errorf("send estimate: %w", err)
	}
	metrics.EstimatesSent.WithLabelValues("whatsapp", "ok").Inc()

	if s.email != nil && s.workshopEmail != "" {
		s.sendEmailCopy(est, vehicle)
	}
	return nil
}

func (s *SenderService) sendEmailCopy(est entities.Estimate, vehicle *entities.VehicleDetails) {
	subject := fmt.Sprintf("Service estimate: %s %d", est.Currency, est.TotalCost)

	var html bytes.Buffer
	data := estimateEmailData{Estimate: est, Vehicle: vehicle, SentAt: time.Now().Format(time.RFC1123)}
	if err := estimateEmailTemplate.Execute(&html, data); err != nil {
		s.log.Error(err, "failed to render estimate email")
		html.Reset()
	}

	s.wg.Add(1)
	go func(plain, htmlBody string) {
		defer s.wg.Done()
		// Detached from the request, which is usually finished by now.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.email.SendEmail(ctx, s.workshopEmail, "Workshop", subject, plain, htmlBody); err != nil {
			metrics.EstimatesSent.WithLabelValues("email", "failed").Inc()
			s.log.Error(err, "estimate email copy failed", "to", s.workshopEmail)
			return
		}
		metrics.EstimatesSent.WithLabelValues("email", "ok").Inc()
	}(est.Message, html.String())
}

// Wait blocks until background e-mail sends have finished.
func (s *SenderService) Wait() {
	s.wg.Wait()
}
