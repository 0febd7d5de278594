package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garage/internal/api"
	"garage/internal/config"
	"garage/internal/estimator"
	"garage/internal/log"
	"garage/internal/repository"
	"garage/internal/service"
	"garage/internal/vpic"
	"garage/internal/whatsapp"

	"github.com/gorilla/handlers"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrMissingWhatsAppPhone) {
			stdlog.Fatal("WHATSAPP_PHONE not set: configure the workshop number (digits, with country code) before starting")
		}
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := log.NewLogger(log.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Name: "garage"})
	if err != nil {
		stdlog.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	dispatcher, err := whatsapp.New(cfg.WhatsAppPhone)
	if err != nil {
		stdlog.Fatalf("Invalid WHATSAPP_PHONE %q: %v", cfg.WhatsAppPhone, err)
	}

	var waSender service.WhatsAppSender
	if cfg.TwilioEnabled() {
		waSender = service.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger.WithName("twilio"))
	} else {
		logger.Info("twilio not configured, server-side estimate delivery disabled")
	}
	var emailSender service.EmailSender
	if cfg.SendGridEnabled() {
		emailSender = service.NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName, logger.WithName("sendgrid"))
	}
	sender := service.NewSenderService(waSender, emailSender, dispatcher.Phone(), cfg.WorkshopEmail, logger.WithName("sender"))

	formLogger := logger.WithName("form")
	sessions := repository.NewSessionRepository(func() *estimator.Form {
		return estimator.NewForm(estimator.WithLogger(formLogger))
	})

	decoder := vpic.NewClient(cfg.VPICBaseURL, cfg.VPICTimeout)
	svc := service.NewEstimatorService(decoder, dispatcher, sender, logger.WithName("estimator"))
	jobs := service.NewJobService(sessions, cfg.SessionTTL, logger.WithName("jobs"))

	c := cron.New()
	if _, err := c.AddFunc(cfg.SessionSweepSpec, func() { jobs.EvictIdleSessions() }); err != nil {
		stdlog.Fatalf("Invalid SESSION_SWEEP_SPEC %q: %v", cfg.SessionSweepSpec, err)
	}
	c.Start()

	r := api.NewRouter(svc, sessions, logger.WithName("api"))
	cors := corsHandler(cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.CombinedLoggingHandler(os.Stdout, cors(r)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server running", "port", cfg.Port, "vpic", cfg.VPICBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, "server error")
			sigChan <- syscall.SIGTERM
		}
	}()

	<-sigChan
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error(err, "error during shutdown")
	}
	<-c.Stop().Done()
	sender.Wait()
	logger.Info("server stopped")
}
