package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration, read from the environment.
type Config struct {
	Port        string
	CORSOrigins []string

	// vPIC decode service
	VPICBaseURL string
	VPICTimeout time.Duration

	// Destination of the wa.me deep link, digits only.
	WhatsAppPhone string

	SessionTTL       time.Duration
	SessionSweepSpec string

	LogLevel  string
	LogFormat string

	// Twilio, optional
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	// SendGrid, optional
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	WorkshopEmail     string
}

var ErrMissingWhatsAppPhone = errors.New("WHATSAPP_PHONE not set")

// Load reads an optional .env file and the process environment.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is fine, the environment may already be populated.
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
		VPICBaseURL:       strings.TrimRight(getEnv("VPIC_BASE_URL", "https://vpic.nhtsa.dot.gov/api/vehicles"), "/"),
		WhatsAppPhone:     os.Getenv("WHATSAPP_PHONE"),
		SessionSweepSpec:  getEnv("SESSION_SWEEP_SPEC", "@every 5m"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:  os.Getenv("TWILIO_FROM_NUMBER"),
		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Garage Estimator"),
		WorkshopEmail:     os.Getenv("WORKSHOP_EMAIL"),
	}

	var err error
	if cfg.VPICTimeout, err = getDuration("VPIC_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.WhatsAppPhone) == "" {
		return nil, ErrMissingWhatsAppPhone
	}
	return cfg, nil
}

// TwilioEnabled reports whether every Twilio credential is present.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

func (c *Config) SendGridEnabled() bool {
	return c.SendGridAPIKey != "" && c.SendGridFromEmail != "" && c.WorkshopEmail != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
