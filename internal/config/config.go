package config

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	TransportSMTP = "smtp"
	TransportSES  = "ses"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr           string
		AllowedOrigins []string
	}
	Log struct {
		Level  string
		Format string
	}
	Mail struct {
		Transport      string
		Host           string
		Port           int
		Sender         string
		Password       string
		Subject        string
		Body           string
		AttachmentName string
		Timeout        time.Duration
	}
	Report struct {
		AgeMethod string
	}
	AWS struct {
		Region  string
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with the directory searched for config and .env files.
func LoadFrom(dir string) (Config, error) {
	// Real environment variables win over .env entries.
	_ = godotenv.Load(strings.TrimSuffix(dir, "/") + "/.env")

	v := viper.New()
	v.SetEnvPrefix("REGMAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.allowedorigins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("mail.transport", TransportSMTP)
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 465)
	v.SetDefault("mail.sender", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.subject", "Registration Report")
	v.SetDefault("mail.body", "Please find the attached PDF report.")
	v.SetDefault("mail.attachmentname", "registration_info.pdf")
	v.SetDefault("mail.timeout", 30*time.Second)
	v.SetDefault("report.agemethod", "calendar")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.profile", "")

	v.SetConfigName("config")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Mail.Sender) == "" {
		return fmt.Errorf("mail sender is required")
	}
	if addr, err := mail.ParseAddress(c.Mail.Sender); err != nil || addr.Address != strings.TrimSpace(c.Mail.Sender) {
		return fmt.Errorf("mail sender %q is not a bare email address", c.Mail.Sender)
	}
	switch strings.ToLower(c.Mail.Transport) {
	case TransportSMTP:
		if strings.TrimSpace(c.Mail.Host) == "" {
			return fmt.Errorf("mail host is required for the smtp transport")
		}
		if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
			return fmt.Errorf("mail port %d is out of range", c.Mail.Port)
		}
		if c.Mail.Password == "" {
			return fmt.Errorf("mail password is required for the smtp transport")
		}
	case TransportSES:
		if strings.TrimSpace(c.AWS.Region) == "" {
			return fmt.Errorf("aws region is required for the ses transport")
		}
	default:
		return fmt.Errorf("unknown mail transport %q", c.Mail.Transport)
	}
	switch strings.ToLower(strings.TrimSpace(c.Report.AgeMethod)) {
	case "", "calendar", "meanyear":
	default:
		return fmt.Errorf("unknown report age method %q", c.Report.AgeMethod)
	}
	return nil
}
