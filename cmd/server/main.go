package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"registration-mailer/internal/birthdate"
	"registration-mailer/internal/config"
	apphttp "registration-mailer/internal/http"
	"registration-mailer/internal/logging"
	"registration-mailer/internal/notify"
	"registration-mailer/internal/report"
	"registration-mailer/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	method, err := birthdate.ParseAgeMethod(cfg.Report.AgeMethod)
	if err != nil {
		logger.Fatalf("age method: %v", err)
	}

	sender, err := buildSender(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup mail transport: %v", err)
	}

	registrations := service.NewRegistrationService(
		birthdate.New(birthdate.WithMethod(method)),
		report.NewComposer(),
		sender,
		service.MailSettings{
			Sender:         cfg.Mail.Sender,
			Subject:        cfg.Mail.Subject,
			Body:           cfg.Mail.Body,
			AttachmentName: cfg.Mail.AttachmentName,
		},
		logger,
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(registrations, cfg.Server.AllowedOrigins, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildSender(ctx context.Context, cfg config.Config, logger *logrus.Logger) (notify.Sender, error) {
	switch strings.ToLower(cfg.Mail.Transport) {
	case config.TransportSES:
		loadOpts := []func(*awscfg.LoadOptions) error{
			awscfg.WithRegion(cfg.AWS.Region),
		}
		if cfg.AWS.Profile != "" {
			loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
		}

		awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		logger.Infof("sending reports through ses (region %s)", cfg.AWS.Region)
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg)), nil
	case config.TransportSMTP:
		sender := notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Sender,
			Password: cfg.Mail.Password,
			Timeout:  cfg.Mail.Timeout,
		})
		logger.Infof("sending reports through smtp relay %s", sender.Addr())
		return sender, nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Mail.Transport)
	}
}
