package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tech-arch1tect/cadence/config"
	"github.com/tech-arch1tect/cadence/services/logging"
	"github.com/tech-arch1tect/cadence/services/metrics"
	"go.uber.org/zap"
)

type Service struct {
	config    *config.MailConfig
	transport Transport
	logger    *logging.Service
	metrics   *metrics.Service
}

// NewService builds the transport selected by cfg.Transport. Configuration
// problems are returned here so they surface at startup, not on first send.
func NewService(cfg *config.MailConfig, logger *logging.Service, m *metrics.Service) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mail config is required")
	}

	logger.Info("initializing mail service",
		zap.String("transport", cfg.Transport),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("encryption", cfg.Encryption),
		zap.String("from_address", cfg.FromAddress))

	var transport Transport
	switch cfg.Transport {
	case "smtp":
		if cfg.Host == "" || cfg.FromAddress == "" {
			return nil, fmt.Errorf("MAIL_HOST and MAIL_FROM_ADDRESS are required for smtp transport")
		}
		t, err := NewSMTPTransport(cfg)
		if err != nil {
			logger.Error("failed to create mail client", zap.Error(err), zap.String("host", cfg.Host))
			return nil, err
		}
		transport = t
	case "api":
		if cfg.APIURL == "" || cfg.APIKey == "" || cfg.FromAddress == "" {
			return nil, fmt.Errorf("MAIL_API_URL, MAIL_API_KEY and MAIL_FROM_ADDRESS are required for api transport")
		}
		transport = NewAPITransport(cfg)
	case "log", "":
		transport = NewLogTransport(logger.Named("mail"))
	default:
		return nil, fmt.Errorf("unsupported mail transport: %s", cfg.Transport)
	}

	return NewServiceWithTransport(cfg, transport, logger, m), nil
}

func NewServiceWithTransport(cfg *config.MailConfig, transport Transport, logger *logging.Service, m *metrics.Service) *Service {
	return &Service{
		config:    cfg,
		transport: transport,
		logger:    logger,
		metrics:   m,
	}
}

func (s *Service) defaultFrom() string {
	if s.config.FromName != "" && s.config.FromAddress != "" {
		return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress)
	}
	if s.config.FromAddress != "" {
		return s.config.FromAddress
	}
	return "noreply@localhost"
}

// Send delivers msg and reports success. It never panics and never returns
// transport errors; failures are logged and reported as false.
func (s *Service) Send(ctx context.Context, msg Message) bool {
	if s == nil || s.transport == nil || s.config == nil {
		if s != nil {
			s.logger.Error("mail service misconfigured")
		}
		return false
	}

	if strings.TrimSpace(msg.To) == "" {
		s.logger.Error("email not sent: recipient is empty", zap.String("subject", msg.Subject))
		s.metrics.EmailSent(s.transport.Name(), false)
		return false
	}

	if msg.From == "" {
		msg.From = s.defaultFrom()
	}

	startTime := time.Now()
	err := s.transport.Deliver(ctx, msg)
	duration := time.Since(startTime)

	s.metrics.EmailSent(s.transport.Name(), err == nil)

	if err != nil {
		s.logger.Error("failed to send email",
			zap.Error(err),
			zap.String("transport", s.transport.Name()),
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Duration("attempt_duration", duration))
		return false
	}

	s.logger.Info("email sent successfully",
		zap.String("transport", s.transport.Name()),
		zap.String("to", msg.To),
		zap.Duration("send_duration", duration))
	return true
}

func (s *Service) TransportName() string {
	if s == nil || s.transport == nil {
		return ""
	}
	return s.transport.Name()
}
