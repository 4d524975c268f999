package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service exposes the application counters on its own registry, not the
// global default one.
type Service struct {
	registry      *prometheus.Registry
	resetRequests *prometheus.CounterVec
	emailsSent    *prometheus.CounterVec
	tokensCleaned prometheus.Counter
}

func NewService() *Service {
	registry := prometheus.NewRegistry()

	s := &Service{
		registry: registry,
		resetRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cadence",
			Name:      "password_reset_requests_total",
			Help:      "Password reset requests by action and outcome.",
		}, []string{"action", "outcome"}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cadence",
			Name:      "emails_sent_total",
			Help:      "Outbound emails by transport and result.",
		}, []string{"transport", "result"}),
		tokensCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cadence",
			Name:      "reset_tokens_cleaned_total",
			Help:      "Expired reset tokens removed by the cleanup job.",
		}),
	}

	registry.MustRegister(
		s.resetRequests,
		s.emailsSent,
		s.tokensCleaned,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return s
}

func (s *Service) ResetRequest(action, outcome string) {
	if s == nil {
		return
	}
	s.resetRequests.WithLabelValues(action, outcome).Inc()
}

func (s *Service) EmailSent(transport string, ok bool) {
	if s == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	s.emailsSent.WithLabelValues(transport, result).Inc()
}

func (s *Service) TokensCleaned(n int64) {
	if s == nil || n <= 0 {
		return
	}
	s.tokensCleaned.Add(float64(n))
}

func (s *Service) Registry() *prometheus.Registry {
	if s == nil {
		return nil
	}
	return s.registry
}

func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
