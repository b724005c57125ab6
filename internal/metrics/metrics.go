// Package metrics exposes Prometheus instrumentation for the chat backend:
// HTTP traffic, authentication outcomes, chat container transitions and
// live WebSocket sessions.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts finished requests by method and status code.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatapp_http_requests_total",
		Help: "Total number of HTTP requests handled",
	}, []string{"method", "status"})

	// AuthEventsTotal counts register/login/logout attempts by outcome.
	AuthEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatapp_auth_events_total",
		Help: "Authentication events by event and outcome",
	}, []string{"event", "outcome"}) // outcome = "ok", "rejected", "error", "limited"

	// ChatTransitionsTotal counts container transitions that changed state.
	ChatTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatapp_chat_transitions_total",
		Help: "Chat container transitions applied",
	}, []string{"action"})

	LiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chatapp_live_sessions",
		Help: "Current number of live chat container sessions",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		AuthEventsTotal,
		ChatTransitionsTotal,
		LiveSessions,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAuth increments the auth counter for event with the given outcome.
func RecordAuth(event, outcome string) {
	AuthEventsTotal.WithLabelValues(event, outcome).Inc()
}

// Middleware counts every request once its handler chain has returned.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		HTTPRequestsTotal.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()
		return err
	}
}
