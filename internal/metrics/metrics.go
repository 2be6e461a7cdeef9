// Package metrics exposes Prometheus instrumentation for the inventory and
// the HTTP surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Verification code outcomes.
const (
	CodeIssued   = "issued"
	CodeVerified = "verified"
	CodeRejected = "rejected"
)

var (
	eventsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nftickets_events_created_total",
			Help: "Events created by artists",
		},
	)

	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nftickets_tickets_issued_total",
			Help: "Tickets issued",
		},
	)

	ticketRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nftickets_ticket_rejections_total",
			Help: "Ticket purchases refused, by reason",
		},
		[]string{"reason"},
	)

	verificationCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nftickets_verification_codes_total",
			Help: "Verification code operations, by outcome",
		},
		[]string{"outcome"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nftickets_http_requests_total",
			Help: "HTTP requests, by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nftickets_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func EventCreated() {
	eventsCreated.Inc()
}

func TicketIssued() {
	ticketsIssued.Inc()
}

// TicketRejected counts a refused purchase; reason is a short stable label
// such as "sold_out" or "not_found".
func TicketRejected(reason string) {
	ticketRejections.WithLabelValues(reason).Inc()
}

func VerificationCode(outcome string) {
	verificationCodes.WithLabelValues(outcome).Inc()
}

// Middleware records a counter and latency histogram per matched route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		route := c.Route().Path
		method := c.Method()
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the Prometheus exposition format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
