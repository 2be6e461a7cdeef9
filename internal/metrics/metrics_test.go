package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(ticketsIssued)
	TicketIssued()
	assert.Equal(t, before+1, testutil.ToFloat64(ticketsIssued))

	soldOut := testutil.ToFloat64(ticketRejections.WithLabelValues("sold_out"))
	TicketRejected("sold_out")
	assert.Equal(t, soldOut+1, testutil.ToFloat64(ticketRejections.WithLabelValues("sold_out")))

	issued := testutil.ToFloat64(verificationCodes.WithLabelValues(CodeIssued))
	VerificationCode(CodeIssued)
	assert.Equal(t, issued+1, testutil.ToFloat64(verificationCodes.WithLabelValues(CodeIssued)))

	created := testutil.ToFloat64(eventsCreated)
	EventCreated()
	assert.Equal(t, created+1, testutil.ToFloat64(eventsCreated))
}

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/ping/:id", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", Handler())

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ping/:id", "200"))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping/7", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ping/:id", "200")))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(body), "nftickets_http_requests_total")
}
