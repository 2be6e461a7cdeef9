package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"nftickets/internal/app"
	"nftickets/internal/messages"
	"nftickets/internal/models"
	"nftickets/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testWallet = "0x52908400098527886e0f7030069857d2e4169ee7"

// outbox records published messages and remembers the last code sent per email.
type outbox struct {
	mu    sync.Mutex
	codes map[string]string
	types []string
}

func (o *outbox) PublishJSON(queue, messageType string, payload interface{}) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if msg, ok := payload.(messages.CodeRequested); ok {
		o.codes[msg.Email] = msg.Code
	}
	o.types = append(o.types, messageType)
	return nil
}

func (o *outbox) code(email string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.codes[email]
}

func (o *outbox) count(messageType string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, t := range o.types {
		if t == messageType {
			n++
		}
	}
	return n
}

// setupApp sets up a Fiber app backed by the in-memory store.
func setupApp(t *testing.T) (*fiber.App, *outbox, *repositories.MemoryInventoryRepository) {
	t.Helper()
	inventory := repositories.NewMemoryInventoryRepository()
	box := &outbox{codes: make(map[string]string)}
	a := app.New(app.Options{
		Inventory:  inventory,
		Codes:      repositories.NewMemoryVerificationCodeRepository(),
		Publisher:  box,
		JWTSecret:  "test_jwt_secret",
		BcryptCost: bcrypt.MinCost,
	})
	return a.Fiber, box, inventory
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

type verifyResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func signIn(t *testing.T, app *fiber.App, box *outbox, email string, isArtist bool) verifyResponse {
	t.Helper()
	status, _ := doJSON(t, app, http.MethodPost, "/api/auth/request-code", "", fiber.Map{"email": email})
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/verify", "", fiber.Map{
		"email":    email,
		"code":     box.code(email),
		"isArtist": isArtist,
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var resp verifyResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

func createEvent(t *testing.T, app *fiber.App, token string, supply int) models.Event {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/events", token, fiber.Map{
		"title":       "Rooftop Session",
		"description": "Live set",
		"imageUrl":    "https://ipfs.io/ipfs/bafybeigdyrzt",
		"date":        "2025-06-01T20:00:00Z",
		"venue":       "Warehouse 9",
		"price":       "0.05",
		"totalSupply": supply,
		"artistId":    "someone-else",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var event models.Event
	require.NoError(t, json.Unmarshal(body, &event))
	return event
}

func TestVerificationFlow(t *testing.T) {
	app, box, _ := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/request-code", "", fiber.Map{"email": "fan@example.com"})
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(body), box.code("fan@example.com"), "the code is never returned over HTTP")
	assert.Equal(t, 1, box.count(messages.TypeCodeRequested))

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/verify", "", fiber.Map{"email": "fan@example.com", "code": "000000"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doJSON(t, app, http.MethodPost, "/api/auth/verify", "", fiber.Map{"email": "fan@example.com", "code": "12345"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), `"code"`)

	code := box.code("fan@example.com")
	status, body = doJSON(t, app, http.MethodPost, "/api/auth/verify", "", fiber.Map{"email": "fan@example.com", "code": code})
	require.Equal(t, http.StatusOK, status, string(body))

	var resp verifyResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "fan@example.com", resp.User.Email)
	assert.False(t, resp.User.IsArtist)
	assert.NotEmpty(t, resp.User.ID)

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/verify", "", fiber.Map{"email": "fan@example.com", "code": code})
	assert.Equal(t, http.StatusBadRequest, status, "a code is consumable once")

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/request-code", "", fiber.Map{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestNonArtistCannotCreateEvent(t *testing.T) {
	app, box, inventory := setupApp(t)
	fan := signIn(t, app, box, "fan@example.com", false)

	status, _ := doJSON(t, app, http.MethodPost, "/api/events", fan.Token, fiber.Map{
		"title": "Nope", "venue": "Garage", "date": "2025-06-01T20:00:00Z", "totalSupply": 10,
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/events", "", fiber.Map{"title": "Nope"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/artist/events", fan.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	events, err := inventory.GetEvents()
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestGetEvent(t *testing.T) {
	app, box, _ := setupApp(t)

	status, _ := doJSON(t, app, http.MethodGet, "/api/events/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/events/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	artist := signIn(t, app, box, "artist@example.com", true)
	created := createEvent(t, app, artist.Token, 5)

	status, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/events/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	var event models.Event
	require.NoError(t, json.Unmarshal(body, &event))
	assert.Equal(t, "Rooftop Session", event.Title)
	assert.True(t, decimal.RequireFromString("0.05").Equal(event.Price))

	status, body = doJSON(t, app, http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, status)
	var events []models.Event
	require.NoError(t, json.Unmarshal(body, &events))
	assert.Len(t, events, 1)
}

func TestEventAndTicketLifecycle(t *testing.T) {
	app, box, inventory := setupApp(t)
	artist := signIn(t, app, box, "artist@example.com", true)
	fan := signIn(t, app, box, "fan@example.com", false)

	event := createEvent(t, app, artist.Token, 2)
	assert.Equal(t, artist.User.ID, event.ArtistID, "artistId comes from the caller")
	assert.Equal(t, 2, event.RemainingSupply)
	assert.Equal(t, int64(models.DefaultChainID), event.ChainID)
	assert.Nil(t, event.ContractAddress)
	assert.Equal(t, 1, box.count(messages.TypeEventCreated))

	for want := 1; want <= 2; want++ {
		status, body := doJSON(t, app, http.MethodPost, "/api/tickets", fan.Token, fiber.Map{"eventId": event.ID, "tokenId": 99})
		require.Equal(t, http.StatusCreated, status, string(body))
		var ticket models.Ticket
		require.NoError(t, json.Unmarshal(body, &ticket))
		assert.Equal(t, want, ticket.TokenID)
		assert.Equal(t, fan.User.ID, ticket.UserID)
	}

	status, body := doJSON(t, app, http.MethodPost, "/api/tickets", fan.Token, fiber.Map{"eventId": event.ID})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "sold out")
	assert.Equal(t, 2, box.count(messages.TypeTicketIssued))

	stored, err := inventory.GetEvent(event.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.RemainingSupply)

	status, _ = doJSON(t, app, http.MethodPost, "/api/tickets", fan.Token, fiber.Map{"eventId": 999})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/tickets", "", fiber.Map{"eventId": event.ID})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/user/tickets", fan.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var tickets []models.Ticket
	require.NoError(t, json.Unmarshal(body, &tickets))
	assert.Len(t, tickets, 2)

	status, body = doJSON(t, app, http.MethodGet, "/api/artist/events", artist.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var artistEvents []models.Event
	require.NoError(t, json.Unmarshal(body, &artistEvents))
	assert.Len(t, artistEvents, 1)

	ticketsPath := fmt.Sprintf("/api/events/%d/tickets", event.ID)
	status, _ = doJSON(t, app, http.MethodGet, ticketsPath, artist.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodGet, ticketsPath, fan.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	contractPath := fmt.Sprintf("/api/events/%d/contract", event.ID)
	status, _ = doJSON(t, app, http.MethodPut, contractPath, artist.Token, fiber.Map{"contractAddress": "0x123"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = doJSON(t, app, http.MethodPut, contractPath, fan.Token, fiber.Map{"contractAddress": testWallet})
	assert.Equal(t, http.StatusForbidden, status)
	status, body = doJSON(t, app, http.MethodPut, contractPath, artist.Token, fiber.Map{"contractAddress": testWallet})
	require.Equal(t, http.StatusOK, status, string(body))
	status, _ = doJSON(t, app, http.MethodPut, contractPath, artist.Token, fiber.Map{"contractAddress": testWallet})
	assert.Equal(t, http.StatusConflict, status)
}

func TestCreateEventValidation(t *testing.T) {
	app, box, _ := setupApp(t)
	artist := signIn(t, app, box, "artist@example.com", true)

	status, body := doJSON(t, app, http.MethodPost, "/api/events", artist.Token, fiber.Map{
		"venue": "Warehouse 9", "date": "2025-06-01T20:00:00Z", "totalSupply": 0,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), `"title"`)
	assert.Contains(t, string(body), `"totalSupply"`)

	status, _ = doJSON(t, app, http.MethodPost, "/api/events", artist.Token, fiber.Map{
		"title": "Show", "venue": "Warehouse 9", "date": "2025-06-01T20:00:00Z", "totalSupply": 10, "price": "-1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestWalletAndProfile(t *testing.T) {
	app, box, _ := setupApp(t)
	fan := signIn(t, app, box, "fan@example.com", false)

	status, _ := doJSON(t, app, http.MethodPost, "/api/user/wallet", fan.Token, fiber.Map{"walletAddress": "not-a-wallet"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/user/wallet", fan.Token, fiber.Map{"walletAddress": testWallet})
	assert.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodGet, "/api/user", fan.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var user models.User
	require.NoError(t, json.Unmarshal(body, &user))
	require.NotNil(t, user.WalletAddress)
	assert.Equal(t, testWallet, *user.WalletAddress)

	status, _ = doJSON(t, app, http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogout(t *testing.T) {
	app, box, _ := setupApp(t)
	fan := signIn(t, app, box, "fan@example.com", false)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/logout", fan.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "Logged out")

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestHealth(t *testing.T) {
	app, _, _ := setupApp(t)
	status, body := doJSON(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "healthy")
}
