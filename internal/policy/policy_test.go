package policy_test

import (
	"testing"

	"nftickets/internal/models"
	"nftickets/internal/policy"
	"nftickets/internal/repositories"

	"github.com/stretchr/testify/assert"
)

var (
	artist = &models.Identity{UserID: "artist-1", Email: "dj@example.com", IsArtist: true}
	fan    = &models.Identity{UserID: "fan-1", Email: "fan@example.com"}
)

func TestCanCreateEvent(t *testing.T) {
	assert.True(t, policy.CanCreateEvent(artist))
	assert.False(t, policy.CanCreateEvent(fan))
	assert.False(t, policy.CanCreateEvent(nil))
}

func TestRequireArtist(t *testing.T) {
	assert.NoError(t, policy.RequireArtist(artist))
	assert.ErrorIs(t, policy.RequireArtist(fan), repositories.ErrForbidden)
	assert.ErrorIs(t, policy.RequireArtist(nil), repositories.ErrUnauthenticated)
}

func TestRequireIdentity(t *testing.T) {
	assert.NoError(t, policy.RequireIdentity(fan))
	assert.ErrorIs(t, policy.RequireIdentity(nil), repositories.ErrUnauthenticated)
	assert.ErrorIs(t, policy.RequireIdentity(&models.Identity{}), repositories.ErrUnauthenticated)
}

func TestArtistScope(t *testing.T) {
	scope, err := policy.ArtistScope(artist)
	assert.NoError(t, err)
	assert.Equal(t, "artist-1", scope)

	_, err = policy.ArtistScope(fan)
	assert.ErrorIs(t, err, repositories.ErrForbidden)
	_, err = policy.ArtistScope(nil)
	assert.ErrorIs(t, err, repositories.ErrUnauthenticated)
}

func TestCanManageEvent(t *testing.T) {
	own := &models.Event{ID: 1, ArtistID: "artist-1"}
	other := &models.Event{ID: 2, ArtistID: "artist-2"}

	assert.NoError(t, policy.CanManageEvent(artist, own))
	assert.ErrorIs(t, policy.CanManageEvent(artist, other), repositories.ErrForbidden)
	assert.ErrorIs(t, policy.CanManageEvent(fan, own), repositories.ErrForbidden)
	assert.ErrorIs(t, policy.CanManageEvent(nil, own), repositories.ErrUnauthenticated)
}
