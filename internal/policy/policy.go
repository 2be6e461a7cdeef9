// Package policy decides what an authenticated identity may do. Every
// function is a pure predicate over the identity supplied by the auth
// middleware; a nil identity means the caller is unauthenticated.
package policy

import (
	"fmt"

	"nftickets/internal/models"
	"nftickets/internal/repositories"
)

// CanCreateEvent reports whether the identity holds the artist capability.
func CanCreateEvent(identity *models.Identity) bool {
	return identity != nil && identity.IsArtist
}

// RequireIdentity fails with ErrUnauthenticated when there is no identity.
func RequireIdentity(identity *models.Identity) error {
	if identity == nil || identity.UserID == "" {
		return repositories.ErrUnauthenticated
	}
	return nil
}

// RequireArtist fails unless the identity is an authenticated artist.
func RequireArtist(identity *models.Identity) error {
	if err := RequireIdentity(identity); err != nil {
		return err
	}
	if !CanCreateEvent(identity) {
		return fmt.Errorf("user %s is not an artist: %w", identity.UserID, repositories.ErrForbidden)
	}
	return nil
}

// ArtistScope returns the artist id that artist-scoped listings are filtered by.
func ArtistScope(identity *models.Identity) (string, error) {
	if err := RequireArtist(identity); err != nil {
		return "", err
	}
	return identity.UserID, nil
}

// CanManageEvent fails unless the identity is the artist who created the event.
func CanManageEvent(identity *models.Identity, event *models.Event) error {
	artistID, err := ArtistScope(identity)
	if err != nil {
		return err
	}
	if event.ArtistID != artistID {
		return fmt.Errorf("event %d belongs to another artist: %w", event.ID, repositories.ErrForbidden)
	}
	return nil
}
