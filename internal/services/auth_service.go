package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"nftickets/internal/messages"
	"nftickets/internal/models"
	"nftickets/internal/repositories"
	"nftickets/pkg/logger"

	"github.com/dgrijalva/jwt-go"
)

// AuthService handles passwordless sign-in and identity tokens.
type AuthService struct {
	users     repositories.InventoryRepository
	ledger    *VerificationLedger
	publisher Publisher
	log       *logger.Logger
	jwtSecret []byte
	tokenTTL  time.Duration // Duration for which JWT is valid
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.InventoryRepository, ledger *VerificationLedger, publisher Publisher, log *logger.Logger, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		ledger:    ledger,
		publisher: publisher,
		log:       log,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for token issuance.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RequestCode issues a verification code for email and hands it to the
// mailer through the outbox.
func (s *AuthService) RequestCode(email string) (*models.VerificationCode, error) {
	email = NormalizeEmail(email)
	vc, err := s.ledger.CreateVerificationCode(email)
	if err != nil {
		return nil, err
	}

	publish(s.log, s.publisher, messages.QueueVerificationCodes, messages.TypeCodeRequested, messages.CodeRequested{
		Email:     vc.Email,
		Code:      vc.Code,
		ExpiresAt: vc.ExpiresAt,
	})
	s.log.Infow("Verification code issued", "email", vc.Email, "expiresAt", vc.ExpiresAt)
	return vc, nil
}

// Verify redeems a code and returns the user together with a signed token.
// The user is created on first sign-in; isArtist only applies then.
func (s *AuthService) Verify(email, code string, isArtist bool) (*models.User, string, error) {
	email = NormalizeEmail(email)
	if _, err := s.ledger.ValidateAndConsume(email, code); err != nil {
		return nil, "", err
	}

	user, err := s.findOrCreateUser(email, isArtist)
	if err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) findOrCreateUser(email string, isArtist bool) (*models.User, error) {
	user, err := s.users.GetUserByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = &models.User{Email: email, IsArtist: isArtist}
	if err := s.users.CreateUser(user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// Lost a race with a concurrent first sign-in.
			return s.users.GetUserByEmail(email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.log.Infow("User created", "userId", user.ID, "isArtist", user.IsArtist)
	return user, nil
}

// IssueToken signs an identity token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"email":     user.Email,
		"is_artist": user.IsArtist,
		"exp":       now.Add(s.tokenTTL).Unix(), // Token expiration time
		"iat":       now.Unix(),                 // Issued at time
	}
	if user.WalletAddress != nil {
		claims["wallet_address"] = *user.WalletAddress
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning the identity it carries.
func (s *AuthService) ValidateToken(tokenString string) (*models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v: %w", err, repositories.ErrUnauthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", repositories.ErrUnauthenticated)
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("token has no subject: %w", repositories.ErrUnauthenticated)
	}
	identity := &models.Identity{UserID: userID}
	identity.Email, _ = claims["email"].(string)
	identity.IsArtist, _ = claims["is_artist"].(bool)
	if wallet, ok := claims["wallet_address"].(string); ok && wallet != "" {
		identity.WalletAddress = &wallet
	}
	return identity, nil
}
