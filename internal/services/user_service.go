package services

import (
	"nftickets/internal/models"
	"nftickets/internal/policy"
	"nftickets/internal/repositories"
	"nftickets/pkg/logger"
)

// UserService exposes the caller's own profile.
type UserService struct {
	repo repositories.InventoryRepository
	log  *logger.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.InventoryRepository, log *logger.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// Current returns the stored user behind the identity.
func (s *UserService) Current(identity *models.Identity) (*models.User, error) {
	if err := policy.RequireIdentity(identity); err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(identity.UserID)
}

// AttachWallet records the wallet address returned by the wallet connection.
func (s *UserService) AttachWallet(identity *models.Identity, walletAddress string) (*models.User, error) {
	if err := policy.RequireIdentity(identity); err != nil {
		return nil, err
	}
	user, err := s.repo.UpdateUserWallet(identity.UserID, walletAddress)
	if err != nil {
		return nil, err
	}
	s.log.Infow("Wallet attached", "userId", user.ID)
	return user, nil
}
