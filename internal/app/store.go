package app

import (
	"nftickets/internal/repositories"
	"nftickets/pkg/logger"

	"gorm.io/gorm"
)

// Store bundles the repositories of one backend.
type Store struct {
	Inventory repositories.InventoryRepository
	Codes     repositories.VerificationCodeRepository
	db        *gorm.DB
}

// OpenStore selects the backend named by driver. The memory backend ignores dsn.
func OpenStore(driver, dsn string, log *logger.Logger) (*Store, error) {
	if driver == "" || driver == repositories.DriverMemory {
		return &Store{
			Inventory: repositories.NewMemoryInventoryRepository(),
			Codes:     repositories.NewMemoryVerificationCodeRepository(),
		}, nil
	}

	db, err := repositories.OpenDatabase(driver, dsn, log)
	if err != nil {
		return nil, err
	}
	return &Store{
		Inventory: repositories.NewGORMInventoryRepository(db),
		Codes:     repositories.NewGORMVerificationCodeRepository(db),
		db:        db,
	}, nil
}

// Close releases the database connection, if any.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return repositories.CloseDatabase(s.db)
}
