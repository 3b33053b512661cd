package user

import (
	"fmt"

	"github.com/rmoreas/benefits-portal/internal/auth"
)

type Repository interface {
	GetByID(userID int64) (*User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID loads the profile and derives the permission set from the role.
func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	u.Permissions = auth.PermissionsForRole(u.Role)

	return u, nil
}
