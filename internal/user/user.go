package user

import (
	"errors"
	"time"

	"github.com/rmoreas/benefits-portal/internal/auth"
	userDatamodel "github.com/rmoreas/benefits-portal/internal/core/datamodel/user"
)

// User is the portal profile. The salary only leaves the service through the
// reimbursement suggestion, never through the JSON profile.
type User struct {
	ID                   int64     `json:"id"`
	AuthID               string    `json:"auth_id"`
	Email                string    `json:"email"`
	Name                 string    `json:"name"`
	PasswordHash         string    `json:"-"`
	Role                 string    `json:"role"`
	Polo                 string    `json:"polo"`
	Department           string    `json:"department"`
	MonthlySalaryCents   int64     `json:"-"`
	ConsentDataUse       bool      `json:"consent_data_use"`
	ConsentNotifications bool      `json:"consent_notifications"`
	IsActive             bool      `json:"is_active"`
	Permissions          []string  `json:"permissions,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

var ErrNotFound = errors.New("user not found")

func (u *User) IsGestora() bool {
	return u.Role == auth.RoleGestora
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:                   u.ID,
		AuthID:               u.AuthID,
		Email:                u.Email,
		PasswordHash:         u.PasswordHash,
		Name:                 u.Name,
		Role:                 u.Role,
		Polo:                 u.Polo,
		Department:           u.Department,
		MonthlySalaryCents:   u.MonthlySalaryCents,
		ConsentDataUse:       u.ConsentDataUse,
		ConsentNotifications: u.ConsentNotifications,
		IsActive:             u.IsActive,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

func FromDataModel(dm *userDatamodel.User) *User {
	return &User{
		ID:                   dm.ID,
		AuthID:               dm.AuthID,
		Email:                dm.Email,
		PasswordHash:         dm.PasswordHash,
		Name:                 dm.Name,
		Role:                 dm.Role,
		Polo:                 dm.Polo,
		Department:           dm.Department,
		MonthlySalaryCents:   dm.MonthlySalaryCents,
		ConsentDataUse:       dm.ConsentDataUse,
		ConsentNotifications: dm.ConsentNotifications,
		IsActive:             dm.IsActive,
		CreatedAt:            dm.CreatedAt,
		UpdatedAt:            dm.UpdatedAt,
	}
}
