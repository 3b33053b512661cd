package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles known to the portal. Role is fixed at provisioning time; permissions
// are derived from it, never stored per user.
const (
	RoleSolicitante = "solicitante"
	RoleGestora     = "gestora"
)

// Permission names used by the authorization middleware.
const (
	PermCreateRequests  = "create_requests"
	PermViewOwnRequests = "view_own_requests"
	PermViewAllRequests = "view_all_requests"
	PermApproveRequests = "approve_requests"
	PermRejectRequests  = "reject_requests"
)

// PermissionsForRole maps a role to its permission set.
func PermissionsForRole(role string) []string {
	switch role {
	case RoleGestora:
		return []string{PermViewAllRequests, PermApproveRequests, PermRejectRequests, PermViewOwnRequests}
	case RoleSolicitante:
		return []string{PermCreateRequests, PermViewOwnRequests}
	default:
		return nil
	}
}

// User is the authenticated caller placed into the request context.
type User struct {
	ID                 int64    `json:"id"`
	Email              string   `json:"email"`
	Name               string   `json:"name"`
	Role               string   `json:"role"`
	Polo               string   `json:"polo"`
	MonthlySalaryCents int64    `json:"-"`
	Permissions        []string `json:"permissions,omitempty"`
}

func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (u *User) HasAnyPermission(permissions []string) bool {
	for _, userPerm := range u.Permissions {
		for _, requiredPerm := range permissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

// IsGestora reports whether the user can view and decide all requests.
func (u *User) IsGestora() bool {
	return u.HasAnyPermission([]string{PermApproveRequests, PermRejectRequests, PermViewAllRequests})
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID string, email string) (token string, err error)
	GenerateRefreshToken(userID string, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
)
