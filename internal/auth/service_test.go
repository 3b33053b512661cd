package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock UserRepository for testing
type mockUserRepository struct {
	passwords     map[string]string // email -> password hash
	userIDs       map[string]string // email -> userID
	usersByID     map[int64]*User
	returnError   bool
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockUserRepository{
		passwords: map[string]string{
			"maria@empresa.com": string(hashedPassword),
			"clara@empresa.com": string(hashedPassword),
		},
		userIDs: map[string]string{
			"maria@empresa.com": "1",
			"clara@empresa.com": "2",
		},
		usersByID: map[int64]*User{
			1: {ID: 1, Email: "maria@empresa.com", Name: "Maria", Role: RoleSolicitante, Polo: "campinas"},
			2: {ID: 2, Email: "clara@empresa.com", Name: "Clara", Role: RoleGestora, Polo: "matriz"},
		},
	}
}

func (m *mockUserRepository) GetPasswordForEmail(email string) (string, string, error) {
	if m.returnError {
		return "", "", m.errorToReturn
	}

	if hash, exists := m.passwords[email]; exists {
		if userID, userExists := m.userIDs[email]; userExists {
			return hash, userID, nil
		}
	}
	return "", "", errors.New("user not found")
}

func (m *mockUserRepository) GetUserByID(userID int64) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}

	if user, exists := m.usersByID[userID]; exists {
		copied := *user
		return &copied, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

var _ = ginkgo.Describe("Auth Service", func() {
	var (
		service  *Service
		userRepo *mockUserRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		userRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
		service = NewService(userRepo, tokenGen, bcrypt.MinCost)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("with valid credentials", func() {
			ginkgo.It("should return an access and a refresh token", func() {
				// Given registered credentials
				dto := LoginDTO{Email: "maria@empresa.com", Password: "correct_password"}

				// When authenticating
				tokens, err := service.Authenticate(dto)

				// Then both tokens are issued
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).NotTo(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).NotTo(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).NotTo(gomega.Equal(tokens.RefreshToken))
			})

			ginkgo.It("should issue an access token that validates back to the caller", func() {
				dto := LoginDTO{Email: "maria@empresa.com", Password: "correct_password"}

				tokens, err := service.Authenticate(dto)
				gomega.Expect(err).NotTo(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal("1"))
				gomega.Expect(claims.Email).To(gomega.Equal("maria@empresa.com"))
			})
		})

		ginkgo.Context("with a wrong password", func() {
			ginkgo.It("should return invalid credentials", func() {
				dto := LoginDTO{Email: "maria@empresa.com", Password: "wrong_password"}

				_, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
			})
		})

		ginkgo.Context("with an unknown email", func() {
			ginkgo.It("should return invalid credentials without leaking the lookup error", func() {
				dto := LoginDTO{Email: "nobody@empresa.com", Password: "correct_password"}

				_, err := service.Authenticate(dto)

				gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
			})
		})

		ginkgo.Context("with missing fields", func() {
			ginkgo.It("should reject an empty email", func() {
				_, err := service.Authenticate(LoginDTO{Password: "correct_password"})

				var validationErr ValidationError
				gomega.Expect(errors.As(err, &validationErr)).To(gomega.BeTrue())
			})

			ginkgo.It("should reject an empty password", func() {
				_, err := service.Authenticate(LoginDTO{Email: "maria@empresa.com"})

				var validationErr ValidationError
				gomega.Expect(errors.As(err, &validationErr)).To(gomega.BeTrue())
			})
		})

		ginkgo.Context("when the repository fails", func() {
			ginkgo.It("should return invalid credentials", func() {
				userRepo.setError(errors.New("connection refused"))

				_, err := service.Authenticate(LoginDTO{Email: "maria@empresa.com", Password: "correct_password"})

				gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should exchange a valid refresh token for a new pair", func() {
			tokens, err := service.Authenticate(LoginDTO{Email: "clara@empresa.com", Password: "correct_password"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			renewed, err := service.RefreshTokens(tokens.RefreshToken)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(renewed.AccessToken).NotTo(gomega.BeEmpty())
			gomega.Expect(renewed.RefreshToken).NotTo(gomega.BeEmpty())

			claims, err := service.ValidateAccessToken(renewed.AccessToken)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("2"))
		})

		ginkgo.It("should reject garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")

			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.It("should reject an expired token", func() {
			expiredGen := NewJWTTokenGenerator("access-secret", "refresh-secret", time.Nanosecond, 7*24*time.Hour)
			token, err := expiredGen.GenerateAccessToken("1", "maria@empresa.com")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			time.Sleep(5 * time.Millisecond)

			_, err = service.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.MatchError(ErrTokenExpired))
		})

		ginkgo.It("should reject a token signed with a different secret", func() {
			otherGen := NewJWTTokenGenerator("someone-elses-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
			token, err := otherGen.GenerateAccessToken("1", "maria@empresa.com")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})
	})

	ginkgo.Describe("GetUser", func() {
		ginkgo.It("should derive solicitante permissions from the stored role", func() {
			u, err := service.GetUser(1)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(u.Permissions).To(gomega.ConsistOf(PermCreateRequests, PermViewOwnRequests))
			gomega.Expect(u.IsGestora()).To(gomega.BeFalse())
		})

		ginkgo.It("should derive gestora permissions from the stored role", func() {
			u, err := service.GetUser(2)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(u.Permissions).To(gomega.ContainElements(PermApproveRequests, PermRejectRequests, PermViewAllRequests))
			gomega.Expect(u.IsGestora()).To(gomega.BeTrue())
		})

		ginkgo.It("should propagate repository errors", func() {
			userRepo.setError(errors.New("connection refused"))

			_, err := service.GetUser(1)

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("HashPassword", func() {
		ginkgo.It("should produce a hash that verifies against the original password", func() {
			hash, err := service.HashPassword("s3cret")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret"))).To(gomega.Succeed())
			gomega.Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte("other"))).NotTo(gomega.Succeed())
		})
	})
})
