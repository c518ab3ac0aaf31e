package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborview-hospitality/service-reservation/internal/domain"
	userDomain "github.com/harborview-hospitality/service-reservation/internal/domain/user"
	"github.com/harborview-hospitality/service-reservation/internal/platform/auth"
)

// LoginRequest holds staff login credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponseDTO carries the issued token and the account it belongs to.
type AuthResponseDTO struct {
	Token    string    `json:"token"`
	Type     string    `json:"type"`
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
}

// AuthService authenticates staff accounts and issues access tokens.
type AuthService struct {
	users  userDomain.Repository
	jwt    *auth.JWTManager
	logger *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users userDomain.Repository, jwt *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, logger: logger}
}

// Login verifies the credentials and returns a signed access token. Unknown
// usernames and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponseDTO, error) {
	u, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.Enabled() || !u.CheckPassword(req.Password) {
		return nil, domain.NewUnauthorizedError("invalid username or password")
	}

	token, err := s.jwt.Generate(u.Username(), string(u.Role()))
	if err != nil {
		return nil, err
	}

	s.logger.Info("staff login", zap.String("username", u.Username()), zap.String("role", string(u.Role())))

	return &AuthResponseDTO{
		Token:    token,
		Type:     "Bearer",
		ID:       u.ID(),
		Username: u.Username(),
		Name:     u.Name(),
		Role:     string(u.Role()),
	}, nil
}
