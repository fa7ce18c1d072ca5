package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/orderdesk/intake-server-go/internal/errors"
	"github.com/orderdesk/intake-server-go/internal/model"
	"github.com/orderdesk/intake-server-go/internal/repository"
	"github.com/orderdesk/intake-server-go/internal/token"
	"github.com/orderdesk/intake-server-go/internal/util"
)

type AuthService struct {
	adminRepo repository.AdminUserRepository
	tokens    *token.Service
}

func NewAuthService(adminRepo repository.AdminUserRepository, tokens *token.Service) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		tokens:    tokens,
	}
}

// Login verifies the credentials and issues a session token. A nil
// identity with a nil error means the credentials were rejected; unknown
// username, wrong password and deactivated account are deliberately
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.AdminIdentity, string, error) {
	user, err := s.adminRepo.FindActiveByUsername(ctx, username)
	if err != nil {
		return nil, "", apperrors.Database(err)
	}

	if user == nil || !util.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", nil
	}

	// Best effort: a failed timestamp update must not block the login.
	if err := s.adminRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Error().Err(err).Str("adminId", user.ID).Msg("failed to update last login")
	}

	identity := user.Identity()
	sessionToken, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, "", apperrors.Internal("Failed to issue session token").WithCause(err)
	}

	return &identity, sessionToken, nil
}
