package identity

import (
	"context"
	"errors"
	"time"

	"github.com/furnitureops/backend/internal/domain/identity"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	revocation auth.RevocationStore
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
// revocation may be nil, in which case logout is client-side only.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	revocation auth.RevocationStore,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		revocation: revocation,
		logger:     logger,
		now:        time.Now,
	}
}

// Login checks the password and opens a session. Unknown users and wrong
// passwords get the same INVALID_CREDENTIALS answer.
func (s *AuthService) Login(ctx context.Context, input Credentials) (*Session, error) {
	s.logger.Info("Login attempt", zap.String("username", input.Username), zap.String("ip", input.IP))

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to load user during login", zap.Error(err))
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.Active {
		s.logger.Warn("Login attempt for inactive account", zap.String("username", input.Username))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(tokenInputFor(user, 0))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLogin(s.now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		// login still succeeds
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	s.logger.Info("User logged in successfully",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))

	return &Session{TokenPair: tokenPair, User: toUserInfo(user)}, nil
}

// RefreshToken issues a new token pair from a valid refresh token.
// Permissions are recomputed from the user's current role.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if s.revocation != nil {
		revoked, err := s.revocation.IsRevoked(ctx, claims.ID)
		if err == nil && !revoked {
			revoked, err = s.revocation.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
		}
		if err != nil {
			s.logger.Error("Failed to check token revocation", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate refresh token")
		}
		if revoked {
			return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
		}
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, claims.TenantUUID(), claims.UserUUID())
	if err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", claims.UserID))
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
	if !user.Active {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", claims.UserID))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(tokenInputFor(user, claims.RefreshCount+1))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh token")
	}

	// the old refresh token cannot be replayed
	if s.revocation != nil {
		if err := s.revocation.RevokeToken(ctx, claims.ID, claims.RemainingTTL()); err != nil {
			s.logger.Warn("Failed to revoke used refresh token", zap.Error(err))
		}
	}

	s.logger.Info("Token refreshed successfully", zap.String("user_id", claims.UserID))

	return tokenPair, nil
}

// Logout revokes the presented access token for the rest of its lifetime.
// Without a revocation store it only logs.
func (s *AuthService) Logout(ctx context.Context, tenantID, userID uuid.UUID, claims *auth.Claims) error {
	s.logger.Info("User logout",
		zap.String("user_id", userID.String()),
		zap.String("tenant_id", tenantID.String()))

	if s.revocation == nil || claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.revocation.RevokeToken(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to log out", err)
	}
	return nil
}

// GetCurrentUser reloads the caller so role changes show up before the
// token expires.
func (s *AuthService) GetCurrentUser(ctx context.Context, tenantID, userID uuid.UUID) (UserInfo, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return UserInfo{}, err
	}
	return toUserInfo(user), nil
}

// ChangePassword verifies the current password, stores the new hash and
// revokes every token issued to the user so far.
func (s *AuthService) ChangePassword(ctx context.Context, tenantID, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(oldPassword, newPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return err
	}

	if s.revocation != nil {
		if err := s.revocation.RevokeUser(ctx, userID.String(), s.jwtService.RefreshTokenExpiration()); err != nil {
			s.logger.Warn("Failed to revoke sessions after password change", zap.Error(err))
		}
	}
	s.logger.Info("User password changed", zap.String("user_id", userID.String()))
	return nil
}

func tokenInputFor(user *identity.User, refreshCount int) auth.TokenInput {
	return auth.TokenInput{
		TenantID:     user.TenantID,
		UserID:       user.ID,
		Username:     user.Username,
		Role:         string(user.Role),
		Permissions:  user.Permissions(),
		RefreshCount: refreshCount,
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}
