package identity

import (
	"context"
	"time"

	"github.com/furnitureops/backend/internal/domain/identity"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages staff accounts
type UserService struct {
	userRepo   identity.UserRepository
	revocation auth.RevocationStore
	// sessionTTL bounds how long a deactivated user's tokens could still be presented
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, revocation auth.RevocationStore, sessionTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		revocation: revocation,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	user, err := identity.NewUser(tenantID, req.Username, req.Email, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if req.DisplayName != "" {
		if err := user.Update(user.Email, req.DisplayName, user.Role); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List retrieves a page of users
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "username"
		if filter.OrderDir == "" {
			filter.OrderDir = "asc"
		}
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}.Normalize()
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToUserResponses(users), total, nil
}

// Update edits a user's profile, role and active flag
func (s *UserService) Update(ctx context.Context, tenantID, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	email, displayName, role := user.Email, user.DisplayName, user.Role
	if req.Email != nil {
		email = *req.Email
	}
	if req.DisplayName != nil {
		displayName = *req.DisplayName
	}
	if req.Role != nil {
		role = identity.Role(*req.Role)
	}
	if err := user.Update(email, displayName, role); err != nil {
		return nil, err
	}

	deactivated := false
	if req.Active != nil && *req.Active != user.Active {
		if *req.Active {
			user.Activate()
		} else {
			user.Deactivate()
			deactivated = true
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if deactivated {
		s.revokeSessions(ctx, user.ID)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// ResetPassword sets a new password without the old one
func (s *UserService) ResetPassword(ctx context.Context, tenantID, userID uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.revokeSessions(ctx, user.ID)
	s.logger.Info("User password reset", zap.String("user_id", userID.String()))
	return nil
}

// Delete removes a user. Users cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, tenantID, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return shared.NewDomainError("INVALID_STATE", "You cannot delete your own account")
	}
	if err := s.userRepo.DeleteForTenant(ctx, tenantID, userID); err != nil {
		return err
	}
	s.revokeSessions(ctx, userID)
	s.logger.Info("User deleted", zap.String("user_id", userID.String()))
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if s.revocation == nil {
		return
	}
	if err := s.revocation.RevokeUser(ctx, userID.String(), s.sessionTTL); err != nil {
		s.logger.Warn("Failed to revoke user sessions", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
