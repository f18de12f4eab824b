package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/agrimech/crm-service/internal/auth"
	"github.com/agrimech/crm-service/internal/config"
	"github.com/agrimech/crm-service/internal/domain"
	"github.com/agrimech/crm-service/internal/repository"
	apperrors "github.com/agrimech/crm-service/pkg/util"
)

// UserService covers personnel administration.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// UserDependencies bundles requirements for the user service.
type UserDependencies struct {
	UserRepo repository.UserRepository
}

// UserCreateInput describes a new personnel record.
type UserCreateInput struct {
	Name         string
	Email        string
	Password     string
	Role         domain.UserRole
	RegionID     *string
	SubRegionID  *string
	ShowroomID   *string
	Permissions  []string
	AnnualTarget *int64
}

// UserPatch carries a partial personnel update; nil fields are untouched.
type UserPatch struct {
	Name            *string
	Role            *domain.UserRole
	RegionID        *string
	SubRegionID     *string
	ShowroomID      *string
	Permissions     []string
	AnnualTarget    *int64
	AchievedRevenue *int64
	Active          *bool
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, deps UserDependencies) *UserService {
	return &UserService{
		users:      deps.UserRepo,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

var validRoles = map[domain.UserRole]bool{
	domain.RoleSuperAdmin:        true,
	domain.RoleNationalSales:     true,
	domain.RoleRegionalManager:   true,
	domain.RoleSubRegionalMgr:    true,
	domain.RoleShowroomManager:   true,
	domain.RoleSalesArea:         true,
	domain.RoleServiceManager:    true,
	domain.RoleServiceAdmin:      true,
	domain.RoleMechanic:          true,
	domain.RoleInventoryAdmin:    true,
	domain.RoleMarketingAnalyst:  true,
	domain.RoleAfterSalesSupport: true,
}

// CreateUser registers a personnel record. Individual sales targets are
// meaningful for SALES_AREA only and are discarded for other roles.
func (s *UserService) CreateUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if strings.TrimSpace(input.Name) == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if !validRoles[input.Role] {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hashed, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hashed,
		Role:         input.Role,
		RegionID:     input.RegionID,
		SubRegionID:  input.SubRegionID,
		ShowroomID:   input.ShowroomID,
		Permissions:  input.Permissions,
		Active:       true,
	}
	if input.Role == domain.RoleSalesArea {
		user.AnnualTarget = input.AnnualTarget
		zero := int64(0)
		user.AchievedRevenue = &zero
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateUser merges a partial update into the personnel record.
func (s *UserService) UpdateUser(ctx context.Context, userID string, patch UserPatch) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Role != nil {
		if !validRoles[*patch.Role] {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *patch.Role})
		}
		user.Role = *patch.Role
	}
	if patch.RegionID != nil {
		user.RegionID = patch.RegionID
	}
	if patch.SubRegionID != nil {
		user.SubRegionID = patch.SubRegionID
	}
	if patch.ShowroomID != nil {
		user.ShowroomID = patch.ShowroomID
	}
	if patch.Permissions != nil {
		user.Permissions = patch.Permissions
	}
	if patch.Active != nil {
		user.Active = *patch.Active
	}

	// Target fields only stick for sales area staff.
	if user.Role == domain.RoleSalesArea {
		if patch.AnnualTarget != nil {
			user.AnnualTarget = patch.AnnualTarget
		}
		if patch.AchievedRevenue != nil {
			user.AchievedRevenue = patch.AchievedRevenue
		}
	} else {
		user.AnnualTarget = nil
		user.AchievedRevenue = nil
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// DeactivateUser disables a personnel record without deleting it.
func (s *UserService) DeactivateUser(ctx context.Context, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.Active {
		return nil
	}
	user.Active = false
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// GetUser fetches a single personnel record.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.getUser(ctx, userID)
}

// ListUsers returns personnel matching the filter.
func (s *UserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// ListMechanics returns active mechanics, the assignable PIC pool.
func (s *UserService) ListMechanics(ctx context.Context) ([]domain.User, error) {
	role := domain.RoleMechanic
	active := true
	return s.ListUsers(ctx, repository.UserFilter{Role: &role, Active: &active})
}

func (s *UserService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
