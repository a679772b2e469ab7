package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymledger/internal/common"
	"gymledger/internal/common/security"
	"gymledger/internal/domain/model"
	"gymledger/internal/domain/repository"

	"github.com/google/uuid"
)

// AdminUserService is the privileged CRUD surface over the identity store.
// Every operation takes the caller's role explicitly and refuses non-admins;
// the router also gates these routes, but the service does not rely on that.
type AdminUserService struct {
	userRepo repository.UserRepository
}

func NewAdminUserService(userRepo repository.UserRepository) *AdminUserService {
	return &AdminUserService{userRepo: userRepo}
}

type UserSummary struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

func requireAdmin(callerRole string) error {
	if callerRole != model.RoleAdmin {
		return common.ErrUnauthorized
	}
	return nil
}

func (s *AdminUserService) ListUsers(ctx context.Context, callerRole string) ([]UserSummary, error) {
	if err := requireAdmin(callerRole); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	summaries := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, UserSummary{
			ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *AdminUserService) CreateUser(ctx context.Context, callerRole string, req CreateUserRequest) (*model.User, error) {
	if err := requireAdmin(callerRole); err != nil {
		return nil, err
	}
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password required: %w", common.ErrBadRequest)
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, fmt.Errorf("role must be %q or %q: %w", model.RoleUser, model.RoleAdmin, common.ErrValidation)
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user already exists: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Email:          req.Email,
		HashedPassword: hashed,
		Role:           role,
	}
	if req.Name != "" {
		user.Name = &req.Name
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("user already exists: %w", common.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

// UpdateUser applies only the fields present in the request.
func (s *AdminUserService) UpdateUser(ctx context.Context, callerRole string, req UpdateUserRequest) (*model.User, error) {
	if err := requireAdmin(callerRole); err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, fmt.Errorf("user ID required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.Name != nil {
		user.Name = req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		if *req.Role != model.RoleUser && *req.Role != model.RoleAdmin {
			return nil, fmt.Errorf("role must be %q or %q: %w", model.RoleUser, model.RoleAdmin, common.ErrValidation)
		}
		user.Role = *req.Role
	}
	if req.Password != nil {
		hashed, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("user with given email already exists: %w", common.ErrConflict)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

// DeleteUser is immediate and irreversible; the store cascades the user's
// check-ins and reset tokens away with the row.
func (s *AdminUserService) DeleteUser(ctx context.Context, callerRole string, id string) error {
	if err := requireAdmin(callerRole); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("user ID required: %w", common.ErrBadRequest)
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
