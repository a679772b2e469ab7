package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"gymledger/internal/common"
	"gymledger/internal/common/security"
	"gymledger/internal/domain/model"
	"gymledger/internal/domain/repository"
	"gymledger/internal/platform/config"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.ResetTokenRepository
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.ResetTokenRepository) *AuthService {
	return &AuthService{userRepo: userRepo, tokenRepo: tokenRepo}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Birthday string `json:"birthday"` // YYYY-MM-DD, optional
	Weight   string `json:"weight"`   // Free-form numeric, optional
	Height   string `json:"height"`
}

type RegisterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates a user-role account. Self-registration can never create an
// admin. The display name and email must both be unused.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("name, email and password are required: %w", common.ErrBadRequest)
	}

	if err := s.checkUnused(ctx, req.Email, req.Name); err != nil {
		return nil, err
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           &req.Name,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           model.RoleUser, // Never selectable at registration
		Birthday:       parseOptionalDate(req.Birthday),
		WeightKg:       parseOptionalFloat(req.Weight),
		HeightCm:       parseOptionalFloat(req.Height),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("user with that email or username already exists: %w", common.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &RegisterResponse{ID: user.ID, Name: req.Name, Email: user.Email}, nil
}

func (s *AuthService) checkUnused(ctx context.Context, email, name string) error {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return fmt.Errorf("user with that email or username already exists: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if _, err := s.userRepo.FindByName(ctx, name); err == nil {
		return fmt.Errorf("user with that email or username already exists: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// GetProfile returns the caller's own record, sans password hash.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

// ForgotPassword mints a single-use reset token with a fixed TTL. Delivery is
// out of scope; the reset link is only logged.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("no user with that email: %w", common.ErrNotFound)
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token := &model.PasswordResetToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(config.AppConfig.ResetTokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	// TODO: hook up a mailer; for now the link only goes to the log.
	log.Printf("Reset link: %s?token=%s", config.AppConfig.ResetLinkBaseURL, token.Token)
	return nil
}

// ResetPassword consumes a token. Expiry is lazy: it is checked here, not
// swept in the background, and an expired row is simply rejected.
func (s *AuthService) ResetPassword(ctx context.Context, tokenStr, password string) error {
	if tokenStr == "" || password == "" {
		return fmt.Errorf("token and password are required: %w", common.ErrBadRequest)
	}

	token, err := s.tokenRepo.FindByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("invalid or expired token: %w", common.ErrBadRequest)
		}
		return fmt.Errorf("failed to look up token: %w", err)
	}
	if token.Expired(time.Now()) {
		return fmt.Errorf("invalid or expired token: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		return fmt.Errorf("failed to load token owner: %w", err)
	}

	hashed, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.tokenRepo.Delete(ctx, tokenStr); err != nil {
		return fmt.Errorf("failed to consume token: %w", err)
	}
	return nil
}

func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil // Unparsable optional values are stored absent, not zero
	}
	return &t
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
