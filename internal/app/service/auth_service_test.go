package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymledger/internal/common"
	"gymledger/internal/domain/model"
)

type memTokenRepo struct {
	byToken map[string]*model.PasswordResetToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{byToken: map[string]*model.PasswordResetToken{}}
}

func (m *memTokenRepo) Create(ctx context.Context, t *model.PasswordResetToken) error {
	stored := *t
	m.byToken[t.Token] = &stored
	return nil
}

func (m *memTokenRepo) FindByToken(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	if t, ok := m.byToken[token]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (m *memTokenRepo) Delete(ctx context.Context, token string) error {
	if _, ok := m.byToken[token]; !ok {
		return common.ErrNotFound
	}
	delete(m.byToken, token)
	return nil
}

func TestRegisterForcesUserRole(t *testing.T) {
	users := newMemUserRepo()
	s := NewAuthService(users, newMemTokenRepo())

	resp, err := s.Register(context.Background(), RegisterRequest{
		Name: "alice", Email: "alice@example.com", Password: "Password123",
		Weight: "72.5", Height: "not-a-number",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if resp.ID == "" || resp.Email != "alice@example.com" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	stored, err := users.FindByID(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if stored.Role != model.RoleUser {
		t.Fatalf("self-registration must force the user role, got %q", stored.Role)
	}
	if stored.WeightKg == nil || *stored.WeightKg != 72.5 {
		t.Fatalf("expected weight 72.5, got %v", stored.WeightKg)
	}
	if stored.HeightCm != nil {
		t.Fatalf("unparsable height must be stored absent, got %v", stored.HeightCm)
	}
	if stored.HashedPassword == "Password123" || stored.HashedPassword == "" {
		t.Fatalf("password must be hashed before storage")
	}
}

func TestRegisterDuplicates(t *testing.T) {
	users := newMemUserRepo()
	s := NewAuthService(users, newMemTokenRepo())

	if _, err := s.Register(context.Background(), RegisterRequest{Name: "alice", Email: "alice@example.com", Password: "pw"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Same email, different name.
	if _, err := s.Register(context.Background(), RegisterRequest{Name: "alice2", Email: "alice@example.com", Password: "pw"}); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
	// Same display name, different email.
	if _, err := s.Register(context.Background(), RegisterRequest{Name: "alice", Email: "other@example.com", Password: "pw"}); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
	if got, _ := users.List(context.Background()); len(got) != 1 {
		t.Fatalf("failed registrations must create no rows, got %d users", len(got))
	}

	// Missing required fields.
	if _, err := s.Register(context.Background(), RegisterRequest{Email: "x@example.com"}); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected bad request for missing fields, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	users := newMemUserRepo()
	s := NewAuthService(users, newMemTokenRepo())

	if _, err := s.Register(context.Background(), RegisterRequest{Name: "bob", Email: "bob@example.com", Password: "Secret123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	resp, err := s.Login(context.Background(), LoginRequest{Email: "bob@example.com", Password: "Secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected a token")
	}
	if resp.User.HashedPassword != "" {
		t.Fatalf("password hash must not be exposed")
	}

	if _, err := s.Login(context.Background(), LoginRequest{Email: "bob@example.com", Password: "wrong"}); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}
	if _, err := s.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "Secret123"}); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	users := newMemUserRepo()
	tokens := newMemTokenRepo()
	s := NewAuthService(users, tokens)

	if _, err := s.Register(context.Background(), RegisterRequest{Name: "carol", Email: "carol@example.com", Password: "OldPass123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := s.ForgotPassword(context.Background(), "nobody@example.com"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found for unknown email, got %v", err)
	}
	if err := s.ForgotPassword(context.Background(), "carol@example.com"); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	if len(tokens.byToken) != 1 {
		t.Fatalf("expected one stored token, got %d", len(tokens.byToken))
	}
	var token string
	for tk, stored := range tokens.byToken {
		token = tk
		if remaining := time.Until(stored.ExpiresAt); remaining <= 0 || remaining > 31*time.Minute {
			t.Fatalf("expected a ~30 minute expiry window, got %v", remaining)
		}
	}

	if err := s.ResetPassword(context.Background(), token, "NewPass123"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if _, err := s.Login(context.Background(), LoginRequest{Email: "carol@example.com", Password: "NewPass123"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := s.Login(context.Background(), LoginRequest{Email: "carol@example.com", Password: "OldPass123"}); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected old password to stop working, got %v", err)
	}

	// A token is accepted at most once.
	if err := s.ResetPassword(context.Background(), token, "AnotherPass"); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected invalid or expired token on reuse, got %v", err)
	}
}

func TestPasswordResetExpiredToken(t *testing.T) {
	users := newMemUserRepo()
	tokens := newMemTokenRepo()
	s := NewAuthService(users, tokens)

	user := seedUser(t, users, "dave", "dave@example.com")
	expired := &model.PasswordResetToken{
		Token:     "stale-token",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := tokens.Create(context.Background(), expired); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	if err := s.ResetPassword(context.Background(), "stale-token", "NewPass123"); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected invalid or expired token, got %v", err)
	}
	// Lazy expiry: the row is rejected, not swept.
	if _, ok := tokens.byToken["stale-token"]; !ok {
		t.Fatalf("expired token must not be deleted on rejection")
	}

	if err := s.ResetPassword(context.Background(), "", ""); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected bad request for missing fields, got %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	users := newMemUserRepo()
	s := NewAuthService(users, newMemTokenRepo())

	u := seedUser(t, users, "erin", "erin@example.com")
	u.HashedPassword = "some-hash"
	if err := users.Update(context.Background(), u); err != nil {
		t.Fatalf("seed update: %v", err)
	}

	got, err := s.GetProfile(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if got.Email != "erin@example.com" || got.HashedPassword != "" {
		t.Fatalf("unexpected profile: %+v", got)
	}

	if _, err := s.GetProfile(context.Background(), "ghost"); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown caller, got %v", err)
	}
}
