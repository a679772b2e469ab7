package service

import (
	"context"
	"errors"
	"testing"

	"gymledger/internal/common"
	"gymledger/internal/common/security"
	"gymledger/internal/domain/model"
)

func TestAdminOperationsRequireAdminRole(t *testing.T) {
	s := NewAdminUserService(newMemUserRepo())
	ctx := context.Background()

	for _, role := range []string{"", model.RoleUser, "manager"} {
		if _, err := s.ListUsers(ctx, role); !errors.Is(err, common.ErrUnauthorized) {
			t.Fatalf("list with role %q: expected unauthorized, got %v", role, err)
		}
		if _, err := s.CreateUser(ctx, role, CreateUserRequest{Email: "x@example.com", Password: "pw"}); !errors.Is(err, common.ErrUnauthorized) {
			t.Fatalf("create with role %q: expected unauthorized, got %v", role, err)
		}
		if _, err := s.UpdateUser(ctx, role, UpdateUserRequest{ID: "some-id"}); !errors.Is(err, common.ErrUnauthorized) {
			t.Fatalf("update with role %q: expected unauthorized, got %v", role, err)
		}
		if err := s.DeleteUser(ctx, role, "some-id"); !errors.Is(err, common.ErrUnauthorized) {
			t.Fatalf("delete with role %q: expected unauthorized, got %v", role, err)
		}
	}
}

func TestAdminCreateUser(t *testing.T) {
	users := newMemUserRepo()
	s := NewAdminUserService(users)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, model.RoleAdmin, CreateUserRequest{Name: "x"}); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected bad request without email and password, got %v", err)
	}
	if _, err := s.CreateUser(ctx, model.RoleAdmin, CreateUserRequest{Email: "x@example.com", Password: "pw", Role: "root"}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}

	created, err := s.CreateUser(ctx, model.RoleAdmin, CreateUserRequest{Name: "Frank", Email: "frank@example.com", Password: "Secret123"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Role != model.RoleUser {
		t.Fatalf("expected default role user, got %q", created.Role)
	}

	stored, err := users.FindByEmail(ctx, "frank@example.com")
	if err != nil {
		t.Fatalf("stored user not found: %v", err)
	}
	if !security.CheckPasswordHash("Secret123", stored.HashedPassword) {
		t.Fatalf("password must be hashed before storage")
	}

	if _, err := s.CreateUser(ctx, model.RoleAdmin, CreateUserRequest{Email: "frank@example.com", Password: "other"}); !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}

	// Unlike self-registration, an admin may create another admin.
	admin, err := s.CreateUser(ctx, model.RoleAdmin, CreateUserRequest{Email: "root@example.com", Password: "pw", Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	if admin.Role != model.RoleAdmin {
		t.Fatalf("expected admin role, got %q", admin.Role)
	}
}

func TestAdminUpdateUserPartial(t *testing.T) {
	users := newMemUserRepo()
	s := NewAdminUserService(users)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, model.RoleAdmin, CreateUserRequest{Name: "Grace", Email: "grace@example.com", Password: "OldPass"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := s.UpdateUser(ctx, model.RoleAdmin, UpdateUserRequest{}); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected bad request without id, got %v", err)
	}
	if _, err := s.UpdateUser(ctx, model.RoleAdmin, UpdateUserRequest{ID: "ghost"}); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}

	// Only the fields present are applied.
	newRole := model.RoleAdmin
	updated, err := s.UpdateUser(ctx, model.RoleAdmin, UpdateUserRequest{ID: created.ID, Role: &newRole})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Role != model.RoleAdmin {
		t.Fatalf("expected role change, got %q", updated.Role)
	}
	if updated.Email != "grace@example.com" || updated.Name == nil || *updated.Name != "Grace" {
		t.Fatalf("absent fields must stay untouched: %+v", updated)
	}

	newPassword := "NewPass"
	if _, err := s.UpdateUser(ctx, model.RoleAdmin, UpdateUserRequest{ID: created.ID, Password: &newPassword}); err != nil {
		t.Fatalf("password update failed: %v", err)
	}
	stored, _ := users.FindByID(ctx, created.ID)
	if !security.CheckPasswordHash("NewPass", stored.HashedPassword) {
		t.Fatalf("expected password to be rehashed")
	}

	badRole := "root"
	if _, err := s.UpdateUser(ctx, model.RoleAdmin, UpdateUserRequest{ID: created.ID, Role: &badRole}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}
}

func TestAdminDeleteUser(t *testing.T) {
	users := newMemUserRepo()
	s := NewAdminUserService(users)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, model.RoleAdmin, CreateUserRequest{Email: "heidi@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := s.DeleteUser(ctx, model.RoleAdmin, ""); !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected bad request without id, got %v", err)
	}
	if err := s.DeleteUser(ctx, model.RoleAdmin, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := s.DeleteUser(ctx, model.RoleAdmin, created.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found on repeated delete, got %v", err)
	}
}

func TestAdminListUsers(t *testing.T) {
	users := newMemUserRepo()
	s := NewAdminUserService(users)
	ctx := context.Background()

	seedUser(t, users, "Alice", "alice@example.com")
	seedUser(t, users, "Bob", "bob@example.com")

	got, err := s.ListUsers(ctx, model.RoleAdmin)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
	for _, u := range got {
		if u.ID == "" || u.Email == "" || u.Role == "" {
			t.Fatalf("incomplete summary: %+v", u)
		}
	}
}
