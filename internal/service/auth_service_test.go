package service

import (
	"context"
	"errors"
	"testing"

	"github.com/obracalc/backend/internal/model"
	"github.com/obracalc/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepository struct {
	findByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	createFunc      func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, repository.ErrNotFound
}
func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "u1"
	return nil
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register(t *testing.T) {
	var created *model.User
	repo := &mockUserRepository{
		createFunc: func(_ context.Context, user *model.User) error {
			user.ID = "u1"
			created = user
			return nil
		},
	}
	svc := NewAuthService(repo)

	user, err := svc.Register(context.Background(), "  Joao@Example.COM ", "João", "hunter2hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "joao@example.com" {
		t.Errorf("email must be normalized, got %q", user.Email)
	}
	if created.PasswordHash == "" || created.PasswordHash == "hunter2hunter2" {
		t.Error("password must be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter2hunter2")) != nil {
		t.Error("stored hash must verify against the original password")
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	repo := &mockUserRepository{
		findByEmailFunc: func(_ context.Context, _ string) (*model.User, error) {
			return &model.User{ID: "u1"}, nil
		},
	}
	svc := NewAuthService(repo)

	_, err := svc.Register(context.Background(), "joao@example.com", "João", "hunter2hunter2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := NewAuthService(&mockUserRepository{})

	if _, err := svc.Register(context.Background(), "not-an-email", "x", "hunter2hunter2"); err == nil {
		t.Error("expected error for invalid email")
	}
	if _, err := svc.Register(context.Background(), "joao@example.com", "x", "short"); err == nil {
		t.Error("expected error for short password")
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	repo := &mockUserRepository{
		findByEmailFunc: func(_ context.Context, email string) (*model.User, error) {
			if email != "joao@example.com" {
				return nil, repository.ErrNotFound
			}
			return &model.User{ID: "u1", Email: email, PasswordHash: string(hash)}, nil
		},
	}
	svc := NewAuthService(repo)

	user, err := svc.Login(context.Background(), "Joao@Example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("unexpected user: %+v", user)
	}

	if _, err := svc.Login(context.Background(), "joao@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
