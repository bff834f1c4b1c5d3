package app

import (
	"errors"
	"testing"
	"time"

	"github.com/ooawamleh/LegalMind-AI/internal/repository"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := openTestDB(t)
	return NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	registered, err := svc.Register(RegisterInput{
		Username: "counsel",
		Email:    "counsel@example.com",
		Password: "long-enough-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.Token == "" {
		t.Fatalf("register should issue a token")
	}
	if registered.User.PasswordHash == "long-enough-pass" {
		t.Fatalf("password must be hashed")
	}

	logged, err := svc.Login(LoginInput{Username: "counsel", Password: "long-enough-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.Token == "" {
		t.Fatalf("login should issue a token")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := newAuthService(t)

	input := RegisterInput{Username: "counsel", Email: "counsel@example.com", Password: "long-enough-pass"}
	if _, err := svc.Register(input); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Register(input); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}

	input.Username = "other"
	if _, err := svc.Register(input); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register(RegisterInput{Username: "u", Email: "e@x.com", Password: "short"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("short password should be rejected, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register(RegisterInput{
		Username: "counsel",
		Email:    "counsel@example.com",
		Password: "long-enough-pass",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(LoginInput{Username: "counsel", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if _, err := svc.Login(LoginInput{Username: "nobody", Password: "whatever-pass"}); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("unknown user should look like bad credentials, got %v", err)
	}
}
