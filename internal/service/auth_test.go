package service

import (
	"context"
	stderrors "errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"CadetTrack/config"
	"CadetTrack/internal/model/dto"
	"CadetTrack/pkg/errors"
	"CadetTrack/pkg/token"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()

	prev := config.Cfg.JWTSecret
	config.Cfg.JWTSecret = "test-secret"
	t.Cleanup(func() { config.Cfg.JWTSecret = prev })
	if err := token.Init(); err != nil {
		t.Fatal(err)
	}

	s := NewAuthService(newTestDB(t))
	s.cost = bcrypt.MinCost
	return s
}

func registerRequest(username, password string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:                 "Officer In Charge",
		Username:             username,
		Password:             password,
		PasswordConfirmation: password,
	}
}

func TestRegisterLoginMe(t *testing.T) {
	s := newTestAuth(t)
	ctx := context.Background()

	user, err := s.Register(ctx, registerRequest("oic", "secret-pass"))
	if err != nil {
		t.Fatal(err)
	}
	if user.Role != "admin" || user.Username != "oic" {
		t.Errorf("user = %+v", user)
	}

	tokens, err := s.Login(ctx, dto.LoginRequest{Username: "oic", Password: "secret-pass"})
	if err != nil {
		t.Fatal(err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" || tokens.TokenType != "Bearer" {
		t.Errorf("tokens = %+v", tokens)
	}
	if tokens.ExpiresIn <= 0 {
		t.Errorf("expires in = %d", tokens.ExpiresIn)
	}

	me, err := s.Me(ctx, tokens.User.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *me != *user {
		t.Errorf("me = %+v, want %+v", me, user)
	}
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	s := newTestAuth(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, registerRequest("oic", "secret-pass")); err != nil {
		t.Fatal(err)
	}
	_, err := s.Register(ctx, registerRequest("oic", "another-pass"))

	var verr *errors.ValidationError
	if !stderrors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if msgs := verr.Fields["username"]; len(msgs) != 1 || msgs[0] != errors.UsernameTaken.Message {
		t.Errorf("fields = %v", verr.Fields)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestAuth(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, registerRequest("oic", "secret-pass")); err != nil {
		t.Fatal(err)
	}

	for _, req := range []dto.LoginRequest{
		{Username: "oic", Password: "wrong-pass"},
		{Username: "nobody", Password: "secret-pass"},
	} {
		if _, err := s.Login(ctx, req); !stderrors.Is(err, errors.InvalidCredentials) {
			t.Errorf("login %s: err = %v, want InvalidCredentials", req.Username, err)
		}
	}
}

func TestRefresh(t *testing.T) {
	s := newTestAuth(t)
	ctx := context.Background()

	if _, err := s.Register(ctx, registerRequest("oic", "secret-pass")); err != nil {
		t.Fatal(err)
	}
	tokens, err := s.Login(ctx, dto.LoginRequest{Username: "oic", Password: "secret-pass"})
	if err != nil {
		t.Fatal(err)
	}

	refreshed, err := s.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.User.Username != "oic" {
		t.Errorf("user = %+v", refreshed.User)
	}

	// access token 不能当 refresh token 用
	if _, err := s.Refresh(ctx, tokens.AccessToken); !stderrors.Is(err, errors.Unauthorized) {
		t.Errorf("err = %v, want Unauthorized", err)
	}
	if _, err := s.Refresh(ctx, "not-a-token"); !stderrors.Is(err, errors.Unauthorized) {
		t.Errorf("err = %v, want Unauthorized", err)
	}
}
