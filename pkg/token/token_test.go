package token

import (
	stderrors "errors"
	"testing"

	"CadetTrack/config"
)

func TestTokenPair(t *testing.T) {
	prev := config.Cfg.JWTSecret
	config.Cfg.JWTSecret = "test-secret"
	t.Cleanup(func() { config.Cfg.JWTSecret = prev })

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	access, refresh, expiresIn, err := GenerateTokenPair("7", "admin")
	if err != nil {
		t.Fatal(err)
	}
	if expiresIn <= 0 {
		t.Errorf("expiresIn = %d", expiresIn)
	}

	uid, err := ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatal(err)
	}
	if uid != "7" {
		t.Errorf("uid = %q", uid)
	}

	if _, err := ValidateRefreshToken(access); !stderrors.Is(err, ErrInvalidTokenType) {
		t.Errorf("access as refresh: err = %v", err)
	}

	config.Cfg.JWTSecret = "rotated"
	if _, err := ValidateRefreshToken(refresh); err == nil {
		t.Error("token signed with old secret should fail")
	}
}
