package middleware

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	hzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"

	"CadetTrack/config"
	"CadetTrack/pkg/token"
)

func newEngine() *route.Engine {
	return route.NewEngine(hzconfig.NewOptions([]hzconfig.Option{}))
}

func ok(ctx context.Context, c *app.RequestContext) {
	c.String(http.StatusOK, "ok")
}

func TestRequestIDMiddleware(t *testing.T) {
	engine := newEngine()
	engine.Use(RequestIDMiddleware())
	engine.GET("/t", func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusOK, RequestID(c))
	})

	resp := ut.PerformRequest(engine, http.MethodGet, "/t", nil,
		ut.Header{Key: RequestIDHeader, Value: "req-123"}).Result()
	if got := string(resp.Header.Peek(RequestIDHeader)); got != "req-123" {
		t.Errorf("echoed id = %q", got)
	}
	if string(resp.Body()) != "req-123" {
		t.Errorf("context id = %q", resp.Body())
	}

	resp = ut.PerformRequest(engine, http.MethodGet, "/t", nil).Result()
	generated := string(resp.Header.Peek(RequestIDHeader))
	if len(generated) != 36 || string(resp.Body()) != generated {
		t.Errorf("generated id = %q, body = %q", generated, resp.Body())
	}
}

func TestCORSMiddleware(t *testing.T) {
	prev := config.Cfg.CORSAllowedOrigins
	config.Cfg.CORSAllowedOrigins = []string{"http://localhost:5173"}
	t.Cleanup(func() { config.Cfg.CORSAllowedOrigins = prev })

	engine := newEngine()
	engine.Use(CORSMiddleware())
	engine.GET("/t", ok)
	engine.OPTIONS("/t", ok)

	resp := ut.PerformRequest(engine, http.MethodOptions, "/t", nil,
		ut.Header{Key: "Origin", Value: "http://localhost:5173"}).Result()
	if resp.StatusCode() != http.StatusNoContent {
		t.Errorf("preflight status = %d", resp.StatusCode())
	}
	if got := string(resp.Header.Peek("Access-Control-Allow-Origin")); got != "http://localhost:5173" {
		t.Errorf("allow origin = %q", got)
	}

	resp = ut.PerformRequest(engine, http.MethodGet, "/t", nil,
		ut.Header{Key: "Origin", Value: "http://evil.example"}).Result()
	if resp.StatusCode() != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode())
	}
	if got := string(resp.Header.Peek("Access-Control-Allow-Origin")); got != "" {
		t.Errorf("unlisted origin allowed: %q", got)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	for _, production := range []bool{true, false} {
		cfg := NewRecoverConfig()
		cfg.IsProduction = production

		engine := newEngine()
		engine.Use(RecoverMiddlewareWithConfig(cfg))
		engine.GET("/t", func(ctx context.Context, c *app.RequestContext) {
			panic("kaboom")
		})

		resp := ut.PerformRequest(engine, http.MethodGet, "/t", nil).Result()
		if resp.StatusCode() != http.StatusInternalServerError {
			t.Errorf("production=%v: status = %d", production, resp.StatusCode())
		}
		body := string(resp.Body())
		leaked := strings.Contains(body, "kaboom")
		if production == leaked {
			t.Errorf("production=%v: body = %s", production, body)
		}
	}
}

func TestRateLimitPassesWithoutRedis(t *testing.T) {
	engine := newEngine()
	engine.POST("/login", AuthRateLimitMiddleware(), ok)

	for i := 0; i < AuthRateLimitConfig.MaxRequests+2; i++ {
		resp := ut.PerformRequest(engine, http.MethodPost, "/login", nil).Result()
		if resp.StatusCode() != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, resp.StatusCode())
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	prev := config.Cfg.JWTSecret
	config.Cfg.JWTSecret = "test-secret"
	t.Cleanup(func() { config.Cfg.JWTSecret = prev })

	if err := token.Init(); err != nil {
		t.Fatal(err)
	}
	if err := Init(); err != nil {
		t.Fatal(err)
	}

	engine := newEngine()
	engine.GET("/me", AuthMiddleware(), func(ctx context.Context, c *app.RequestContext) {
		uid, _ := GetUserID(ctx, c)
		c.String(http.StatusOK, uid+":"+c.GetString(RoleKey))
	})

	resp := ut.PerformRequest(engine, http.MethodGet, "/me", nil).Result()
	if resp.StatusCode() != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", resp.StatusCode())
	}

	resp = ut.PerformRequest(engine, http.MethodGet, "/me", nil,
		ut.Header{Key: "Authorization", Value: "Bearer not-a-jwt"}).Result()
	if resp.StatusCode() != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d", resp.StatusCode())
	}

	access, _, _, err := token.GenerateTokenPair("42", "admin")
	if err != nil {
		t.Fatal(err)
	}
	resp = ut.PerformRequest(engine, http.MethodGet, "/me", nil,
		ut.Header{Key: "Authorization", Value: "Bearer " + access}).Result()
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("valid token: status = %d, body = %s", resp.StatusCode(), resp.Body())
	}
	if string(resp.Body()) != "42:admin" {
		t.Errorf("body = %q", resp.Body())
	}
}
