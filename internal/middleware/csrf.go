package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/csrf"
	"github.com/hertz-contrib/sessions"
	"github.com/hertz-contrib/sessions/cookie"

	"CadetTrack/config"
	"CadetTrack/pkg/errors"
	"CadetTrack/pkg/response"
)

const csrfSessionName = "cadettrack-session"

// CSRFMiddleware cookie 会话加 CSRF 校验，返回的两个 handler 需按顺序挂载
// 带 Bearer 头的写请求不走 cookie 会话，直接跳过校验
func CSRFMiddleware() []app.HandlerFunc {
	store := cookie.NewStore([]byte(config.Cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   config.Cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	return []app.HandlerFunc{
		sessions.New(csrfSessionName, store),
		csrf.New(
			csrf.WithSecret(config.Cfg.CSRFSecret),
			csrf.WithKeyLookUp("header:X-CSRF-TOKEN"),
			csrf.WithNext(func(ctx context.Context, c *app.RequestContext) bool {
				return hasBearer(c) && string(c.Method()) != http.MethodGet
			}),
			csrf.WithErrorFunc(func(ctx context.Context, c *app.RequestContext) {
				response.Error(ctx, c, errors.InvalidRequest.WithMessage("CSRF token mismatch."))
				c.Abort()
			}),
		),
	}
}

// CSRFToken 当前会话的 token，未启用时返回空串
func CSRFToken(c *app.RequestContext) string {
	if !config.Cfg.CSRFEnabled {
		return ""
	}
	return csrf.GetToken(c)
}

func hasBearer(c *app.RequestContext) bool {
	return strings.HasPrefix(string(c.GetHeader("Authorization")), "Bearer ")
}
