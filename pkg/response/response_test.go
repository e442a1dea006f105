package response

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	hzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"

	"CadetTrack/pkg/errors"
)

func TestErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.Field("cadet_id", "bad"), http.StatusUnprocessableEntity},
		{errors.AttendanceDuplicate, http.StatusUnprocessableEntity},
		{errors.CadetIDTaken, http.StatusUnprocessableEntity},
		{errors.CadetNotFound, http.StatusNotFound},
		{errors.HistoryNotFound, http.StatusNotFound},
		{errors.Unauthorized, http.StatusUnauthorized},
		{errors.InvalidCredentials, http.StatusUnauthorized},
		{errors.TooManyRequests, http.StatusTooManyRequests},
		{errors.InvalidRequest.WithMessage("CSRF token mismatch."), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", errors.CadetNotFound), http.StatusNotFound},
		{stderrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := errorToHTTPStatus(tt.err); got != tt.want {
			t.Errorf("errorToHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func newEngine(handler app.HandlerFunc) *route.Engine {
	engine := route.NewEngine(hzconfig.NewOptions([]hzconfig.Option{}))
	engine.GET("/t", handler)
	return engine
}

func decode(t *testing.T, body []byte) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return env
}

func TestErrorWritesValidationEnvelope(t *testing.T) {
	engine := newEngine(func(ctx context.Context, c *app.RequestContext) {
		Error(ctx, c, errors.Field("end_date", "The end date must be a date after or equal to start date."))
	})

	resp := ut.PerformRequest(engine, http.MethodGet, "/t", nil).Result()
	if resp.StatusCode() != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode())
	}

	env := decode(t, resp.Body())
	if env.Success || env.Code != errors.ValidationFailed.Code {
		t.Errorf("envelope = %+v", env)
	}
	if msgs := env.Errors["end_date"]; len(msgs) != 1 {
		t.Errorf("errors = %v", env.Errors)
	}
}

func TestErrorWritesDefinition(t *testing.T) {
	engine := newEngine(func(ctx context.Context, c *app.RequestContext) {
		Error(ctx, c, errors.AttendanceDuplicate)
	})

	resp := ut.PerformRequest(engine, http.MethodGet, "/t", nil).Result()
	if resp.StatusCode() != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	env := decode(t, resp.Body())
	if env.Code != "ATTENDANCE_DUPLICATE" || env.Message != errors.AttendanceDuplicate.Message {
		t.Errorf("envelope = %+v", env)
	}
}

func TestAttachment(t *testing.T) {
	engine := newEngine(func(ctx context.Context, c *app.RequestContext) {
		Attachment(ctx, c, "history-2024-09.csv", "text/csv; charset=utf-8", []byte("a,b\n"))
	})

	resp := ut.PerformRequest(engine, http.MethodGet, "/t", nil).Result()
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if got := string(resp.Header.Peek("Content-Disposition")); got != `attachment; filename="history-2024-09.csv"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if string(resp.Body()) != "a,b\n" {
		t.Errorf("body = %q", resp.Body())
	}
}

func TestCreatedAndAccepted(t *testing.T) {
	created := newEngine(func(ctx context.Context, c *app.RequestContext) {
		Created(ctx, c, "Cadet created successfully.", map[string]string{"cadet_id": "231-0282"})
	})
	resp := ut.PerformRequest(created, http.MethodGet, "/t", nil).Result()
	if resp.StatusCode() != http.StatusCreated {
		t.Errorf("created status = %d", resp.StatusCode())
	}
	if env := decode(t, resp.Body()); !env.Success || env.Message != "Cadet created successfully." {
		t.Errorf("created envelope = %+v", env)
	}

	accepted := newEngine(func(ctx context.Context, c *app.RequestContext) {
		Accepted(ctx, c, "queued", nil)
	})
	if code := ut.PerformRequest(accepted, http.MethodGet, "/t", nil).Result().StatusCode(); code != http.StatusAccepted {
		t.Errorf("accepted status = %d", code)
	}
}
