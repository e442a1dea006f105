package response

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"CadetTrack/config"
	"CadetTrack/pkg/errors"
)

// Envelope 统一的响应格式
type Envelope struct {
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Success bool                `json:"success"`
}

func errorToHTTPStatus(err error) int {
	var verr *errors.ValidationError
	if stderrors.As(err, &verr) {
		return http.StatusUnprocessableEntity
	}

	// 检查是否是 Definition 类型
	var def errors.Definition
	if !stderrors.As(err, &def) {
		return http.StatusInternalServerError
	}

	// 根据错误码映射 HTTP 状态码
	switch def.Code {
	case "VALIDATION_FAILED", "ATTENDANCE_DUPLICATE", "CADET_ID_TAKEN", "USERNAME_TAKEN":
		return http.StatusUnprocessableEntity // 422
	case "CADET_NOT_FOUND", "HISTORY_NOT_FOUND", "USER_NOT_FOUND":
		return http.StatusNotFound // 404
	case "UNAUTHORIZED", "INVALID_CREDENTIALS":
		return http.StatusUnauthorized // 401
	case "TOO_MANY_REQUESTS":
		return http.StatusTooManyRequests // 429
	case "INVALID_REQUEST":
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	statusCode := errorToHTTPStatus(err)
	body := Envelope{Success: false}

	var verr *errors.ValidationError
	var def errors.Definition
	switch {
	case stderrors.As(err, &verr):
		body.Code = errors.ValidationFailed.Code
		body.Message = verr.Error()
		body.Errors = verr.Fields
	case stderrors.As(err, &def):
		body.Code = def.Code
		body.Message = def.Message
	default:
		body.Code = errors.Internal.Code
		body.Message = err.Error()
		if config.Cfg.IsProduction() {
			body.Message = errors.Internal.Message
		}
	}

	c.JSON(statusCode, body)
}

// ErrorWithDetails 在业务错误之外附带字段级信息
func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string][]string) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	var def errors.Definition
	if stderrors.As(err, &def) {
		code = def.Code
		message = def.Message
	} else {
		code = errors.Internal.Code
		message = err.Error()
	}

	c.JSON(statusCode, Envelope{
		Success: false,
		Code:    code,
		Message: message,
		Errors:  details,
	})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
	})
}

func SuccessWithMessage(ctx context.Context, c *app.RequestContext, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created 返回 201
func Created(ctx context.Context, c *app.RequestContext, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Accepted 返回 202，用于交给后台处理的请求
func Accepted(ctx context.Context, c *app.RequestContext, message string, data interface{}) {
	c.JSON(http.StatusAccepted, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Code:    errors.InvalidRequest.Code,
		Message: err.Error(),
	})
}

// Attachment 以下载文件的形式返回内容
func Attachment(ctx context.Context, c *app.RequestContext, filename, contentType string, body []byte) {
	c.Response.Header.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}
