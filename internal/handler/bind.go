package handler

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/go-playground/validator/v10"

	"CadetTrack/pkg/errors"
	"CadetTrack/pkg/response"
	"CadetTrack/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 错误里的字段名与 json/query 参数名一致
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "path"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := utils.ParseClock(fl.Field().String())
		return err == nil
	})

	return v
}

// bind 绑定并校验请求，失败时已写好响应
func bind(ctx context.Context, c *app.RequestContext, req interface{}) bool {
	if err := c.Bind(req); err != nil {
		response.BindError(ctx, c, err)
		return false
	}
	if err := validateStruct(req); err != nil {
		response.Error(ctx, c, err)
		return false
	}
	return true
}

func validateStruct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.InvalidRequest.WithMessage(err.Error())
	}

	out := errors.NewValidationError()
	for _, fe := range verrs {
		field, msg := fieldMessage(fe)
		out.Add(field, msg)
	}
	return out
}

// fieldMessage 生成面向前端的校验提示
func fieldMessage(fe validator.FieldError) (field, msg string) {
	field = fe.Field()
	label := strings.ReplaceAll(field, "_", " ")

	switch fe.Tag() {
	case "required":
		return field, fmt.Sprintf("The %s field is required.", label)
	case "datetime":
		return field, fmt.Sprintf("The %s does not match the format Y-m-d.", label)
	case "clock":
		return field, fmt.Sprintf("The %s does not match the format H:i:s.", label)
	case "oneof":
		return field, fmt.Sprintf("The selected %s is invalid.", label)
	case "min":
		if fe.Kind() == reflect.String {
			return field, fmt.Sprintf("The %s field must be at least %s characters.", label, fe.Param())
		}
		return field, fmt.Sprintf("The %s field must be at least %s.", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return field, fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
		}
		return field, fmt.Sprintf("The %s field must not be greater than %s.", label, fe.Param())
	case "eqfield":
		// 确认字段不一致时挂在被确认的字段上
		target := strings.TrimSuffix(field, "_confirmation")
		return target, fmt.Sprintf("The %s field confirmation does not match.", strings.ReplaceAll(target, "_", " "))
	default:
		return field, fmt.Sprintf("The %s field is invalid.", label)
	}
}
