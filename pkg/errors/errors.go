package errors

import "strings"

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// WithMessage 复用错误码，替换对外展示的信息。
func (d Definition) WithMessage(msg string) Definition {
	return Definition{Code: d.Code, Message: msg}
}

// 通用错误。
var (
	ValidationFailed = Definition{Code: "VALIDATION_FAILED", Message: "The given data was invalid."}
	InvalidRequest   = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	TooManyRequests  = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
	Internal         = Definition{Code: "INTERNAL_ERROR", Message: "Internal server error"}
)

// 认证相关错误。
var (
	Unauthorized       = Definition{Code: "UNAUTHORIZED", Message: "Unauthenticated"}
	InvalidCredentials = Definition{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password"}
	UsernameTaken      = Definition{Code: "USERNAME_TAKEN", Message: "The username has already been taken."}
	UserNotFound       = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
)

// 学员名册错误。
var (
	CadetNotFound = Definition{Code: "CADET_NOT_FOUND", Message: "Cadet not found"}
	CadetIDTaken  = Definition{Code: "CADET_ID_TAKEN", Message: "The cadet id has already been taken."}
)

// 考勤模块错误。
var (
	AttendanceDuplicate = Definition{Code: "ATTENDANCE_DUPLICATE", Message: "Attendance already recorded for this cadet today"}
)

// 历史归档错误。
var (
	HistoryNotFound = Definition{Code: "HISTORY_NOT_FOUND", Message: "History not found for this date"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	ValidationFailed.Code:    ValidationFailed,
	InvalidRequest.Code:      InvalidRequest,
	TooManyRequests.Code:     TooManyRequests,
	Internal.Code:            Internal,
	Unauthorized.Code:        Unauthorized,
	InvalidCredentials.Code:  InvalidCredentials,
	UsernameTaken.Code:       UsernameTaken,
	UserNotFound.Code:        UserNotFound,
	CadetNotFound.Code:       CadetNotFound,
	CadetIDTaken.Code:        CadetIDTaken,
	AttendanceDuplicate.Code: AttendanceDuplicate,
	HistoryNotFound.Code:     HistoryNotFound,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

// ValidationError 携带按字段分组的校验信息，序列化为响应中的 errors。
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Field 构造只有一个字段错误的 ValidationError。
func Field(field, msg string) *ValidationError {
	return NewValidationError().Add(field, msg)
}

func (v *ValidationError) Add(field, msg string) *ValidationError {
	v.Fields[field] = append(v.Fields[field], msg)
	return v
}

func (v *ValidationError) Empty() bool {
	return len(v.Fields) == 0
}

// Error 返回第一个字段的第一条信息，与前端展示保持一致。
func (v *ValidationError) Error() string {
	var first string
	for field, msgs := range v.Fields {
		if len(msgs) == 0 {
			continue
		}
		if first == "" || strings.Compare(field, first) < 0 {
			first = field
		}
	}
	if first == "" {
		return ValidationFailed.Message
	}
	return v.Fields[first][0]
}
