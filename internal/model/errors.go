// Package model はAPIで共有するエラー定義を提供する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, calendar, system
	Action   string // 利用者向け対処方法
	Field    string // 原因となったクエリパラメータ（該当しない場合は空）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeMissingParameter  = "MISSING_PARAMETER"
	ErrCodeMalformedInput    = "MALFORMED_INPUT"
	ErrCodeInvalidTimezone   = "INVALID_TIMEZONE"
	ErrCodeInvalidResultDate = "INVALID_RESULT_DATE"
	ErrCodeInvalidOrdering   = "INVALID_ORDERING"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// NewMissingParameterError は必須パラメータ欠落エラーを生成する。
func NewMissingParameterError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingParameter,
		Message:  fmt.Sprintf("Query parameter '%s' is required.", field),
		Category: "validation",
		Action:   fmt.Sprintf("Add the '%s' query parameter to the request.", field),
		Field:    field,
	}
}

// NewMalformedInputError は入力形式エラーを生成する。
func NewMalformedInputError(field, reason string) *APIError {
	return &APIError{
		Code:     ErrCodeMalformedInput,
		Message:  reason,
		Category: "validation",
		Action:   "Dates use 'YYYY-MM-DD', times use 'HH:MM:SS'. Check the parameter value.",
		Field:    field,
	}
}

// NewInvalidTimezoneError は不明なタイムゾーンのエラーを生成する。
func NewInvalidTimezoneError(field, name string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidTimezone,
		Message:  fmt.Sprintf("Invalid time zone: %q.", name),
		Category: "validation",
		Action:   "Use an IANA time zone name such as 'America/Bogota'. See https://en.wikipedia.org/wiki/List_of_tz_database_time_zones",
		Field:    field,
	}
}

// NewInvalidResultDateError は演算結果が存在しない日付になる場合のエラーを生成する。
func NewInvalidResultDateError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidResultDate,
		Message:  fmt.Sprintf("Invalid date operation resulting in an invalid date: %s.", reason),
		Category: "calendar",
		Action:   "Choose a different amount or base date. February 29 only exists in leap years.",
		Field:    "amount",
	}
}

// NewInvalidOrderingError は終了日時が開始日時より前の場合のエラーを生成する。
func NewInvalidOrderingError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidOrdering,
		Message:  "End date and time must not precede start date and time.",
		Category: "calendar",
		Action:   "Swap the start and end parameters.",
		Field:    "end_date",
	}
}

// NewNotFoundError は存在しないルートへのアクセス時のエラーを生成する。
func NewNotFoundError(path string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("No endpoint at %s.", path),
		Category: "validation",
		Action:   "Check the request path.",
	}
}

// NewMethodNotAllowedError は許可されていないメソッドでのアクセス時のエラーを生成する。
func NewMethodNotAllowedError(method string) *APIError {
	return &APIError{
		Code:     ErrCodeMethodNotAllowed,
		Message:  fmt.Sprintf("Method %s is not allowed.", method),
		Category: "validation",
		Action:   "Use GET.",
	}
}

// NewInternalError は内部エラーを生成する。
// 詳細はログのみに記録し、利用者には一般的なメッセージを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "An internal error occurred.",
		Category: "system",
		Action:   "Please retry after a while.",
	}
}
