// Package datecalc は日付演算・日時差分・暦の参照を行う純粋関数群を提供する。
// すべての関数は状態を持たず、並行に呼び出しても安全である。
package datecalc

import (
	"errors"
	"fmt"
)

// 呼び出し側がerrors.Isで判別するためのエラー種別。
var (
	// ErrMalformedInput は入力文字列が期待する形式・列挙値に一致しないことを示す。
	ErrMalformedInput = errors.New("malformed input")
	// ErrInvalidResultDate は演算結果の日付が暦上に存在しないことを示す。
	ErrInvalidResultDate = errors.New("invalid result date")
	// ErrInvalidOrdering は終了日時が開始日時より前であることを示す。
	ErrInvalidOrdering = errors.New("end must not precede start")
	// ErrUnknownTimezone はIANAタイムゾーン名を解決できないことを示す。
	// ErrMalformedInputの一種として扱われる。
	ErrUnknownTimezone = fmt.Errorf("unknown timezone: %w", ErrMalformedInput)
)

// Error はエラー種別に原因となった入力項目と詳細メッセージを付与する。
type Error struct {
	Kind   error  // ErrMalformedInput などの種別
	Field  string // 原因となった入力項目（不明な場合は空）
	Detail string
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Field, e.Detail)
}

// Unwrap はerrors.Is/errors.Asのために種別を返す。
func (e *Error) Unwrap() error {
	return e.Kind
}

func malformed(field, detail string) *Error {
	return &Error{Kind: ErrMalformedInput, Field: field, Detail: detail}
}

// FieldOf はエラーに紐づく入力項目名を返す。紐づかない場合は空文字列。
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
