package datecalc

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// amountPattern は符号・整数部・小数部・指数部のみからなる10進数表記。
// strconv.ParseFloatが受け付ける "1_0" や "0x1p3"、"Inf" は含まない。
var amountPattern = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// ParseDate は YYYY-MM-DD 形式の文字列を厳密に解析する。
// fieldはエラーに付与する入力項目名。
func ParseDate(s, field string) (CalendarDate, error) {
	if len(s) != len(dateLayout) {
		return CalendarDate{}, malformed(field, "invalid date format, expected 'YYYY-MM-DD'")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return CalendarDate{}, malformed(field, "invalid date format, expected 'YYYY-MM-DD'")
	}
	d, err := NewCalendarDate(t.Year(), t.Month(), t.Day())
	if err != nil {
		return CalendarDate{}, malformed(field, err.Error())
	}
	return d, nil
}

// ParseTime は HH:MM:SS 形式の文字列を厳密に解析し、時・分・秒を返す。
func ParseTime(s, field string) (hour, minute, second int, err error) {
	if len(s) != len(timeLayout) {
		return 0, 0, 0, malformed(field, "invalid time format, expected 'HH:MM:SS'")
	}
	t, perr := time.Parse(timeLayout, s)
	if perr != nil {
		return 0, 0, 0, malformed(field, "invalid time format, expected 'HH:MM:SS'")
	}
	return t.Hour(), t.Minute(), t.Second(), nil
}

// ParseDateTime は日付と時刻を別々の文字列から解析する。
// エラーには最初に失敗した入力項目名が付与される。
func ParseDateTime(date, clock, dateField, timeField string) (DateTime, error) {
	d, err := ParseDate(date, dateField)
	if err != nil {
		return DateTime{}, err
	}
	h, m, s, err := ParseTime(clock, timeField)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{Date: d, Hour: h, Minute: m, Second: s}, nil
}

// ParseUnit は単位の文字列を解析する。大文字小文字は区別する。
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(s); u {
	case UnitDays, UnitWeeks, UnitYears:
		return u, nil
	default:
		return "", malformed("unit", "unit must be 'days', 'weeks', or 'years'")
	}
}

// ParseDirection は操作の文字列を解析する。
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Add, Subtract:
		return d, nil
	default:
		return "", malformed("operation", "operation must be 'add' or 'subtract'")
	}
}

// ParseAmount は数量の文字列を単位に応じて解析する。
// 整数・小数のどちらの表記も受け付けるが、年単位では整数値のみ有効。
func ParseAmount(s string, unit Unit) (TimeAmount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeAmount{}, malformed("amount", "amount must be an integer or float")
	}
	if !amountPattern.MatchString(s) {
		return TimeAmount{}, malformed("amount", "amount must be an integer or float")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return TimeAmount{}, malformed("amount", "amount must be an integer or float")
	}
	return NewTimeAmount(v, unit)
}
