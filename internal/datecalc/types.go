package datecalc

import (
	"fmt"
	"math"
	"time"
)

// 表現可能な年の範囲。入出力は4桁の YYYY 形式に限られる。
const (
	MinYear = 1
	MaxYear = 9999
)

// 数量の上限。いずれも暦上の約10000年分に相当する。
const (
	maxDayAmount  = 3652425
	maxWeekAmount = maxDayAmount / 7
	maxYearAmount = 10000
)

// CalendarDate はグレゴリオ暦上に実在する年月日を表す。
// NewCalendarDate または ParseDate 経由で生成された値は常に有効な日付である。
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewCalendarDate は年月日の組を検証してCalendarDateを返す。
// 2月30日のような存在しない日付や、範囲外の年はエラーとなる。
func NewCalendarDate(year int, month time.Month, day int) (CalendarDate, error) {
	if year < MinYear || year > MaxYear {
		return CalendarDate{}, fmt.Errorf("year %d is outside %04d..%04d", year, MinYear, MaxYear)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return CalendarDate{}, fmt.Errorf("%04d-%02d-%02d does not exist on the calendar", year, int(month), day)
	}
	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// dateFromTime はUTCのtime.TimeからCalendarDateを取り出す。
func dateFromTime(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// Time はその日のUTC 00:00:00を返す。
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String は YYYY-MM-DD 形式で返す。
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// ISO は時刻部を 00:00:00 としたISO 8601形式で返す。
func (d CalendarDate) ISO() string {
	return d.String() + "T00:00:00"
}

// DateTime はタイムゾーンを持たない日付と時刻の組。
type DateTime struct {
	Date   CalendarDate
	Hour   int
	Minute int
	Second int
}

// Time はDateTimeをUTCの時刻として解釈したtime.Timeを返す。
func (dt DateTime) Time() time.Time {
	return dt.In(time.UTC)
}

// In はDateTimeを指定ロケーションの壁時計時刻として解釈する。
func (dt DateTime) In(loc *time.Location) time.Time {
	return time.Date(dt.Date.Year, dt.Date.Month, dt.Date.Day, dt.Hour, dt.Minute, dt.Second, 0, loc)
}

// String は YYYY-MM-DDTHH:MM:SS 形式で返す。
func (dt DateTime) String() string {
	return fmt.Sprintf("%sT%02d:%02d:%02d", dt.Date, dt.Hour, dt.Minute, dt.Second)
}

// Unit は加減算の単位。
type Unit string

const (
	UnitDays  Unit = "days"
	UnitWeeks Unit = "weeks"
	UnitYears Unit = "years"
)

// Direction は加算・減算の向き。
type Direction string

const (
	Add      Direction = "add"
	Subtract Direction = "subtract"
)

// sign は方向に応じた符号を返す。
func (d Direction) sign() int {
	if d == Subtract {
		return -1
	}
	return 1
}

// TimeAmount は単位付きの数量。
// 単位ごとに保持する型が異なり、年は整数、日・週は実数で保持する。
// ゼロ値は 0 日として扱われる。
type TimeAmount struct {
	unit  Unit
	value float64 // UnitDays, UnitWeeks
	years int     // UnitYears
}

// NewTimeAmount は単位に応じて数量を検証しTimeAmountを生成する。
// 年の数量に小数部がある場合、非有限値、範囲外の値はErrMalformedInputとなる。
func NewTimeAmount(value float64, unit Unit) (TimeAmount, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return TimeAmount{}, malformed("amount", "amount must be a finite number")
	}

	switch unit {
	case UnitDays, UnitWeeks:
		limit := float64(maxDayAmount)
		if unit == UnitWeeks {
			limit = maxWeekAmount
		}
		if math.Abs(value) > limit {
			return TimeAmount{}, malformed("amount", fmt.Sprintf("amount must be within ±%d %s", int(limit), unit))
		}
		return TimeAmount{unit: unit, value: value}, nil
	case UnitYears:
		if value != math.Trunc(value) {
			return TimeAmount{}, malformed("amount", "years amount must be a whole number")
		}
		if math.Abs(value) > maxYearAmount {
			return TimeAmount{}, malformed("amount", fmt.Sprintf("amount must be within ±%d years", maxYearAmount))
		}
		return TimeAmount{unit: unit, years: int(value)}, nil
	default:
		return TimeAmount{}, malformed("unit", "unit must be 'days', 'weeks', or 'years'")
	}
}

// Unit は数量の単位を返す。ゼロ値の場合はUnitDays。
func (a TimeAmount) Unit() Unit {
	if a.unit == "" {
		return UnitDays
	}
	return a.unit
}

// Value は数量を実数で返す。
func (a TimeAmount) Value() float64 {
	if a.unit == UnitYears {
		return float64(a.years)
	}
	return a.value
}

// Years は年単位の数量を返す。年以外の単位では0。
func (a TimeAmount) Years() int {
	return a.years
}
