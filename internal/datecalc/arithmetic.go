package datecalc

import (
	"fmt"
	"math"
)

// Apply は基準日に数量を加算または減算した日付を返す。
//
// 日・週は固定長の日数として扱い、端数は四捨五入する。週は7日換算した後に丸める。
// 年は年の値のみを置き換え、月日は変更しない。閏日（2月29日）を平年に移した場合は
// 2月28日や3月1日に補正せず ErrInvalidResultDate を返す。
// 符号と方向は独立に適用されるため、負の数量で加算すると実質的に減算となる。
func Apply(base CalendarDate, amount TimeAmount, dir Direction) (CalendarDate, error) {
	if dir != Add && dir != Subtract {
		return CalendarDate{}, malformed("operation", "operation must be 'add' or 'subtract'")
	}
	sign := float64(dir.sign())

	var result CalendarDate
	switch amount.Unit() {
	case UnitDays:
		result = shiftDays(base, int(math.Round(sign*amount.Value())))
	case UnitWeeks:
		result = shiftDays(base, int(math.Round(sign*amount.Value()*7)))
	case UnitYears:
		year := base.Year + dir.sign()*amount.Years()
		d, err := NewCalendarDate(year, base.Month, base.Day)
		if err != nil {
			return CalendarDate{}, &Error{Kind: ErrInvalidResultDate, Field: "amount", Detail: err.Error()}
		}
		return d, nil
	default:
		return CalendarDate{}, malformed("unit", "unit must be 'days', 'weeks', or 'years'")
	}

	if result.Year < MinYear || result.Year > MaxYear {
		return CalendarDate{}, &Error{
			Kind:   ErrInvalidResultDate,
			Field:  "amount",
			Detail: fmt.Sprintf("result year %d is outside %04d..%04d", result.Year, MinYear, MaxYear),
		}
	}
	return result, nil
}

// shiftDays は日付をn日ずらす。UTCで計算するため夏時間の影響を受けない。
func shiftDays(d CalendarDate, n int) CalendarDate {
	return dateFromTime(d.Time().AddDate(0, 0, n))
}
