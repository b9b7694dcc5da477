package datecalc

import "time"

// Weekday はその日の曜日を返す。
func Weekday(d CalendarDate) time.Weekday {
	return d.Time().Weekday()
}

// ISOWeekday は月曜日を1、日曜日を7とするISO 8601の曜日番号を返す。
func ISOWeekday(d CalendarDate) int {
	wd := int(Weekday(d))
	if wd == 0 {
		return 7
	}
	return wd
}

// ISOWeek はISO 8601の週番号と、その週が属するISO年を返す。
// 年始・年末の日付は暦年と異なるISO年に属することがある。
func ISOWeek(d CalendarDate) (year, week int) {
	return d.Time().ISOWeek()
}
