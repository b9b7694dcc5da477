package datecalc

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// Duration は2つの日時の間の経過時間を秒単位で保持する。
type Duration struct {
	TotalSeconds int64
}

// Breakdown は経過時間を日・時・分・秒に分解した値。
// Days*86400 + Hours*3600 + Minutes*60 + Seconds は常にTotalSecondsに一致する。
type Breakdown struct {
	Days    int64
	Hours   int
	Minutes int
	Seconds int
}

// Difference は start から end までの経過時間を返す。
// end が start より前の場合は ErrInvalidOrdering を返す。
// 両者はタイムゾーンを持たないため、同一の暦時間として比較する。
func Difference(start, end DateTime) (Duration, error) {
	delta := end.Time().Unix() - start.Time().Unix()
	if delta < 0 {
		return Duration{}, &Error{
			Kind:   ErrInvalidOrdering,
			Detail: "end " + end.String() + " precedes start " + start.String(),
		}
	}
	return Duration{TotalSeconds: delta}, nil
}

// Breakdown は経過時間を逐次の整数除算で分解する。
func (d Duration) Breakdown() Breakdown {
	rem := d.TotalSeconds
	days := rem / secondsPerDay
	rem %= secondsPerDay
	hours := rem / secondsPerHour
	rem %= secondsPerHour
	minutes := rem / secondsPerMinute
	seconds := rem % secondsPerMinute
	return Breakdown{
		Days:    days,
		Hours:   int(hours),
		Minutes: int(minutes),
		Seconds: int(seconds),
	}
}

// TotalDays は経過時間全体を日数の実数で返す。
func (d Duration) TotalDays() float64 {
	return float64(d.TotalSeconds) / secondsPerDay
}

// TotalHours は経過時間全体を時間の実数で返す。
func (d Duration) TotalHours() float64 {
	return float64(d.TotalSeconds) / secondsPerHour
}

// TotalMinutes は経過時間全体を分の実数で返す。
func (d Duration) TotalMinutes() float64 {
	return float64(d.TotalSeconds) / secondsPerMinute
}

// Seconds は経過時間全体を秒の実数で返す。
func (d Duration) Seconds() float64 {
	return float64(d.TotalSeconds)
}
