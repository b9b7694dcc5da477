package datecalc

// Formats は1つの日時を複数の表記で表したもの。
type Formats struct {
	UnixMillis int64  // UNIXエポックからのミリ秒
	UTC        string // 例: Wed, 29 May 2024 12:00:00 GMT
	ISO        string // 例: 2024-05-29T12:00:00Z
	Locale     string // 例: May 29, 2024, 12:00:00
}

// Render はdtをUTCとして解釈し、各表記に変換する。
func Render(dt DateTime) Formats {
	t := dt.Time()
	return Formats{
		UnixMillis: t.Unix() * 1000,
		UTC:        t.Format("Mon, 02 Jan 2006 15:04:05 GMT"),
		ISO:        t.Format("2006-01-02T15:04:05Z"),
		Locale:     t.Format("Jan 02, 2006, 15:04:05"),
	}
}
