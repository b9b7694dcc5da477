package datecalc

import (
	"strings"
	"time"
	_ "time/tzdata" // ホストのzoneinfoに依存しない
)

// Conversion はタイムゾーン変換の結果。
type Conversion struct {
	Original  time.Time // 変換元タイムゾーンでの時刻
	Converted time.Time // 変換先タイムゾーンでの同一瞬間
}

// LoadZone はIANAタイムゾーン名を解決する。
// 空文字列と "Local" はホスト環境に依存するため受け付けない。
func LoadZone(name, field string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" || name == "Local" {
		return nil, &Error{Kind: ErrUnknownTimezone, Field: field, Detail: "time zone name is required"}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &Error{Kind: ErrUnknownTimezone, Field: field, Detail: "invalid time zone " + name}
	}
	return loc, nil
}

// Convert はdtをfromの壁時計時刻として解釈し、toでの同一瞬間を返す。
// 夏時間の切り替えで存在しない時刻はtime.Dateの正規化規則に従う。
func Convert(dt DateTime, from, to string) (Conversion, error) {
	src, err := LoadZone(from, "from_timezone")
	if err != nil {
		return Conversion{}, err
	}
	dst, err := LoadZone(to, "to_timezone")
	if err != nil {
		return Conversion{}, err
	}

	original := dt.In(src)
	return Conversion{
		Original:  original,
		Converted: original.In(dst),
	}, nil
}
