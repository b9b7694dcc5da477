// Package locale は曜日名の静的テーブルと言語の選択を提供する。
package locale

import (
	"time"

	"golang.org/x/text/language"
)

// サポートする言語。先頭がフォールバック先となる。
var supported = []language.Tag{
	language.Spanish,
	language.English,
	language.Japanese,
}

// dayNames は言語ごとの曜日名。time.Weekday（日曜日=0）で引く。
var dayNames = map[language.Tag][7]string{
	language.Spanish:  {"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"},
	language.English:  {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	language.Japanese: {"日曜日", "月曜日", "火曜日", "水曜日", "木曜日", "金曜日", "土曜日"},
}

// Negotiator はクライアントの希望言語からサポート言語を選ぶ。
type Negotiator struct {
	fallback language.Tag
	tags     []language.Tag
	matcher  language.Matcher
}

// NewNegotiator はデフォルト言語を指定してNegotiatorを生成する。
// デフォルト言語がサポート外の場合はスペイン語を使う。
func NewNegotiator(defaultLang string) *Negotiator {
	fallback := supported[0]
	if tag, err := language.Parse(defaultLang); err == nil {
		if _, idx, conf := language.NewMatcher(supported).Match(tag); conf != language.No {
			fallback = supported[idx]
		}
	}

	// フォールバック言語を先頭に置くと、一致しない場合にそれが選ばれる
	tags := []language.Tag{fallback}
	for _, t := range supported {
		if t != fallback {
			tags = append(tags, t)
		}
	}

	return &Negotiator{
		fallback: fallback,
		tags:     tags,
		matcher:  language.NewMatcher(tags),
	}
}

// Default はフォールバック言語を返す。
func (n *Negotiator) Default() language.Tag {
	return n.fallback
}

// Select は明示指定（lang）とAccept-Languageヘッダーから言語を選ぶ。
// langが優先され、どちらも解釈できない場合はデフォルト言語を返す。
func (n *Negotiator) Select(lang, acceptLanguage string) language.Tag {
	var prefs []language.Tag
	if lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			prefs = append(prefs, tag)
		}
	}
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
			prefs = append(prefs, tags...)
		}
	}
	if len(prefs) == 0 {
		return n.fallback
	}

	_, idx, conf := n.matcher.Match(prefs...)
	if conf == language.No {
		return n.fallback
	}
	return n.tags[idx]
}

// DayName は指定言語での曜日名を返す。未知の言語ではスペイン語を使う。
func DayName(tag language.Tag, wd time.Weekday) string {
	names, ok := dayNames[tag]
	if !ok {
		names = dayNames[language.Spanish]
	}
	return names[wd]
}
