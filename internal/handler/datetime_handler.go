package handler

import (
	"net/http"
	"time"

	"github.com/hitoshi/datetimeapi/internal/datecalc"
	"github.com/hitoshi/datetimeapi/internal/locale"
	"github.com/hitoshi/datetimeapi/internal/metrics"
)

// DateTimeHandler は日付・時刻計算エンドポイントのHTTPハンドラ。
type DateTimeHandler struct {
	negotiator *locale.Negotiator
	metrics    metrics.MetricsCollector
}

// NewDateTimeHandler はDateTimeHandlerを生成する。
// mがnilの場合はメトリクスを記録しない。
func NewDateTimeHandler(negotiator *locale.Negotiator, m metrics.MetricsCollector) *DateTimeHandler {
	if negotiator == nil {
		negotiator = locale.NewNegotiator("")
	}
	if m == nil {
		m = metrics.Nop{}
	}
	return &DateTimeHandler{negotiator: negotiator, metrics: m}
}

// AddSubtractResponse は日付加減算のレスポンス。
type AddSubtractResponse struct {
	Original  string  `json:"original"`
	Amount    float64 `json:"amount"`
	Unit      string  `json:"unit"`
	Operation string  `json:"operation"`
	Result    string  `json:"result"`
}

// AddSubtract は GET /addsubtract を処理する。
func (h *DateTimeHandler) AddSubtract(w http.ResponseWriter, r *http.Request) {
	q, apiErr := requireQuery(r, "date_str", "amount", "unit", "operation")
	if apiErr != nil {
		writeMissingParameter(w, h.metrics, apiErr)
		return
	}

	base, err := datecalc.ParseDate(q["date_str"], "date_str")
	if err != nil {
		handleCalcError(w, r, h.metrics, err)
		return
	}
	unit, err := datecalc.ParseUnit(q["unit"])
	if err != nil {
		handleCalcError(w, r, h.metrics, err)
		return
	}
	amount, err := datecalc.ParseAmount(q["amount"], unit)
	if err != nil {
		handleCalcError(w, r, h.metrics, err)
		return
	}
	dir, err := datecalc.ParseDirection(q["operation"])
	if err != nil {
		handleCalcError(w, r, h.metrics, err)
		return
	}

	result, err := datecalc.Apply(base, amount, dir)
	if err != nil {
		handleCalcError(w, r, h.metrics, err)
		return
	}
	h.metrics.RecordArithmetic(string(unit), string(dir))

	writeJSON(w, AddSubtractResponse{
		Original:  base.ISO(),
		Amount:    amount.Value(),
		Unit:      string(unit),
		Operation: string(dir),
		Result:    result.ISO(),
	})
}

// DurationParts は差分の内訳。
type DurationParts struct {
	Days    int64 `json:"days"`
	Hours   int   `json:"hours"`
	Minutes int   `json:"minutes"`
	Seconds int   `json:"seconds"`
}

// DurationTotals は差分を各単位で表した実数値。
type DurationTotals struct {
	Days    float64 `json:"days"`
	Hours   float64 `json:"hours"`
	Minutes float64 `json:"minutes"`
	Seconds float64 `json:"seconds"`
}

// DifferenceResponse は日時差分のレスポンス。
type DifferenceResponse struct {
	Start        string         `json:"start"`
	End          string         `json:"end"`
	Difference   DurationParts  `json:"difference"`
	Totals       DurationTotals `json:"totals"`
	TotalSeconds int64          `json:"total_seconds"`
}

// Difference は GET /difference を処理する。
func (h *DateTimeHandler) Difference(w http.ResponseWriter, r *http.Request) {
	q, apiErr := requireQuery(r, "start_date", "start_time", "end_date", "end_time")
	if apiErr != nil {
		writeMissingParameter(w, h.metrics, apiErr)
		return
	}

	start, err := datecalc.ParseDateTime(q["start_date"], q["start_time"], "start_date", "start_time")
	if err != nil {
		handleCalcError(w, r, h.metrics, err)
		return
	}
	end, err := datecalc.ParseDateTime(q["end_date"], q["end_time"], "end_date", "end_time")
	if err != nil {
		handleCalcError(w, r, h.metrics, err)
		return
	}

	d, err := datecalc.Difference(start, end)
	if err != nil {
		handleCalcError(w, r, h.metrics, err)
		return
	}

	b := d.Breakdown()
	writeJSON(w, DifferenceResponse{
		Start: start.String(),
		End:   end.String(),
		Difference: DurationParts{
			Days:    b.Days,
			Hours:   b.Hours,
			Minutes: b.Minutes,
			Seconds: b.Seconds,
		},
		Totals: DurationTotals{
			Days:    d.TotalDays(),
			Hours:   d.TotalHours(),
			Minutes: d.TotalMinutes(),
			Seconds: d.Seconds(),
		},
		TotalSeconds: d.TotalSeconds,
	})
}

// ConvertResponse はタイムゾーン変換のレスポンス。
type ConvertResponse struct {
	Original     string `json:"original"`
	FromTimezone string `json:"from_timezone"`
	ToTimezone   string `json:"to_timezone"`
	Converted    string `json:"converted"`
}

// Convert は GET /convert を処理する。
func (h *DateTimeHandler) Convert(w http.ResponseWriter, r *http.Request) {
	q, apiErr := requireQuery(r, "date", "time", "from_timezone", "to_timezone")
	if apiErr != nil {
		writeMissingParameter(w, h.metrics, apiErr)
		return
	}

	dt, err := datecalc.ParseDateTime(q["date"], q["time"], "date", "time")
	if err != nil {
		handleCalcError(w, r, h.metrics, err)
		return
	}
	conv, err := datecalc.Convert(dt, q["from_timezone"], q["to_timezone"])
	if err != nil {
		handleCalcError(w, r, h.metrics, err)
		return
	}

	writeJSON(w, ConvertResponse{
		Original:     conv.Original.Format(time.RFC3339),
		FromTimezone: q["from_timezone"],
		ToTimezone:   q["to_timezone"],
		Converted:    conv.Converted.Format(time.RFC3339),
	})
}

// CurrentResponse は日時の各種表現。
type CurrentResponse struct {
	Unix   int64  `json:"unix"`
	UTC    string `json:"utc"`
	ISO    string `json:"iso"`
	Locale string `json:"locale"`
}

// Current は GET /current を処理する。入力はUTCとして扱う。
func (h *DateTimeHandler) Current(w http.ResponseWriter, r *http.Request) {
	q, apiErr := requireQuery(r, "date", "time")
	if apiErr != nil {
		writeMissingParameter(w, h.metrics, apiErr)
		return
	}

	dt, err := datecalc.ParseDateTime(q["date"], q["time"], "date", "time")
	if err != nil {
		handleCalcError(w, r, h.metrics, err)
		return
	}

	f := datecalc.Render(dt)
	writeJSON(w, CurrentResponse{
		Unix:   f.UnixMillis,
		UTC:    f.UTC,
		ISO:    f.ISO,
		Locale: f.Locale,
	})
}

// DayOfWeekResponse は曜日参照のレスポンス。
type DayOfWeekResponse struct {
	Date       string `json:"date"`
	DayOfWeek  string `json:"day_of_week"`
	ISOWeekday int    `json:"iso_weekday"`
	Language   string `json:"language"`
}

// DayOfWeek は GET /dayofweek を処理する。
// 曜日名の言語はlangパラメータ、Accept-Languageヘッダ、既定言語の順で決まる。
func (h *DateTimeHandler) DayOfWeek(w http.ResponseWriter, r *http.Request) {
	q, apiErr := requireQuery(r, "date_str")
	if apiErr != nil {
		writeMissingParameter(w, h.metrics, apiErr)
		return
	}

	d, err := datecalc.ParseDate(q["date_str"], "date_str")
	if err != nil {
		handleCalcError(w, r, h.metrics, err)
		return
	}

	tag := h.negotiator.Select(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	w.Header().Set("Content-Language", tag.String())
	writeJSON(w, DayOfWeekResponse{
		Date:       d.ISO(),
		DayOfWeek:  locale.DayName(tag, datecalc.Weekday(d)),
		ISOWeekday: datecalc.ISOWeekday(d),
		Language:   tag.String(),
	})
}

// WeekNumberResponse はISO週番号のレスポンス。
type WeekNumberResponse struct {
	Date       string `json:"date"`
	WeekNumber int    `json:"week_number"`
	ISOYear    int    `json:"iso_year"`
}

// WeekNumber は GET /weeknumber_iso を処理する。
func (h *DateTimeHandler) WeekNumber(w http.ResponseWriter, r *http.Request) {
	q, apiErr := requireQuery(r, "date_str")
	if apiErr != nil {
		writeMissingParameter(w, h.metrics, apiErr)
		return
	}

	d, err := datecalc.ParseDate(q["date_str"], "date_str")
	if err != nil {
		handleCalcError(w, r, h.metrics, err)
		return
	}

	year, week := datecalc.ISOWeek(d)
	writeJSON(w, WeekNumberResponse{
		Date:       d.ISO(),
		WeekNumber: week,
		ISOYear:    year,
	})
}
