package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/datetimeapi/internal/locale"
)

// --- テスト用モック ---

type fakeMetrics struct {
	calcErrors  map[string]int
	arithmetics map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		calcErrors:  map[string]int{},
		arithmetics: map[string]int{},
	}
}

func (f *fakeMetrics) RecordRequest(string, string, int, time.Duration) {}
func (f *fakeMetrics) RecordCalcError(kind string)                    { f.calcErrors[kind]++ }
func (f *fakeMetrics) RecordArithmetic(unit, operation string)        { f.arithmetics[unit+"/"+operation]++ }
func (f *fakeMetrics) RecordRateLimited()                             {}

// --- テストヘルパー ---

func newTestHandler() (*DateTimeHandler, *fakeMetrics) {
	m := newFakeMetrics()
	return NewDateTimeHandler(locale.NewNegotiator("es"), m), m
}

func serve(t *testing.T, hf http.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	hf(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

// parseAPIErrorResponse はエラーレスポンスのJSONをパースする。
func parseAPIErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	return decodeJSON[map[string]string](t, w)
}

func assertAPIError(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantCode, wantField string) {
	t.Helper()
	if w.Code != wantStatus {
		t.Fatalf("status = %d, want %d (body=%s)", w.Code, wantStatus, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}
	resp := parseAPIErrorResponse(t, w)
	if resp["code"] != wantCode {
		t.Errorf("code = %q, want %q", resp["code"], wantCode)
	}
	if resp["field"] != wantField {
		t.Errorf("field = %q, want %q", resp["field"], wantField)
	}
	if resp["message"] == "" || resp["action"] == "" || resp["category"] == "" {
		t.Errorf("error body is incomplete: %v", resp)
	}
}

// --- GET /addsubtract テスト ---

func TestDateTimeHandler_AddSubtract_Success(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantResult string
		wantAmount float64
	}{
		{"add days", "date_str=2021-05-31&amount=1&unit=days&operation=add", "2021-06-01T00:00:00", 1},
		{"fractional days round half away", "date_str=2021-05-31&amount=1.5&unit=days&operation=add", "2021-06-02T00:00:00", 1.5},
		{"subtract weeks", "date_str=2021-05-31&amount=1&unit=weeks&operation=subtract", "2021-05-24T00:00:00", 1},
		{"negative amount with subtract", "date_str=2021-05-31&amount=-2&unit=days&operation=subtract", "2021-06-02T00:00:00", -2},
		{"add years", "date_str=2020-02-28&amount=1&unit=years&operation=add", "2021-02-28T00:00:00", 1},
		{"leap day to leap year", "date_str=2024-02-29&amount=4&unit=years&operation=add", "2028-02-29T00:00:00", 4},
		{"zero amount", "date_str=2021-05-31&amount=0&unit=weeks&operation=add", "2021-05-31T00:00:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler()
			w := serve(t, h.AddSubtract, "/addsubtract?"+tt.query)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d (body=%s)", w.Code, http.StatusOK, w.Body.String())
			}
			resp := decodeJSON[AddSubtractResponse](t, w)
			if resp.Result != tt.wantResult {
				t.Errorf("result = %q, want %q", resp.Result, tt.wantResult)
			}
			if resp.Amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", resp.Amount, tt.wantAmount)
			}
		})
	}
}

func TestDateTimeHandler_AddSubtract_EchoesInputs(t *testing.T) {
	h, m := newTestHandler()
	w := serve(t, h.AddSubtract, "/addsubtract?date_str=2021-05-31&amount=3&unit=days&operation=subtract")

	resp := decodeJSON[AddSubtractResponse](t, w)
	want := AddSubtractResponse{
		Original:  "2021-05-31T00:00:00",
		Amount:    3,
		Unit:      "days",
		Operation: "subtract",
		Result:    "2021-05-28T00:00:00",
	}
	if resp != want {
		t.Errorf("response = %+v, want %+v", resp, want)
	}
	if m.arithmetics["days/subtract"] != 1 {
		t.Errorf("arithmetic metric = %d, want 1", m.arithmetics["days/subtract"])
	}
}

func TestDateTimeHandler_AddSubtract_LeapDayIntoCommonYear(t *testing.T) {
	h, m := newTestHandler()
	w := serve(t, h.AddSubtract, "/addsubtract?date_str=2024-02-29&amount=1&unit=years&operation=add")

	assertAPIError(t, w, http.StatusBadRequest, "INVALID_RESULT_DATE", "amount")
	if m.calcErrors[kindInvalidResultDate] != 1 {
		t.Errorf("calc error metric = %v, want invalid_result_date=1", m.calcErrors)
	}
	if len(m.arithmetics) != 0 {
		t.Errorf("arithmetic metric recorded on failure: %v", m.arithmetics)
	}
}

func TestDateTimeHandler_AddSubtract_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"missing date", "amount=1&unit=days&operation=add", http.StatusUnprocessableEntity, "MISSING_PARAMETER", "date_str"},
		{"missing operation", "date_str=2021-05-31&amount=1&unit=days", http.StatusUnprocessableEntity, "MISSING_PARAMETER", "operation"},
		{"bad date format", "date_str=31-05-2021&amount=1&unit=days&operation=add", http.StatusUnprocessableEntity, "MALFORMED_INPUT", "date_str"},
		{"nonexistent date", "date_str=2021-02-30&amount=1&unit=days&operation=add", http.StatusUnprocessableEntity, "MALFORMED_INPUT", "date_str"},
		{"unknown unit", "date_str=2021-05-31&amount=1&unit=months&operation=add", http.StatusUnprocessableEntity, "MALFORMED_INPUT", "unit"},
		{"unit is case sensitive", "date_str=2021-05-31&amount=1&unit=Days&operation=add", http.StatusUnprocessableEntity, "MALFORMED_INPUT", "unit"},
		{"non numeric amount", "date_str=2021-05-31&amount=abc&unit=days&operation=add", http.StatusUnprocessableEntity, "MALFORMED_INPUT", "amount"},
		{"go literal amount", "date_str=2021-05-31&amount=1_0&unit=days&operation=add", http.StatusUnprocessableEntity, "MALFORMED_INPUT", "amount"},
		{"fractional years", "date_str=2021-05-31&amount=1.5&unit=years&operation=add", http.StatusUnprocessableEntity, "MALFORMED_INPUT", "amount"},
		{"unknown operation", "date_str=2021-05-31&amount=1&unit=days&operation=multiply", http.StatusUnprocessableEntity, "MALFORMED_INPUT", "operation"},
		{"result before year 1", "date_str=0001-01-01&amount=1&unit=days&operation=subtract", http.StatusBadRequest, "INVALID_RESULT_DATE", "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler()
			w := serve(t, h.AddSubtract, "/addsubtract?"+tt.query)
			assertAPIError(t, w, tt.wantStatus, tt.wantCode, tt.wantField)
		})
	}
}

// --- GET /difference テスト ---

func TestDateTimeHandler_Difference_OneDay(t *testing.T) {
	h, _ := newTestHandler()
	w := serve(t, h.Difference, "/difference?start_date=2021-05-31&start_time=00:00:00&end_date=2021-06-01&end_time=00:00:00")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body=%s)", w.Code, http.StatusOK, w.Body.String())
	}
	resp := decodeJSON[DifferenceResponse](t, w)

	if resp.Difference != (DurationParts{Days: 1}) {
		t.Errorf("difference = %+v, want 1 day", resp.Difference)
	}
	wantTotals := DurationTotals{Days: 1, Hours: 24, Minutes: 1440, Seconds: 86400}
	if resp.Totals != wantTotals {
		t.Errorf("totals = %+v, want %+v", resp.Totals, wantTotals)
	}
	if resp.TotalSeconds != 86400 {
		t.Errorf("total_seconds = %d, want 86400", resp.TotalSeconds)
	}
	if resp.Start != "2021-05-31T00:00:00" || resp.End != "2021-06-01T00:00:00" {
		t.Errorf("start/end = %q/%q", resp.Start, resp.End)
	}
}

func TestDateTimeHandler_Difference_Breakdown(t *testing.T) {
	h, _ := newTestHandler()
	w := serve(t, h.Difference, "/difference?start_date=2021-05-31&start_time=10:20:30&end_date=2021-06-02&end_time=13:24:35")

	resp := decodeJSON[DifferenceResponse](t, w)
	want := DurationParts{Days: 2, Hours: 3, Minutes: 4, Seconds: 5}
	if resp.Difference != want {
		t.Errorf("difference = %+v, want %+v", resp.Difference, want)
	}

	sum := resp.Difference.Days*86400 + int64(resp.Difference.Hours)*3600 +
		int64(resp.Difference.Minutes)*60 + int64(resp.Difference.Seconds)
	if sum != resp.TotalSeconds {
		t.Errorf("breakdown sum = %d, want %d", sum, resp.TotalSeconds)
	}
}

func TestDateTimeHandler_Difference_Equal(t *testing.T) {
	h, _ := newTestHandler()
	w := serve(t, h.Difference, "/difference?start_date=2021-05-31&start_time=12:00:00&end_date=2021-05-31&end_time=12:00:00")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeJSON[DifferenceResponse](t, w)
	if resp.TotalSeconds != 0 || resp.Difference != (DurationParts{}) {
		t.Errorf("response = %+v, want zero duration", resp)
	}
}

func TestDateTimeHandler_Difference_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"end before start", "start_date=2021-06-01&start_time=00:00:00&end_date=2021-05-31&end_time=23:59:59", http.StatusUnprocessableEntity, "INVALID_ORDERING", "end_date"},
		{"missing end time", "start_date=2021-06-01&start_time=00:00:00&end_date=2021-05-31", http.StatusUnprocessableEntity, "MISSING_PARAMETER", "end_time"},
		{"bad start time", "start_date=2021-06-01&start_time=25:00:00&end_date=2021-06-02&end_time=00:00:00", http.StatusUnprocessableEntity, "MALFORMED_INPUT", "start_time"},
		{"short time", "start_date=2021-06-01&start_time=1:00:00&end_date=2021-06-02&end_time=00:00:00", http.StatusUnprocessableEntity, "MALFORMED_INPUT", "start_time"},
		{"bad end date", "start_date=2021-06-01&start_time=00:00:00&end_date=2021/06/02&end_time=00:00:00", http.StatusUnprocessableEntity, "MALFORMED_INPUT", "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler()
			w := serve(t, h.Difference, "/difference?"+tt.query)
			assertAPIError(t, w, tt.wantStatus, tt.wantCode, tt.wantField)
		})
	}
}

func TestDateTimeHandler_Difference_RecordsOrderingError(t *testing.T) {
	h, m := newTestHandler()
	serve(t, h.Difference, "/difference?start_date=2021-06-01&start_time=00:00:00&end_date=2021-05-31&end_time=00:00:00")

	if m.calcErrors[kindInvalidOrdering] != 1 {
		t.Errorf("calc error metric = %v, want invalid_ordering=1", m.calcErrors)
	}
}

// --- GET /convert テスト ---

func TestDateTimeHandler_Convert_Success(t *testing.T) {
	h, _ := newTestHandler()
	w := serve(t, h.Convert, "/convert?date=2024-05-28&time=12:00:00&from_timezone=America/Bogota&to_timezone=America/Argentina/Buenos_Aires")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body=%s)", w.Code, http.StatusOK, w.Body.String())
	}
	resp := decodeJSON[ConvertResponse](t, w)
	want := ConvertResponse{
		Original:     "2024-05-28T12:00:00-05:00",
		FromTimezone: "America/Bogota",
		ToTimezone:   "America/Argentina/Buenos_Aires",
		Converted:    "2024-05-28T14:00:00-03:00",
	}
	if resp != want {
		t.Errorf("response = %+v, want %+v", resp, want)
	}
}

func TestDateTimeHandler_Convert_UnknownTimezone(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantField string
	}{
		{"unknown source", "date=2024-05-28&time=12:00:00&from_timezone=Mars/Olympus&to_timezone=UTC", "from_timezone"},
		{"unknown target", "date=2024-05-28&time=12:00:00&from_timezone=UTC&to_timezone=Mars/Olympus", "to_timezone"},
		{"host local zone", "date=2024-05-28&time=12:00:00&from_timezone=Local&to_timezone=UTC", "from_timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler()
			w := serve(t, h.Convert, "/convert?"+tt.query)
			assertAPIError(t, w, http.StatusUnprocessableEntity, "INVALID_TIMEZONE", tt.wantField)
			if m.calcErrors[kindInvalidTimezone] != 1 {
				t.Errorf("calc error metric = %v, want invalid_timezone=1", m.calcErrors)
			}
		})
	}
}

// --- GET /current テスト ---

func TestDateTimeHandler_Current_Formats(t *testing.T) {
	h, _ := newTestHandler()
	w := serve(t, h.Current, "/current?date=2024-05-29&time=12:00:00")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body=%s)", w.Code, http.StatusOK, w.Body.String())
	}
	resp := decodeJSON[CurrentResponse](t, w)
	want := CurrentResponse{
		Unix:   1716984000000,
		UTC:    "Wed, 29 May 2024 12:00:00 GMT",
		ISO:    "2024-05-29T12:00:00Z",
		Locale: "May 29, 2024, 12:00:00",
	}
	if resp != want {
		t.Errorf("response = %+v, want %+v", resp, want)
	}
}

func TestDateTimeHandler_Current_MissingTime(t *testing.T) {
	h, m := newTestHandler()
	w := serve(t, h.Current, "/current?date=2024-05-29")

	assertAPIError(t, w, http.StatusUnprocessableEntity, "MISSING_PARAMETER", "time")
	if m.calcErrors[kindMissingParameter] != 1 {
		t.Errorf("calc error metric = %v, want missing_parameter=1", m.calcErrors)
	}
}

// --- GET /dayofweek テスト ---

func TestDateTimeHandler_DayOfWeek_Languages(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		acceptLanguage string
		wantName       string
		wantLanguage   string
	}{
		{"default spanish", "date_str=2024-05-28", "", "Martes", "es"},
		{"lang parameter", "date_str=2024-05-28&lang=en", "", "Tuesday", "en"},
		{"accept language header", "date_str=2024-05-28", "ja-JP,ja;q=0.9", "火曜日", "ja"},
		{"lang wins over header", "date_str=2024-05-28&lang=en", "ja", "Tuesday", "en"},
		{"unsupported falls back", "date_str=2024-05-28&lang=fr", "", "Martes", "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler()
			req := httptest.NewRequest(http.MethodGet, "/dayofweek?"+tt.query, nil)
			if tt.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tt.acceptLanguage)
			}
			w := httptest.NewRecorder()
			h.DayOfWeek(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d (body=%s)", w.Code, http.StatusOK, w.Body.String())
			}
			resp := decodeJSON[DayOfWeekResponse](t, w)
			if resp.DayOfWeek != tt.wantName {
				t.Errorf("day_of_week = %q, want %q", resp.DayOfWeek, tt.wantName)
			}
			if resp.Language != tt.wantLanguage {
				t.Errorf("language = %q, want %q", resp.Language, tt.wantLanguage)
			}
			if resp.ISOWeekday != 2 {
				t.Errorf("iso_weekday = %d, want 2", resp.ISOWeekday)
			}
			if got := w.Header().Get("Content-Language"); got != tt.wantLanguage {
				t.Errorf("Content-Language = %q, want %q", got, tt.wantLanguage)
			}
		})
	}
}

func TestDateTimeHandler_DayOfWeek_MalformedDate(t *testing.T) {
	h, _ := newTestHandler()
	w := serve(t, h.DayOfWeek, "/dayofweek?date_str=2024-13-01")
	assertAPIError(t, w, http.StatusUnprocessableEntity, "MALFORMED_INPUT", "date_str")
}

// --- GET /weeknumber_iso テスト ---

func TestDateTimeHandler_WeekNumber(t *testing.T) {
	tests := []struct {
		date     string
		wantWeek int
		wantYear int
	}{
		{"2021-05-31", 22, 2021},
		{"2021-01-01", 53, 2020},
		{"2024-12-30", 1, 2025},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			h, _ := newTestHandler()
			w := serve(t, h.WeekNumber, "/weeknumber_iso?date_str="+tt.date)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			resp := decodeJSON[WeekNumberResponse](t, w)
			if resp.WeekNumber != tt.wantWeek || resp.ISOYear != tt.wantYear {
				t.Errorf("week = %d-W%02d, want %d-W%02d", resp.ISOYear, resp.WeekNumber, tt.wantYear, tt.wantWeek)
			}
			if resp.Date != tt.date+"T00:00:00" {
				t.Errorf("date = %q, want %q", resp.Date, tt.date+"T00:00:00")
			}
		})
	}
}

func TestDateTimeHandler_WeekNumber_MissingDate(t *testing.T) {
	h, _ := newTestHandler()
	w := serve(t, h.WeekNumber, "/weeknumber_iso")
	assertAPIError(t, w, http.StatusUnprocessableEntity, "MISSING_PARAMETER", "date_str")
}
