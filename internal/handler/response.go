package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/datetimeapi/internal/datecalc"
	"github.com/hitoshi/datetimeapi/internal/metrics"
	"github.com/hitoshi/datetimeapi/internal/middleware"
	"github.com/hitoshi/datetimeapi/internal/model"
)

// エラー種別のメトリクスラベル
const (
	kindMissingParameter  = "missing_parameter"
	kindMalformedInput    = "malformed_input"
	kindInvalidTimezone   = "invalid_timezone"
	kindInvalidResultDate = "invalid_result_date"
	kindInvalidOrdering   = "invalid_ordering"
)

// writeJSON は200 OKでJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// requireQuery はクエリパラメータを取り出し、必須項目の欠落を検出する。
// 欠落した最初のパラメータについてAPIErrorを返す。
func requireQuery(r *http.Request, names ...string) (map[string]string, *model.APIError) {
	q := r.URL.Query()
	values := make(map[string]string, len(names))
	for _, name := range names {
		v := q.Get(name)
		if v == "" {
			return nil, model.NewMissingParameterError(name)
		}
		values[name] = v
	}
	return values, nil
}

// toAPIError は計算パッケージのエラーをHTTPステータスとAPIErrorに変換する。
// 2番目の戻り値はメトリクス用のエラー種別。
func toAPIError(err error, r *http.Request) (int, *model.APIError, string) {
	var calcErr *datecalc.Error
	detail := err.Error()
	field := ""
	if errors.As(err, &calcErr) {
		detail = calcErr.Detail
		field = calcErr.Field
	}

	switch {
	case errors.Is(err, datecalc.ErrUnknownTimezone):
		return http.StatusUnprocessableEntity, model.NewInvalidTimezoneError(field, r.URL.Query().Get(field)), kindInvalidTimezone
	case errors.Is(err, datecalc.ErrMalformedInput):
		return http.StatusUnprocessableEntity, model.NewMalformedInputError(field, detail), kindMalformedInput
	case errors.Is(err, datecalc.ErrInvalidResultDate):
		return http.StatusBadRequest, model.NewInvalidResultDateError(detail), kindInvalidResultDate
	case errors.Is(err, datecalc.ErrInvalidOrdering):
		return http.StatusUnprocessableEntity, model.NewInvalidOrderingError(), kindInvalidOrdering
	default:
		return http.StatusInternalServerError, model.NewInternalError(), ""
	}
}

// handleCalcError は計算エラーを統一フォーマットで書き込み、メトリクスに記録する。
func handleCalcError(w http.ResponseWriter, r *http.Request, m metrics.MetricsCollector, err error) {
	status, apiErr, kind := toAPIError(err, r)
	if kind == "" {
		// 入力起因でないエラーは詳細をログのみに記録する
		slog.Error("unexpected calculation error",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
		)
	} else {
		m.RecordCalcError(kind)
	}
	middleware.WriteErrorResponse(w, status, apiErr)
}

// writeMissingParameter は必須パラメータ欠落のエラーを書き込む。
func writeMissingParameter(w http.ResponseWriter, m metrics.MetricsCollector, apiErr *model.APIError) {
	m.RecordCalcError(kindMissingParameter)
	middleware.WriteErrorResponse(w, http.StatusUnprocessableEntity, apiErr)
}
