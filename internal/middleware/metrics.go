package middleware

import (
	"net/http"
	"time"
)

// RequestRecorder はHTTPリクエストのメトリクスを記録するインターフェース。
type RequestRecorder interface {
	RecordRequest(route, method string, statusCode int, duration time.Duration)
}

// unmatchedRoute はどのルートにもマッチしなかったリクエストのラベル。
// パスをそのままラベルにするとカーディナリティが際限なく増えるため集約する。
const unmatchedRoute = "unmatched"

// NewMetricsMiddleware はルートパターン単位でリクエスト数とレイテンシを記録するミドルウェアを返す。
func NewMetricsMiddleware(recorder RequestRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			route := routePattern(r)
			if route == "" {
				route = unmatchedRoute
			}
			recorder.RecordRequest(route, r.Method, rec.statusCode, time.Since(start))
		})
	}
}
