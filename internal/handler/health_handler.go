package handler

import (
	"net/http"
	"time"
)

// HealthResponse はヘルスチェックのレスポンス。
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Health は GET /health を処理する。外部依存を持たないため常にokを返す。
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
