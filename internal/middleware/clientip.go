package middleware

import (
	"net"
	"net/http"
	"strings"
)

// RemoteIP は接続元アドレスのホスト部を返す。
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ForwardedIP はX-Forwarded-Forの末尾アドレス（直前の信頼済みプロキシが付与した値）を返す。
// 先頭側の値はクライアントが任意に設定できるため使わない。
// ヘッダーが無いか解釈できない場合はRemoteIPにフォールバックする。
// リバースプロキシの背後で運用する場合にのみ使用すること。
func ForwardedIP(r *http.Request) string {
	xff := r.Header.Values("X-Forwarded-For")
	if len(xff) == 0 {
		return RemoteIP(r)
	}
	hops := strings.Split(xff[len(xff)-1], ",")
	last := strings.TrimSpace(hops[len(hops)-1])
	if net.ParseIP(last) == nil {
		return RemoteIP(r)
	}
	return last
}

// ClientIPResolver はプロキシ信頼設定に応じたクライアントIP解決関数を返す。
func ClientIPResolver(trustProxy bool) func(*http.Request) string {
	if trustProxy {
		return ForwardedIP
	}
	return RemoteIP
}
