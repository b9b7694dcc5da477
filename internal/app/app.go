package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hitoshi/datetimeapi/internal/config"
	"github.com/hitoshi/datetimeapi/internal/handler"
	"github.com/hitoshi/datetimeapi/internal/locale"
	"github.com/hitoshi/datetimeapi/internal/logger"
	"github.com/hitoshi/datetimeapi/internal/metrics"
	"github.com/hitoshi/datetimeapi/internal/middleware"
)

// Init はアプリケーションの初期化を行う。
// 設定を読み込み、設定されたレベルでJSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, *slog.Logger, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数・設定ファイルから設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたログレベルで再初期化
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	return cfg, logger.SetupDefault(w, level), nil
}

// Server はHTTPサーバーとその付随リソースをまとめたもの。
type Server struct {
	httpServer      *http.Server
	limiter         *middleware.RateLimiter
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// NewServer は設定から全依存関係をワイヤリングしたServerを生成する。
func NewServer(cfg *config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	// 1. メトリクス
	var collector metrics.MetricsCollector = metrics.Nop{}
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		reg := metrics.NewRegistry()
		collector = metrics.NewCollector(reg)
		metricsHandler = metrics.Handler(reg)
	}

	// 2. レート制限（req/min -> req/sec に変換）
	clientIP := middleware.ClientIPResolver(cfg.TrustProxy)
	limiter := middleware.NewRateLimiter(
		middleware.PerMinute(cfg.RateLimitPerMinute, cfg.RateLimitBurst),
		middleware.WithKeyFunc(clientIP),
		middleware.WithRejectHook(func(*http.Request) {
			collector.RecordRateLimited()
		}),
	)

	// 3. ルーターの構築
	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            log,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       limiter,
		ClientIP:          clientIP,
		Metrics:           collector,
		MetricsHandler:    metricsHandler,
		Negotiator:        locale.NewNegotiator(cfg.DefaultLanguage),
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelError),
		},
		limiter:         limiter,
		logger:          log,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Handler はルーター全体のhttp.Handlerを返す。
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe は設定されたアドレスでリッスンし、ctxがキャンセルされるまでServeする。
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve はlnでリクエストを受け付ける。
// ctxがキャンセルされるとグレースフルシャットダウンを行い、
// 実行中のリクエストの完了をshutdownTimeoutまで待つ。
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.limiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting",
			slog.String("addr", ln.Addr().String()),
		)
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server listen error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("API server stopped gracefully")
	return nil
}

// runServe はAPIサーバーモードで起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(w io.Writer) error {
	cfg, log, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	log.Info("starting application",
		slog.String("port", cfg.ServerPort),
		slog.Bool("metrics_enabled", cfg.MetricsEnabled),
		slog.Int("rate_limit_per_minute", cfg.RateLimitPerMinute),
		slog.String("default_language", cfg.DefaultLanguage),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return NewServer(cfg, log).ListenAndServe(ctx)
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://127.0.0.1:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
