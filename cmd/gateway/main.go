package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"security-gateway/middleware/admission"
	"security-gateway/middleware/admission/domain"
	"security-gateway/middleware/admission/infra"
)

func main() {
	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	pol, err := loadPolicy(cfg.policyFile)
	if err != nil {
		log.Fatalf("policy error: %v", err)
	}

	target, err := url.Parse(cfg.upstreamURL)
	if err != nil {
		log.Fatalf("invalid UPSTREAM_URL: %v", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("proxy error: %v", err)
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	headers, err := admission.NewHeaderPolicy(cfg.origins(pol), pol.cspConfig())
	if err != nil {
		log.Fatalf("headers error: %v", err)
	}

	classifier, err := pol.classifier()
	if err != nil {
		log.Fatalf("policy bot lists error: %v", err)
	}
	validator, err := pol.validator()
	if err != nil {
		log.Fatalf("policy signatures error: %v", err)
	}

	var store domain.WindowStore
	var windowStore *infra.WindowStore
	if cfg.rateEnabled {
		windowStore = infra.NewWindowStore(cfg.rateLimit, cfg.rateWindow)
		store = windowStore
	}

	statsStore, rdb, err := buildStats(cfg)
	if err != nil {
		log.Fatalf("stats error: %v", err)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if windowStore != nil {
		windowStore.StartJanitor(ctx)
	}

	h := http.Handler(proxy)
	h = admission.Middleware(admission.Options{
		Store:               store,
		Stats:               statsStore,
		Classifier:          classifier,
		Validator:           validator,
		Headers:             headers,
		KeyHeader:           cfg.rateKeyHeader,
		TrustXForwardedFor:  cfg.trustXFF,
		AddRateLimitHeaders: cfg.addHeaders,
		SupportContact:      pol.SupportContact,
	})(h)
	h = admission.ConcurrencyMiddleware(admission.ConcurrencyOptions{
		Max:            cfg.concurrencyMax,
		RejectStatus:   http.StatusServiceUnavailable,
		AcquireTimeout: cfg.concurrencyTimeout,
	})(h)
	if cfg.throttleRPS > 0 {
		h = admission.ThrottleMiddleware(admission.ThrottleOptions{
			Throttle:   infra.NewThrottle(cfg.throttleRPS, cfg.throttleBurst),
			RetryAfter: cfg.throttleRetryAfter,
		})(h)
	}
	h = admission.RequestID(h)

	// /metrics é atendido aqui mesmo, antes do proxy e fora da admissão
	mux := http.NewServeMux()
	if cfg.metricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", h)

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("gateway listening on %s -> %s", cfg.listenAddr, target)
	log.Printf("rate: enabled=%v limit=%d window=%s keyHeader=%q trustXFF=%v", cfg.rateEnabled, cfg.rateLimit, cfg.rateWindow, cfg.rateKeyHeader, cfg.trustXFF)
	log.Printf("throttle: rps=%.3f burst=%d | concurrency: max=%d acquireTimeout=%s", cfg.throttleRPS, cfg.throttleBurst, cfg.concurrencyMax, cfg.concurrencyTimeout)
	log.Printf("stats: backend=%q redisAddr=%q | metrics=%v | policy=%q", cfg.statsBackend, cfg.statsRedisAddr, cfg.metricsEnabled, cfg.policyFile)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

// buildStats monta o destino de estatísticas escolhido. O client redis
// é devolvido para o caller fechar no shutdown.
func buildStats(cfg config) (domain.StatsStore, *redis.Client, error) {
	switch cfg.statsBackend {
	case "none", "":
		return nil, nil, nil
	case "memory":
		return infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.statsTrackKeys)), nil, nil
	case "prometheus":
		s, err := infra.NewPromStatsStore(prometheus.DefaultRegisterer)
		return s, nil, err
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.statsRedisAddr,
			Password: cfg.statsRedisPassword,
			DB:       cfg.statsRedisDB,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}

		s := infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
			infra.WithStatsBucket(cfg.statsBucket),
			infra.WithStatsTrackKeys(cfg.statsTrackKeys),
		)
		return s, rdb, nil
	default:
		return nil, nil, errors.New("STATS_BACKEND must be one of none|memory|redis|prometheus")
	}
}
