package monitoring

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"trojan-bot/internal/utils"
)

// Handler serves /metrics to clients inside allowedCIDRs only.
func Handler(allowedCIDRs []string, logger *zap.Logger) http.Handler {
	nets, invalid := utils.ParseCIDRs(allowedCIDRs)
	for _, c := range invalid {
		logger.Warn("skipping invalid metrics CIDR", zap.String("cidr", c))
	}

	metrics := promhttp.Handler()
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		ip := utils.RemoteIP(r)
		if !utils.IsAllowedIP(ip, nets) {
			logger.Debug("metrics request rejected", zap.String("ip", ip))
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		metrics.ServeHTTP(w, r)
	})
	return mux
}

// Serve runs the metrics endpoint until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server stopped", zap.Error(err))
	}
}
