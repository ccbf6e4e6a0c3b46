package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"songdrop/cmd/fx/config_fx"
	"songdrop/cmd/fx/controllers_fx"
	"songdrop/cmd/fx/db_fx"
	"songdrop/cmd/fx/download_fx"
	"songdrop/cmd/fx/logger_fx"
	"songdrop/cmd/fx/memcache_fx"
	"songdrop/cmd/fx/notify_fx"
	"songdrop/cmd/fx/payment_service_fx"
	"songdrop/cmd/fx/storage_fx"
	"songdrop/internal/api/controllers"
	"songdrop/internal/config"
	"songdrop/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		storage_fx.Module,
		notify_fx.Module,
		download_fx.Module,
		payment_service_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreMode()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

func ProvideRouter(
	cfg config.Config,
	log *zap.Logger,
	downloadController *controllers.DownloadController,
	paymentController *controllers.PaymentController,
	healthController *controllers.HealthController) *gin.Engine {

	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(middleware.RecoveryMiddleware(log))
	r.Use(middleware.MetricsMiddleware())

	RegisterRoutes(r, downloadController, paymentController, healthController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	downloadController *controllers.DownloadController,
	paymentController *controllers.PaymentController,
	healthController *controllers.HealthController) {

	downloadGroup := r.Group("/secure-download",
		middleware.CORSMiddleware([]string{http.MethodGet, http.MethodOptions}, middleware.DefaultAllowedHeaders))
	downloadGroup.GET("", downloadController.SecureDownload)
	downloadGroup.OPTIONS("", controllers.Preflight)

	webhookGroup := r.Group("/stripe-webhook",
		middleware.CORSMiddleware([]string{http.MethodPost, http.MethodOptions}, middleware.DefaultAllowedHeaders+", stripe-signature"))
	webhookGroup.POST("", paymentController.HandleWebhook)
	webhookGroup.OPTIONS("", controllers.Preflight)

	r.GET("/healthz", healthController.Liveness)
	r.GET("/readyz", healthController.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
