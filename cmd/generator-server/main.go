package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"nutri-meal-planner/internal/app"
	"nutri-meal-planner/internal/config"
	"nutri-meal-planner/internal/database"
	"nutri-meal-planner/internal/metrics"
	"nutri-meal-planner/internal/server"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ConfigureLogger(); err != nil {
		logrus.Fatalf("Failed to configure logger: %v", err)
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	collectors := metrics.NewCollectors()
	svc, closeFn, err := app.NewGeneratorService(context.Background(), cfg, metrics.NewStore(db.SQL), collectors)
	if err != nil {
		logrus.Fatalf("Failed to initialize generator: %v", err)
	}
	if closeFn != nil {
		defer closeFn()
	}

	apiSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.New(svc, collectors, cfg.DatabasePath).Handler(),
	}
	metricsSrv := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: collectors.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for name, srv := range map[string]*http.Server{"api": apiSrv, "metrics": metricsSrv} {
		g.Go(func() error {
			logrus.WithFields(logrus.Fields{"server": name, "addr": srv.Addr}).Info("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("Shutting down servers...")

		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Join(apiSrv.Shutdown(ctxShutdown), metricsSrv.Shutdown(ctxShutdown))
	})

	if err := g.Wait(); err != nil {
		logrus.Errorf("Server stopped with error: %v", err)
		return
	}
	logrus.Info("Server exiting")
}
