package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stock-news-advisor/internal/advisor"
	"stock-news-advisor/internal/logger"
	"stock-news-advisor/internal/news"
	"stock-news-advisor/internal/prices"
	"stock-news-advisor/internal/quota"
	"stock-news-advisor/internal/recorder"
	"stock-news-advisor/internal/scheduler"
	"stock-news-advisor/internal/sentiment"
	"stock-news-advisor/internal/server"
	"stock-news-advisor/internal/store"
	"stock-news-advisor/internal/trend"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	cfg, err := store.LoadConfig("config.yaml")
	must(err)
	must(logger.Init())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracker := quota.NewTracker(quota.Limits{
		MaxPerMinute:  cfg.Quota.MaxRequestsPerMinute,
		MaxPerDay:     cfg.Quota.MaxRequestsPerDay,
		AllowFallback: cfg.AllowFallback(),
	})

	classifier, err := sentiment.NewClassifier(cfg)
	must(err)

	engine := trend.New(prices.NewYahooProvider(cfg.Prices), trend.Config{
		ShortWindow:     cfg.Trend.ShortWindow,
		LongWindow:      cfg.Trend.LongWindow,
		RSIPeriod:       cfg.Trend.RSIPeriod,
		MinTrainingRows: cfg.Trend.MinTrainingRows,
	})

	pipeline := advisor.NewPipeline(tracker, classifier, engine)

	rec, err := recorder.New(cfg.Recorder)
	must(err)
	defer rec.Close()

	service := advisor.NewService(pipeline, news.NewFeedSource(cfg.Feed), rec)

	sched := scheduler.New(ctx, service)
	must(sched.Register(cfg.Schedule.Cron))
	sched.Start()

	srv := server.NewHTTPServer(cfg.Server.Addr,
		server.New(pipeline, service, tracker).Handler())

	go func() {
		logger.Info(ctx, "Server listening", "addr", cfg.Server.Addr, "backend", classifier.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "Server stopped", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "Server shutdown failed", err)
	}
	sched.Stop()
	_ = logger.Shutdown(shutdownCtx)
}
