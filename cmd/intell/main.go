package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/intell/internal/config"
	"github.com/kailas-cloud/intell/internal/db/elastic"
	dbRedis "github.com/kailas-cloud/intell/internal/db/redis"
	"github.com/kailas-cloud/intell/internal/instant"
	logpkg "github.com/kailas-cloud/intell/internal/logger"
	"github.com/kailas-cloud/intell/internal/metrics"
	"github.com/kailas-cloud/intell/internal/repository/cache"
	pagerepo "github.com/kailas-cloud/intell/internal/repository/page"
	querylogrepo "github.com/kailas-cloud/intell/internal/repository/querylog"
	searchrepo "github.com/kailas-cloud/intell/internal/repository/search"
	"github.com/kailas-cloud/intell/internal/safety"
	chiTransport "github.com/kailas-cloud/intell/internal/transport/chi"
	healthuc "github.com/kailas-cloud/intell/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/intell/internal/usecase/indexing"
	searchuc "github.com/kailas-cloud/intell/internal/usecase/search"
	"github.com/kailas-cloud/intell/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, "intell", cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting intell API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index", cfg.Elasticsearch.Index),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	metrics.RegisterDomainMetrics()

	engine, err := elastic.NewStore(elastic.Config{
		Addrs:    cfg.Elasticsearch.Addrs,
		Username: cfg.Elasticsearch.Username,
		Password: cfg.Elasticsearch.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create elasticsearch store", zap.Error(err))
	}
	defer engine.Close()

	ctx := context.Background()
	readiness := time.Duration(cfg.Elasticsearch.ReadinessTimeout) * time.Second
	if err := engine.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Elasticsearch not ready", zap.Error(err))
	}
	logger.Info("Connected to elasticsearch")

	pages := pagerepo.New(engine, cfg.Elasticsearch.Index)
	queryLog := querylogrepo.New(engine, cfg.Elasticsearch.LogIndex)
	if err := pages.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure page index", zap.Error(err))
	}
	if err := queryLog.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure query log index", zap.Error(err))
	}
	search := searchrepo.New(engine, cfg.Elasticsearch.Index)

	var (
		suggester searchuc.Suggester   = search
		trends    searchuc.TrendSource = queryLog
		// Pass nil interface (not typed nil pointer) when no cache is configured.
		cachePinger healthuc.Pinger
	)
	if cfg.Cache.Driver == config.CacheRedis {
		kv, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer kv.Close()

		cached := cache.New(search, queryLog, kv, cfg.Cache.TTL(), metrics.CacheTotal, logger)
		suggester, trends, cachePinger = cached, cached, kv
		logger.Info("Suggest/trending cache enabled", zap.Duration("ttl", cfg.Cache.TTL()))
	}

	classifier := safety.New(cfg.Safety.Lexicon)
	searchSvc := searchuc.New(search, suggester, trends, queryLog, instant.New(time.Now))
	indexSvc := indexinguc.New(pages, classifier)
	healthSvc := healthuc.New(engine, cachePinger)

	server := chiTransport.NewServer(searchSvc, indexSvc, healthSvc)
	if cfg.Auth.IndexAPIKey == "" {
		logger.Warn("auth.index_api_key is empty, POST /index-page will refuse every request")
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.IndexAPIKey, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	// Query log writes are detached from requests; let them finish.
	searchSvc.Wait()

	logger.Info("Server stopped gracefully")
}
