package di

import (
	"context"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2/futures"

	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/handler/api"
	internalrepo "TradePulse/internal/repository"
	"TradePulse/internal/service/liquidation"
	"TradePulse/internal/service/ratelimit"
	"TradePulse/internal/usecase"
	"TradePulse/pkg/cache"
	pkgch "TradePulse/pkg/clickhouse"
	"TradePulse/pkg/config"
	xhttp "TradePulse/pkg/http"
	pkgkafka "TradePulse/pkg/kafka"
	"TradePulse/pkg/logger"
	"TradePulse/pkg/metrics"
	"TradePulse/pkg/server"
	"TradePulse/pkg/util"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	lc := &logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Format == "" {
		lc.Format = "json"
	}
	if lc.Output == "" {
		lc.Output = "stdout"
	}
	return logger.New(lc)
}

// ProvideCache creates the Redis-backed cache service.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	opts := []cache.RedisOption{
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisDB(cfg.Redis.DB),
	}
	if cfg.Redis.Port > 0 {
		opts = append(opts, cache.WithRedisPort(cfg.Redis.Port))
	}
	if cfg.Redis.Password != "" {
		opts = append(opts, cache.WithRedisPassword(cfg.Redis.Password))
	}
	if cfg.Redis.Prefix != "" {
		opts = append(opts, cache.WithRedisPrefix(cfg.Redis.Prefix))
	}
	c, err := cache.NewRedisCache(opts...)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideStateStore adapts the cache to the domain state store.
func ProvideStateStore(c cache.Service) domrepo.StateStore {
	return internalrepo.NewCacheStateStore(c)
}

// ProvideBinanceClient creates the futures REST client.
func ProvideBinanceClient(cfg *config.Config) *futures.Client {
	return futures.NewClient(cfg.Binance.APIKey, cfg.Binance.SecretKey)
}

// ProvideMarketData creates the market data repository.
func ProvideMarketData(client *futures.Client) domrepo.MarketData {
	return internalrepo.NewBinanceMarketData(client)
}

// ProvideLiquidationFeed exposes collector snapshots to the evaluator.
func ProvideLiquidationFeed(store domrepo.StateStore) domrepo.LiquidationFeed {
	return internalrepo.NewStateLiquidationFeed(store)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideKafkaProducer creates a Kafka producer when publishing is enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher creates the Kafka signal publisher.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.SignalPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)
}

// ProvideClickHouseClient creates a ClickHouse client when history is enabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := make([]string, 0, 2)
	if cfg.ClickHouse.Database != "" {
		stmts = append(stmts, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.ClickHouse.Database))
	}
	stmts = append(stmts, internalrepo.SignalsSchema(signalsTable(cfg))...)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideSignalHistory creates the ClickHouse history sink.
func ProvideSignalHistory(client *pkgch.Client, cfg *config.Config) domrepo.SignalHistory {
	if client == nil {
		return nil
	}
	return internalrepo.NewClickHouseSignalHistory(client.DB(), signalsTable(cfg))
}

// ProvideLimiter creates the per-symbol evaluation rate limiter.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideEvaluator wires the full evaluation pipeline.
func ProvideEvaluator(
	market domrepo.MarketData,
	store domrepo.StateStore,
	liq domrepo.LiquidationFeed,
	publisher domrepo.SignalPublisher,
	history domrepo.SignalHistory,
	m domrepo.Metrics,
	limiter *ratelimit.Limiter,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.Evaluator {
	return usecase.NewEvaluator(market, store, liq, publisher, history, m, limiter, log, usecase.Config{
		Interval:            cfg.Binance.Interval,
		CandleLimit:         cfg.Binance.CandleLimit,
		MinConfidence:       cfg.Engine.MinConfidence,
		TickSize:            cfg.Engine.TickSize,
		ConfirmedCooldown:   cfg.Engine.ConfirmedCooldown,
		InvalidatedCooldown: cfg.Engine.InvalidatedCooldown,
		EvalRatePerSec:      cfg.Engine.EvalRatePerSec,
		EvalBurst:           cfg.Engine.EvalBurst,
	})
}

// ProvideBatchUseCase creates the batch fan-out use case.
func ProvideBatchUseCase(eval *usecase.Evaluator) *usecase.BatchUseCase {
	return usecase.NewBatchUseCase(eval)
}

// ProvideHandler creates the HTTP handler with the configured watchlist.
func ProvideHandler(log *logger.Logger, batch *usecase.BatchUseCase, eval *usecase.Evaluator, cfg *config.Config) xhttp.Handler {
	watchlist := make([]string, 0, len(cfg.Binance.Symbols))
	for _, s := range cfg.Binance.Symbols {
		if sym := util.NormalizeSymbol(s); sym != "" {
			watchlist = append(watchlist, sym)
		}
	}
	return api.NewSignalsEchoHandler(log, batch, eval, watchlist)
}

// ProvideCollector creates the liquidation stream collector.
func ProvideCollector(store domrepo.StateStore, m domrepo.Metrics, log *logger.Logger, cfg *config.Config) *liquidation.Collector {
	if !cfg.Liquidation.Enabled {
		return nil
	}
	return liquidation.NewCollector(store, m, log,
		liquidation.WithStreamURL(cfg.Liquidation.StreamURL),
		liquidation.WithWindow(cfg.Liquidation.Window),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler xhttp.Handler,
	collector *liquidation.Collector,
	chClient *pkgch.Client,
	publisher domrepo.SignalPublisher,
) *server.App {
	return server.New(cfg, log, handler, collector, chClient, publisher)
}

func signalsTable(cfg *config.Config) string {
	table := cfg.ClickHouse.Table
	if table == "" {
		table = "signals"
	}
	if cfg.ClickHouse.Database != "" {
		return cfg.ClickHouse.Database + "." + table
	}
	return table
}
