// Package app is the composition root shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ashokkumar81090/Hackathon/internal/config"
	"github.com/ashokkumar81090/Hackathon/internal/db"
	"github.com/ashokkumar81090/Hackathon/internal/db/memory"
	dbRedis "github.com/ashokkumar81090/Hackathon/internal/db/redis"
	"github.com/ashokkumar81090/Hackathon/internal/domain"
	"github.com/ashokkumar81090/Hackathon/internal/domain/search/request"
	"github.com/ashokkumar81090/Hackathon/internal/metrics"
	"github.com/ashokkumar81090/Hackathon/internal/preprocess"
	"github.com/ashokkumar81090/Hackathon/internal/repository/embcache"
	increpo "github.com/ashokkumar81090/Hackathon/internal/repository/incident"
	searchrepo "github.com/ashokkumar81090/Hackathon/internal/repository/search"
	chiTransport "github.com/ashokkumar81090/Hackathon/internal/transport/chi"
	mcpTransport "github.com/ashokkumar81090/Hackathon/internal/transport/mcp"
	openaiTransport "github.com/ashokkumar81090/Hackathon/internal/transport/openai"
	answeruc "github.com/ashokkumar81090/Hackathon/internal/usecase/answer"
	embeddinguc "github.com/ashokkumar81090/Hackathon/internal/usecase/embedding"
	healthuc "github.com/ashokkumar81090/Hackathon/internal/usecase/health"
	ingestuc "github.com/ashokkumar81090/Hackathon/internal/usecase/ingest"
	searchuc "github.com/ashokkumar81090/Hackathon/internal/usecase/search"
)

// Options replace external dependencies, mainly for tests and local runs.
type Options struct {
	Store    db.Store             // overrides database.driver
	Embedder domain.Embedder      // overrides the OpenAI embedder
	Chat     domain.ChatCompleter // overrides the OpenAI chat client
}

// App holds the wired services.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Store     db.Store
	Incidents *increpo.Repo
	Weights   *searchuc.WeightStore
	Search    *searchuc.Service
	Answer    *answeruc.Service
	Ingest    *ingestuc.Service
	Health    *healthuc.Service

	ownsStore bool
}

// New connects to the database and wires every service.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.RegisterSearchMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterChatMetrics()

	store, owned := opts.Store, false
	if store == nil {
		var err error
		if store, err = openStore(ctx, cfg, logger); err != nil {
			return nil, err
		}
		owned = true
	}
	release := func() {
		if owned {
			store.Close()
		}
	}

	base := opts.Embedder
	if base == nil {
		base = openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   cfg.Embedding.Provider,
			Logger:     logger,
		})
	}
	queryEmbedder, err := buildEmbedder(base, cfg, store, cfg.Embedding.QueryInstruction, true, logger)
	if err != nil {
		release()
		return nil, err
	}
	docEmbedder, err := buildEmbedder(base, cfg, store, cfg.Embedding.DocumentInstruction, false, logger)
	if err != nil {
		release()
		return nil, err
	}

	chat := opts.Chat
	if chat == nil {
		chat = newChat(cfg, logger)
	}

	pre, err := preprocess.Load(cfg.Preprocess.DictionaryPath)
	if err != nil {
		release()
		return nil, fmt.Errorf("load abbreviation dictionary: %w", err)
	}

	weights, err := searchuc.NewWeightStore(searchuc.Weights{
		Vector:  cfg.Search.VectorWeight,
		Keyword: cfg.Search.KeywordWeight,
	})
	if err != nil {
		release()
		return nil, err
	}
	if msg := cfg.WeightsSumWarning(); msg != "" {
		logger.Warn(msg)
	}

	schema := increpo.Schema{
		IndexName:  cfg.Index.Name,
		KeyPrefix:  cfg.Index.KeyPrefix,
		Dimensions: cfg.Embedding.Dimensions,
		HNSW:       increpo.HNSWConfig{M: cfg.Index.HNSWM, EFConstruct: cfg.Index.HNSWEFConstruct},
	}
	incidents := increpo.New(store, schema)

	searchSvc := searchuc.New(
		searchrepo.NewKeyword(store, schema),
		searchrepo.NewVector(store, queryEmbedder, schema, cfg.Index.EFRuntime),
		pre,
		weights,
		searchuc.Config{
			CandidateMultiplier: cfg.Search.CandidateMultiplier,
			AdapterTimeout:      cfg.Search.AdapterTimeout(),
		},
		logger,
	)

	ingestSvc, err := ingestuc.New(incidents, docEmbedder, cfg.Ingest.Workers, logger)
	if err != nil {
		release()
		return nil, fmt.Errorf("create ingest pool: %w", err)
	}

	var embCheck healthuc.ProviderChecker
	if hc, ok := base.(domain.HealthChecker); ok {
		embCheck = hc
	}

	logger.Info("Services wired",
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("index", schema.IndexName),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.Int("dimensions", schema.Dimensions),
		zap.String("chat_model", chat.Model()),
		zap.Int("abbreviations", pre.Size()),
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Incidents: incidents,
		Weights:   weights,
		Search:    searchSvc,
		Answer:    answeruc.New(searchSvc, chat, logger),
		Ingest:    ingestSvc,
		Health:    healthuc.New(store, incidents, embCheck, logger),
		ownsStore: owned,
	}, nil
}

// Close releases the worker pool and the database connection.
// A store passed in through Options stays open.
func (a *App) Close() {
	a.Ingest.Release()
	if a.ownsStore {
		a.Store.Close()
	}
}

// Limits are the configured topK bounds.
func (a *App) Limits() request.Limits {
	return request.Limits{DefaultTopK: a.Config.Search.DefaultTopK, MaxTopK: a.Config.Search.MaxTopK}
}

// HTTPServer builds the HTTP API over the wired services.
func (a *App) HTTPServer() *chiTransport.Server {
	return chiTransport.NewServer(chiTransport.Deps{
		Search:          a.Search,
		Answer:          a.Answer,
		Ingest:          a.Ingest,
		Index:           a.Incidents,
		Health:          a.Health,
		Weights:         a.Weights,
		Limits:          a.Limits(),
		IngestBatchSize: a.Config.Ingest.BatchSize,
		APIKeys:         a.Config.Auth.APIKeys,
		Logger:          a.Logger,
	})
}

// MCPServer builds the MCP tool server over the wired services.
func (a *App) MCPServer() *mcpTransport.Server {
	return mcpTransport.NewServer(a.Search, a.Answer, a.Limits(), a.Logger)
}

// WatchWeights applies hybrid weight changes from configPath without a restart.
// Other settings in the file only take effect on the next start.
func (a *App) WatchWeights(ctx context.Context, configPath string, opts ...config.WatchOption) error {
	return config.Watch(ctx, configPath, a.Logger, func(cfg config.Config) {
		next := searchuc.Weights{Vector: cfg.Search.VectorWeight, Keyword: cfg.Search.KeywordWeight}
		if next == a.Weights.Load() {
			return
		}
		if err := a.Weights.Set(next); err != nil {
			a.Logger.Warn("Rejected reloaded weights", zap.Error(err))
			return
		}
		log := a.Logger.With(zap.Float64("vector", next.Vector), zap.Float64("keyword", next.Keyword))
		if msg := next.SumWarning(); msg != "" {
			log.Warn("Hybrid weights reloaded", zap.String("warning", msg))
			return
		}
		log.Info("Hybrid weights reloaded")
	}, opts...)
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (db.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Info("Using in-process store; data is lost on exit")
		return memory.NewStore(), nil
	case config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			URL:        cfg.Database.URL,
			Addrs:      cfg.Database.Addrs,
			Password:   cfg.Database.Password,
			TextScorer: cfg.Database.TextScorer,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		logger.Info("Connected to database",
			zap.Strings("addrs", cfg.Database.Addrs),
			zap.Bool("from_url", cfg.Database.URL != ""))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// buildEmbedder assembles the decorator chain:
// provider -> KV cache (redis only) -> LRU (queries only) -> instrumented -> instruction.
// The instruction is outermost so cache keys include it.
func buildEmbedder(
	base domain.Embedder,
	cfg config.Config,
	store db.Store,
	instruction string,
	withLRU bool,
	logger *zap.Logger,
) (domain.Embedder, error) {
	embedder := base
	if cfg.Embedding.RedisCache && cfg.Database.Driver == config.DriverRedis {
		embedder = embcache.NewKV(embedder, store, embcache.KVOptions{
			Model: cfg.Embedding.Model,
			TTL:   time.Duration(cfg.Embedding.CacheTTLHours) * time.Hour,
		}, metrics.EmbeddingCacheTotal, logger)
	}
	if withLRU {
		lru, err := embcache.NewLRU(embedder, cfg.Embedding.CacheSize, cfg.Embedding.Model, metrics.EmbeddingCacheTotal)
		if err != nil {
			return nil, fmt.Errorf("create embedding lru: %w", err)
		}
		embedder = lru
	}
	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Embedding.Provider, cfg.Embedding.Model, logger)
	return domain.WithInstruction(embedder, instruction), nil
}

// newChat reuses the embedding credentials when chat has none of its own.
func newChat(cfg config.Config, logger *zap.Logger) *openaiTransport.Chat {
	apiKey, baseURL := cfg.Chat.APIKey, cfg.Chat.BaseURL
	if apiKey == "" {
		apiKey, baseURL = cfg.Embedding.APIKey, cfg.Embedding.BaseURL
	}
	return openaiTransport.NewChat(&openaiTransport.ChatConfig{
		Config: openaiTransport.Config{
			APIKey:   apiKey,
			BaseURL:  baseURL,
			Model:    cfg.Chat.Model,
			Provider: cfg.Embedding.Provider,
			Logger:   logger,
		},
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
	})
}
