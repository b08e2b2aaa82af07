package commands

import (
	"context"
	"fmt"

	"github.com/wonny/finhealth/internal/assessment"
	"github.com/wonny/finhealth/internal/commentary"
	"github.com/wonny/finhealth/internal/contracts"
	"github.com/wonny/finhealth/internal/ingest"
	"github.com/wonny/finhealth/internal/queue"
	"github.com/wonny/finhealth/internal/storage"
	"github.com/wonny/finhealth/pkg/config"
	"github.com/wonny/finhealth/pkg/database"
	"github.com/wonny/finhealth/pkg/httputil"
	"github.com/wonny/finhealth/pkg/logger"
	"github.com/wonny/finhealth/pkg/redis"
)

// app holds the dependencies shared by the long-running commands
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	redis   *redis.Client
	cache   *redis.Cache
	limiter *redis.RateLimiter

	businesses   *storage.BusinessRepository
	financials   *storage.FinancialRepository
	assessments  *storage.AssessmentRepository
	transactions *storage.TransactionRepository

	parser   *ingest.Parser
	narrator *commentary.GeminiNarrator
	service  *assessment.Service
	queue    *queue.AnalysisQueue
}

// loadConfig loads config and applies the global flags
func loadConfig(offline bool) (*config.Config, error) {
	load := config.Load
	if offline {
		load = config.LoadForCLI
	}
	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newApp connects to Postgres and Redis and builds the assessment stack.
// The analysis queue is attached separately with withQueue.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(false)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("Connected to database")

	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	if rdb.Enabled() {
		log.Info("Connected to redis")
	}

	a := &app{
		cfg:          cfg,
		log:          log,
		db:           db,
		redis:        rdb,
		cache:        redis.NewCache(rdb, "finhealth"),
		limiter:      redis.NewRateLimiter(rdb, "finhealth"),
		businesses:   storage.NewBusinessRepository(db.Pool),
		financials:   storage.NewFinancialRepository(db.Pool),
		assessments:  storage.NewAssessmentRepository(db.Pool),
		transactions: storage.NewTransactionRepository(db.Pool),
		parser:       ingest.NewParser(cfg.Upload.MaxBytes(), log.Zerolog()),
	}

	if cfg.AI.Enabled() {
		httpClient := httputil.New(cfg, log).
			WithRateLimiter(a.limiter, redis.GeminiRateLimit(cfg.AI.RequestsPerMinute))
		a.narrator, err = commentary.NewGeminiNarrator(ctx, cfg.AI, httpClient.HTTPClient(), log.Zerolog())
		if err != nil {
			a.Close()
			return nil, err
		}
		log.WithField("model", a.narrator.Model()).Info("Commentary enabled")
	}

	a.service = assessment.NewService(a.parser, a.Narrator(), a.cache, log.Zerolog()).
		WithCacheTTL(cfg.Redis.AssessmentTTL).
		WithNarrationTimeout(cfg.AI.Timeout)

	return a, nil
}

// withQueue attaches the analysis queue. publisher may be nil.
func (a *app) withQueue(publisher queue.Publisher) *app {
	runner := queue.NewRunner(a.businesses, a.financials, a.assessments, a.transactions, a.service)
	a.queue = queue.NewAnalysisQueue(a.db.Pool, runner, publisher, a.cfg.Worker, a.log.WithComponent("queue"))
	return a
}

// eventPublisher sends events to Redis when it is enabled
func (a *app) eventPublisher() queue.Publisher {
	if !a.redis.Enabled() {
		return nil
	}
	return queue.NewRedisPublisher(a.redis)
}

// Narrator returns the configured narrator or a disabled one
func (a *app) Narrator() contracts.Narrator {
	if a.narrator == nil {
		return commentary.NoopNarrator{}
	}
	return a.narrator
}

// Reporter returns the narrative report writer, nil when commentary is off
func (a *app) Reporter() commentary.Reporter {
	if a.narrator == nil {
		return nil
	}
	return a.narrator
}

// Close releases connections
func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
