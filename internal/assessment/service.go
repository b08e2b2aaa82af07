package assessment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/finhealth/internal/analysis"
	"github.com/wonny/finhealth/internal/contracts"
	"github.com/wonny/finhealth/internal/ingest"
	"github.com/wonny/finhealth/pkg/redis"
)

// Input is everything one assessment run needs
type Input struct {
	BusinessID      int64                   `json:"business_id,omitempty"`
	FiscalYear      int                     `json:"fiscal_year,omitempty"`
	Financials      contracts.Financials    `json:"financials"`
	Business        contracts.BusinessMeta  `json:"business"`
	RevenueHistory  []float64               `json:"revenue_history,omitempty"`
	CashFlowHistory []float64               `json:"cash_flow_history,omitempty"`
	Transactions    []contracts.Transaction `json:"transactions,omitempty"`

	// RawPDF is only handed to the narrator
	RawPDF []byte `json:"-"`
}

// Service runs the full assessment pipeline
// ⭐ SSOT: 비율 → 신용 → 건강 → 예측 → 비용 → 운전자본 → 현금흐름 → 코멘터리 순서는 여기서만
type Service struct {
	parser           *ingest.Parser
	ratios           *analysis.RatioCalculator
	narrator         contracts.Narrator
	cache            *redis.Cache
	cacheTTL         time.Duration
	narrationTimeout time.Duration
	now              func() time.Time
	log              zerolog.Logger
}

// NewService creates a service. narrator and cache may be nil.
func NewService(parser *ingest.Parser, narrator contracts.Narrator, cache *redis.Cache, log zerolog.Logger) *Service {
	return &Service{
		parser:           parser,
		ratios:           analysis.NewRatioCalculator(log),
		narrator:         narrator,
		cache:            cache,
		cacheTTL:         redis.TTLDaily,
		narrationTimeout: 60 * time.Second,
		now:              time.Now,
		log:              log.With().Str("component", "assessment.service").Logger(),
	}
}

// WithCacheTTL sets how long computed assessments stay cached
func (s *Service) WithCacheTTL(ttl time.Duration) *Service {
	s.cacheTTL = ttl
	return s
}

// WithNarrationTimeout bounds the commentary call
func (s *Service) WithNarrationTimeout(d time.Duration) *Service {
	s.narrationTimeout = d
	return s
}

// WithClock replaces the time source
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Assess computes the deterministic scores, then adds commentary when a
// narrator is enabled. A commentary failure never fails the assessment.
func (s *Service) Assess(ctx context.Context, in Input) (*contracts.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := s.now()

	key, err := cacheKey(in, now)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		var cached contracts.Assessment
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("Assessment cache read failed")
		} else if found {
			s.log.Debug().Str("key", key).Msg("Assessment cache hit")
			return &cached, nil
		}
	}

	a := s.Compute(in, now)
	s.narrate(ctx, a, in)

	// failed commentary is retried on the next call, so it is not cached
	if s.cache != nil && a.CommentaryStatus != contracts.CommentaryFailed {
		if err := s.cache.Set(ctx, key, a, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("Assessment cache write failed")
		}
	}

	s.log.Info().
		Int64("business_id", in.BusinessID).
		Int("fiscal_year", in.FiscalYear).
		Float64("credit_score", a.Credit.Score).
		Str("rating", string(a.Credit.Rating)).
		Float64("health", a.Health.Overall).
		Str("commentary", a.CommentaryStatus).
		Msg("Assessment completed")

	return a, nil
}

// Compute runs the deterministic pipeline only
func (s *Service) Compute(in Input, now time.Time) *contracts.Assessment {
	f := in.Financials
	ratios := s.ratios.Compute(f)

	a := &contracts.Assessment{
		BusinessID:          in.BusinessID,
		FiscalYear:          in.FiscalYear,
		AssessedAt:          now.UTC(),
		Financials:          f,
		Ratios:              ratios,
		Credit:              analysis.ScoreCredit(f, ratios, in.Business, now),
		Health:              analysis.ScoreHealth(ratios),
		Forecast:            analysis.BuildForecast(in.RevenueHistory, in.CashFlowHistory),
		CostRecommendations: analysis.FindOpportunities(f),
		WorkingCapital:      analysis.WorkingCapital(f),
		CommentaryStatus:    contracts.CommentaryDisabled,
	}
	if len(in.Transactions) > 0 {
		p := analysis.AnalyzeCashFlowPattern(in.Transactions)
		a.CashFlowPattern = &p
	}
	return a
}

func (s *Service) narrate(ctx context.Context, a *contracts.Assessment, in Input) {
	if s.narrator == nil || !s.narrator.Enabled() {
		return
	}

	nctx, cancel := context.WithTimeout(ctx, s.narrationTimeout)
	defer cancel()

	c, err := s.narrator.Narrate(nctx, contracts.NarrationRequest{
		Business:   in.Business,
		Financials: a.Financials,
		Ratios:     a.Ratios,
		Credit:     a.Credit,
		Health:     a.Health,
		Forecast:   a.Forecast,
		RawPDF:     in.RawPDF,
	})
	switch {
	case err != nil:
		s.log.Warn().Err(err).Int64("business_id", in.BusinessID).Msg("Commentary failed")
		a.CommentaryStatus = contracts.CommentaryFailed
	case c == nil:
		a.CommentaryStatus = contracts.CommentaryDisabled
	default:
		a.Commentary = c
		a.CommentaryStatus = contracts.CommentaryDone
	}
}

// ParseAndAssess parses one upload and assesses its figures as a single period
func (s *Service) ParseAndAssess(ctx context.Context, filename string, content []byte, meta contracts.BusinessMeta) (*ingest.ParsedDocument, *contracts.Assessment, error) {
	if s.parser == nil {
		return nil, nil, fmt.Errorf("assessment service has no parser")
	}
	doc, err := s.parser.Parse(ctx, filename, content)
	if err != nil {
		return nil, nil, err
	}

	a, err := s.Assess(ctx, Input{
		Financials: doc.Financials,
		Business:   meta,
		RawPDF:     doc.RawPDF,
	})
	if err != nil {
		return doc, nil, err
	}
	return doc, a, nil
}

// cacheKey digests the input plus the reference year, which drives business maturity
func cacheKey(in Input, now time.Time) (string, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshal assessment input: %w", err)
	}
	h := sha256.New()
	h.Write(data)
	fmt.Fprintf(h, "|year=%d", now.Year())
	if len(in.RawPDF) > 0 {
		h.Write(in.RawPDF)
	}
	return redis.AssessmentKey(hex.EncodeToString(h.Sum(nil))), nil
}
