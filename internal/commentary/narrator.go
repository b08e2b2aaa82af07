package commentary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/wonny/finhealth/internal/contracts"
	"github.com/wonny/finhealth/pkg/config"
)

// ErrEmptyResponse means the model returned no text
var ErrEmptyResponse = errors.New("empty model response")

// generator is the single model call the narrator needs
type generator interface {
	Generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error)
}

type genaiGenerator struct {
	client *genai.Client
}

func (g genaiGenerator) Generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GeminiNarrator writes commentary and narrative reports with a Gemini model
// ⭐ SSOT: LLM 호출은 여기서만 (점수 계산에는 관여하지 않음)
type GeminiNarrator struct {
	gen         generator
	model       string
	temperature float32
	pdfMode     bool
	limiter     *rate.Limiter
	log         zerolog.Logger
}

// NewGeminiNarrator creates a narrator. httpClient may be nil; pass the
// retrying pkg/httputil client to get retries and shared rate limiting.
func NewGeminiNarrator(ctx context.Context, cfg config.AIConfig, httpClient *http.Client, log zerolog.Logger) (*GeminiNarrator, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("commentary: GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return newNarrator(genaiGenerator{client: client}, cfg, log), nil
}

func newNarrator(gen generator, cfg config.AIConfig, log zerolog.Logger) *GeminiNarrator {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 10
	}
	temp := cfg.Temperature
	if temp <= 0 {
		temp = 0.3
	}
	return &GeminiNarrator{
		gen:         gen,
		model:       cfg.Model,
		temperature: float32(temp),
		pdfMode:     cfg.UsePDFMode,
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		log:         log.With().Str("component", "commentary.gemini").Logger(),
	}
}

// Enabled implements contracts.Narrator
func (n *GeminiNarrator) Enabled() bool { return true }

// Model returns the configured model name
func (n *GeminiNarrator) Model() string { return n.model }

// Narrate implements contracts.Narrator
func (n *GeminiNarrator) Narrate(ctx context.Context, req contracts.NarrationRequest) (*contracts.Commentary, error) {
	usePDF := n.pdfMode && len(req.RawPDF) > 0

	var contents []*genai.Content
	if usePDF {
		contents = []*genai.Content{genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(buildPDFPrompt(req)),
			genai.NewPartFromBytes(req.RawPDF, "application/pdf"),
		}, genai.RoleUser)}
	} else {
		contents = genai.Text(buildAnalysisPrompt(req))
	}

	text, err := n.call(ctx, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(n.temperature),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini analysis failed: %w", err)
	}

	c, err := ParseCommentary(text)
	if err != nil {
		n.log.Warn().Err(err).Int("response_len", len(text)).Msg("Unusable commentary response")
		return nil, err
	}
	c.Model = n.model

	n.log.Info().
		Bool("pdf_mode", usePDF).
		Int("strengths", len(c.Strengths)).
		Int("risks", len(c.IdentifiedRisks)).
		Msg("Commentary generated")
	return c, nil
}

// Report writes a markdown narrative for a stored assessment
func (n *GeminiNarrator) Report(ctx context.Context, a *contracts.Assessment, language string) (string, error) {
	prompt, err := buildReportPrompt(a, language)
	if err != nil {
		return "", err
	}

	text, err := n.call(ctx, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(0.5)),
		SystemInstruction: genai.NewContentFromText(reportSystemPrompt(language), genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("gemini report failed: %w", err)
	}
	return CleanMarkdown(text), nil
}

// call waits on the limiter, then runs one generation
func (n *GeminiNarrator) call(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	text, err := n.gen.Generate(ctx, n.model, contents, cfg)
	n.log.Debug().
		Str("model", n.model).
		Dur("duration", time.Since(start)).
		Bool("ok", err == nil).
		Msg("Model call finished")
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// NoopNarrator is used when no API key is configured
type NoopNarrator struct{}

// Enabled implements contracts.Narrator
func (NoopNarrator) Enabled() bool { return false }

// Narrate implements contracts.Narrator; it never produces commentary
func (NoopNarrator) Narrate(context.Context, contracts.NarrationRequest) (*contracts.Commentary, error) {
	return nil, nil
}

// Report returns the template report built from the computed figures
func (NoopNarrator) Report(_ context.Context, a *contracts.Assessment, _ string) (string, error) {
	return FallbackReport(a), nil
}

// Reporter writes narrative reports
type Reporter interface {
	Report(ctx context.Context, a *contracts.Assessment, language string) (string, error)
}

var (
	_ contracts.Narrator = (*GeminiNarrator)(nil)
	_ contracts.Narrator = NoopNarrator{}
	_ Reporter           = (*GeminiNarrator)(nil)
	_ Reporter           = NoopNarrator{}
)
