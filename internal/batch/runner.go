package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/finhealth/internal/assessment"
	"github.com/wonny/finhealth/internal/contracts"
	"github.com/wonny/finhealth/internal/ingest"
)

// FileParser turns one statement file into financials
type FileParser interface {
	Parse(ctx context.Context, filename string, content []byte) (*ingest.ParsedDocument, error)
}

// Assessor scores merged financials
type Assessor interface {
	Assess(ctx context.Context, in assessment.Input) (*contracts.Assessment, error)
}

// Result is the outcome for one manifest entry
type Result struct {
	Name       string                       `json:"name"`
	Reports    []contracts.ExtractionReport `json:"extraction_reports,omitempty"`
	Assessment *contracts.Assessment        `json:"assessment,omitempty"`
	Error      string                       `json:"error,omitempty"`
	Duration   time.Duration                `json:"duration"`
}

// Runner assesses manifest entries on a bounded worker pool
type Runner struct {
	parser   FileParser
	assessor Assessor
	baseDir  string
	log      zerolog.Logger
}

// NewRunner creates a runner. Relative file paths resolve against baseDir,
// normally the manifest's directory.
func NewRunner(parser FileParser, assessor Assessor, baseDir string, log zerolog.Logger) *Runner {
	return &Runner{
		parser:   parser,
		assessor: assessor,
		baseDir:  baseDir,
		log:      log.With().Str("component", "batch.runner").Logger(),
	}
}

// Run assesses every entry. Results keep manifest order; a failing entry
// records its error and does not stop the others.
func (r *Runner) Run(ctx context.Context, m *Manifest, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = m.Concurrency
	}
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]Result, len(m.Businesses))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, entry := range m.Businesses {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, entry Entry) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.runEntry(ctx, entry, m.Defaults)
		}(i, entry)
	}
	wg.Wait()

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
	}
	r.log.Info().
		Str("manifest", m.Name).
		Int("entries", len(results)).
		Int("failed", failed).
		Msg("Batch run completed")
	return results
}

func (r *Runner) runEntry(ctx context.Context, entry Entry, defaults Defaults) Result {
	start := time.Now()
	res := Result{Name: entry.Name}

	in, reports, err := r.load(ctx, entry, defaults)
	res.Reports = reports
	if err == nil {
		res.Assessment, err = r.assessor.Assess(ctx, in)
	}
	if err != nil {
		res.Error = err.Error()
		r.log.Warn().Err(err).Str("business", entry.Name).Msg("Batch entry failed")
	}
	res.Duration = time.Since(start)
	return res
}

// load parses and merges an entry's files
func (r *Runner) load(ctx context.Context, entry Entry, defaults Defaults) (assessment.Input, []contracts.ExtractionReport, error) {
	in := assessment.Input{Business: entry.Meta(defaults)}
	reports := make([]contracts.ExtractionReport, 0, len(entry.Files))

	for _, name := range entry.Files {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.baseDir, path)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return in, reports, fmt.Errorf("read %s: %w", name, err)
		}
		doc, err := r.parser.Parse(ctx, filepath.Base(path), content)
		if err != nil {
			return in, reports, fmt.Errorf("parse %s: %w", name, err)
		}
		in.Financials = in.Financials.Merge(doc.Financials)
		if in.RawPDF == nil && len(doc.RawPDF) > 0 {
			in.RawPDF = doc.RawPDF
		}
		reports = append(reports, doc.Report)
	}
	return in, reports, nil
}
