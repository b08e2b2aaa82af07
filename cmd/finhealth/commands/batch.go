package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wonny/finhealth/internal/batch"
	"github.com/wonny/finhealth/pkg/logger"
)

// batchCmd assesses every business in a manifest
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Assess a portfolio of businesses from a manifest",
	Long: `Reads a YAML (.yaml/.yml) or HJSON (.hjson/.json) manifest listing
businesses and their statement files, assesses them on a worker pool and
prints a summary. Unknown manifest fields are rejected. File paths are
relative to the manifest.

Manifest:
  name: q3-portfolio
  concurrency: 4
  defaults:
    industry: retail
  businesses:
    - name: acme
      established_year: 2016
      files: [acme/profit_loss.csv, acme/balance_sheet.csv]

Example:
  go run ./cmd/finhealth batch portfolio.yaml
  go run ./cmd/finhealth batch portfolio.hjson --output results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	batchConcurrency int
	batchOutput      string
	batchCommentary  bool
)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "worker pool size (default from manifest, then 4)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write full JSON results to this file")
	batchCmd.Flags().BoolVar(&batchCommentary, "commentary", false, "add LLM commentary when GEMINI_API_KEY is set")
}

// batchOutputFile is the JSON document written by --output
type batchOutputFile struct {
	Manifest string         `json:"manifest"`
	Hash     string         `json:"manifest_hash"`
	Results  []batch.Result `json:"results"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	m, _, err := batch.Load(path)
	if err != nil {
		return err
	}
	hash, err := batch.Hash(m)
	if err != nil {
		return err
	}
	if batchConcurrency < 0 || batchConcurrency > batch.MaxConcurrency {
		return fmt.Errorf("--concurrency must be in [0, %d]", batch.MaxConcurrency)
	}

	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	parser, service, err := offlineStack(ctx, cfg, log, batchCommentary)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Manifest %s (%d businesses) sha256:%s\n", m.Name, len(m.Businesses), hash)

	results := batch.NewRunner(parser, service, filepath.Dir(path), log.Zerolog()).Run(ctx, m, batchConcurrency)
	printBatchSummary(out, results)

	if batchOutput != "" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := writeJSON(f, batchOutputFile{Manifest: m.Name, Hash: hash, Results: results}); err != nil {
			return fmt.Errorf("write %s: %w", batchOutput, err)
		}
	}

	if n := countFailed(results); n > 0 {
		return fmt.Errorf("%d of %d businesses failed", n, len(results))
	}
	return nil
}

func countFailed(results []batch.Result) int {
	n := 0
	for _, res := range results {
		if res.Error != "" {
			n++
		}
	}
	return n
}
