package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/finhealth/internal/batch"
	"github.com/wonny/finhealth/internal/contracts"
	"github.com/wonny/finhealth/pkg/logger"
)

// assessCmd scores statement files without touching the database
var assessCmd = &cobra.Command{
	Use:   "assess <file> [file...]",
	Short: "Assess statement files offline",
	Long: `Parses one or more statement files (CSV, XLSX, HTML, PDF) for the same
period, merges them and prints the assessment. Nothing is stored.

Example:
  go run ./cmd/finhealth assess profit_loss_2024.csv balance_sheet_2024.csv \
      --industry retail --size small --established 2016
  go run ./cmd/finhealth assess statements.xlsx --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAssess,
}

var (
	assessName        string
	assessIndustry    string
	assessSize        string
	assessEstablished int
	assessFormat      string
	assessCommentary  bool
)

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().StringVar(&assessName, "name", "", "business name (default: first file name)")
	assessCmd.Flags().StringVar(&assessIndustry, "industry", string(contracts.IndustryOther), "industry")
	assessCmd.Flags().StringVar(&assessSize, "size", string(contracts.SizeSmall), "business size: micro|small|medium")
	assessCmd.Flags().IntVar(&assessEstablished, "established", 0, "year established (0 = unknown)")
	assessCmd.Flags().StringVar(&assessFormat, "format", "table", "output format: table|json")
	assessCmd.Flags().BoolVar(&assessCommentary, "commentary", true, "add LLM commentary when GEMINI_API_KEY is set")
}

// assessManifest wraps the command line in a one-entry manifest so flags
// get the same validation as batch files
func assessManifest(files []string) *batch.Manifest {
	name := assessName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(files[0]), filepath.Ext(files[0]))
	}
	return &batch.Manifest{
		Name: "assess",
		Businesses: []batch.Entry{{
			Name:            name,
			Industry:        contracts.Industry(assessIndustry),
			Size:            contracts.BusinessSize(assessSize),
			EstablishedYear: assessEstablished,
			Files:           files,
		}},
	}
}

func runAssess(cmd *cobra.Command, args []string) error {
	if assessFormat != "table" && assessFormat != "json" {
		return fmt.Errorf("unknown format %q (want table or json)", assessFormat)
	}

	m := assessManifest(args)
	if err := batch.Validate(m); err != nil {
		return err
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
	parser, service, err := offlineStack(ctx, cfg, log, assessCommentary)
	if err != nil {
		return err
	}

	res := batch.NewRunner(parser, service, "", log.Zerolog()).Run(ctx, m, 1)[0]
	if res.Error != "" {
		return fmt.Errorf("assess %s: %s", res.Name, res.Error)
	}

	out := cmd.OutOrStdout()
	if assessFormat == "json" {
		return writeJSON(out, res)
	}
	for i, rep := range res.Reports {
		fmt.Fprintf(out, "%s: %s, %d/%d rows matched\n", args[i], rep.Kind, rep.RowsMatched, rep.RowsTotal)
	}
	printAssessment(out, res.Name, res.Assessment)
	return nil
}
