package commands

import (
	"context"

	"github.com/wonny/finhealth/internal/assessment"
	"github.com/wonny/finhealth/internal/commentary"
	"github.com/wonny/finhealth/internal/contracts"
	"github.com/wonny/finhealth/internal/ingest"
	"github.com/wonny/finhealth/pkg/config"
	"github.com/wonny/finhealth/pkg/httputil"
	"github.com/wonny/finhealth/pkg/logger"
)

// offlineStack builds a parser and an uncached service for the file-based
// commands. Commentary is used only when requested and configured.
func offlineStack(ctx context.Context, cfg *config.Config, log *logger.Logger, withCommentary bool) (*ingest.Parser, *assessment.Service, error) {
	parser := ingest.NewParser(cfg.Upload.MaxBytes(), log.Zerolog())

	var narrator contracts.Narrator = commentary.NoopNarrator{}
	if withCommentary && cfg.AI.Enabled() {
		n, err := commentary.NewGeminiNarrator(ctx, cfg.AI, httputil.New(cfg, log).HTTPClient(), log.Zerolog())
		if err != nil {
			return nil, nil, err
		}
		narrator = n
	}

	service := assessment.NewService(parser, narrator, nil, log.Zerolog()).
		WithNarrationTimeout(cfg.AI.Timeout)
	return parser, service, nil
}
