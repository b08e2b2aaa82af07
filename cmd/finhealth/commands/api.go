package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/finhealth/internal/api"
	"github.com/wonny/finhealth/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the REST API server.

Endpoints:
  GET    /health
  GET    /ws/events                          - assessment.completed push
  POST   /api/businesses
  GET    /api/businesses[/{id}]
  POST   /api/financial-data/upload          - multipart statement upload
  GET    /api/financial-data?business_id=
  GET    /api/financial-data/{id}
  DELETE /api/financial-data/{id}
  POST   /api/assessments/preview
  GET    /api/assessments/business/{id}
  GET    /api/assessments/latest/{id}
  GET    /api/assessments/{id}
  GET    /api/assessments/{id}/report?format=html|md&language=en

Example:
  go run ./cmd/finhealth api
  go run ./cmd/finhealth api --port 8080 --with-worker`,
	RunE: runAPIServer,
}

var (
	apiPort       string
	apiWithWorker bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
	apiCmd.Flags().BoolVar(&apiWithWorker, "with-worker", false, "also process the analysis queue in this process")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.log
	hub := handlers.NewEventHub(log.WithComponent("events"))

	// With Redis, every worker publishes there and the hub relays.
	// Without it only an in-process worker can reach the hub.
	if publisher := a.eventPublisher(); publisher != nil {
		a.withQueue(publisher)
		go func() {
			if err := hub.Relay(ctx, a.redis); err != nil && ctx.Err() == nil {
				log.WithError(err).Error("Event relay stopped")
			}
		}()
	} else {
		a.withQueue(hub)
	}

	h := api.Handlers{
		Health: handlers.NewHealthHandler("finhealth", Version, map[string]handlers.Pinger{
			"database": a.db,
			"redis":    a.redis,
		}),
		Businesses:  handlers.NewBusinessHandler(a.businesses, log),
		Financials:  handlers.NewFinancialHandler(a.parser, a.financials, a.businesses, a.queue, a.cfg.Upload, log),
		Assessments: handlers.NewAssessmentHandler(a.service, a.assessments, a.Reporter(), a.cache, log),
		Events:      hub,
	}

	rl := api.RateLimit{}
	if a.cfg.RateLimit.Enabled {
		rl = api.RateLimit{Limiter: a.limiter, PerMinute: a.cfg.RateLimit.RequestsPerMinute}
	}

	server := api.New(a.cfg, log, api.NewRouter(h, rl, log))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	if apiWithWorker {
		go a.queue.Start(ctx)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Server running on http://localhost:%s (Ctrl+C to stop)\n", a.cfg.Port)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	a.queue.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
