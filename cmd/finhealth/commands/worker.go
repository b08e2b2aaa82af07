package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Analysis queue worker",
	Long: `Processes queued assessments from the PostgreSQL analysis_jobs table.

Every finished job is stored as a new assessment and, when Redis is
enabled, announced on the finhealth:events channel for API websocket
clients.

Example:
  go run ./cmd/finhealth worker start
  go run ./cmd/finhealth worker start --concurrency 4
  go run ./cmd/finhealth worker stats`,
}

var (
	workerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start processing the queue",
		RunE:  runWorkerStart,
	}

	workerStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show queue counts for the last hour",
		RunE:  runWorkerStats,
	}
)

var (
	workerConcurrency int
)

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.AddCommand(workerStartCmd)
	workerCmd.AddCommand(workerStatsCmd)

	workerStartCmd.Flags().IntVar(&workerConcurrency, "concurrency", 0, "concurrent jobs (default from WORKER_CONCURRENCY)")
}

func runWorkerStart(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if workerConcurrency > 0 {
		a.cfg.Worker.Concurrency = workerConcurrency
	}
	a.withQueue(a.eventPublisher())

	fmt.Fprintf(cmd.OutOrStdout(), "Worker started (concurrency %d, Ctrl+C to stop)\n", a.cfg.Worker.Concurrency)
	a.queue.Start(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), "Worker stopped")
	return nil
}

func runWorkerStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	a.withQueue(nil)

	stats, err := a.queue.GetStats(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "pending    %d\n", stats.Pending)
	fmt.Fprintf(out, "processing %d\n", stats.Processing)
	fmt.Fprintf(out, "done       %d\n", stats.Done)
	fmt.Fprintf(out, "failed     %d\n", stats.Failed)
	fmt.Fprintf(out, "total      %d\n", stats.Total)
	return nil
}
