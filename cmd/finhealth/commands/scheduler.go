package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/finhealth/internal/scheduler"
	"github.com/wonny/finhealth/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Background maintenance scheduler",
	Long: `Runs the maintenance jobs on their cron schedules.

Jobs:
  reassessment   - 02:00 daily, queues businesses whose financial data
                   changed after their latest assessment
  queue_cleanup  - hourly, requeues stuck jobs and deletes finished
                   jobs older than 7 days

Example:
  go run ./cmd/finhealth scheduler start
  go run ./cmd/finhealth scheduler list
  go run ./cmd/finhealth scheduler run reassessment`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job now and wait for it",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobNow,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// initScheduler registers the maintenance jobs against a connected app
func initScheduler(ctx context.Context) (*scheduler.Scheduler, *app, error) {
	a, err := newApp(ctx)
	if err != nil {
		return nil, nil, err
	}
	a.withQueue(nil)

	sched := scheduler.New(a.log)
	for _, job := range []scheduler.Job{
		jobs.NewReassessmentJob(a.financials, a.queue, a.log.WithComponent("jobs")),
		jobs.NewQueueCleanupJob(a.queue, a.log.WithComponent("jobs")),
	} {
		if err := sched.AddJob(job); err != nil {
			a.Close()
			return nil, nil, err
		}
	}
	return sched, a, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, a, err := initScheduler(ctx)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	sched.Start()
	fmt.Fprintln(cmd.OutOrStdout(), "Scheduler started (Ctrl+C to stop)")
	printJobStats(cmd, sched)

	<-ctx.Done()
	sched.Stop()
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, a, err := initScheduler(context.Background())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	printJobStats(cmd, sched)
	return nil
}

func runJobNow(cmd *cobra.Command, args []string) error {
	sched, a, err := initScheduler(context.Background())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	result, err := sched.RunNow(args[0])
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("job %s failed after %d attempts: %s", result.JobName, result.Attempts, result.Error)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Job %s completed in %s\n", result.JobName, result.Duration)
	return nil
}

func printJobStats(cmd *cobra.Command, sched *scheduler.Scheduler) {
	stats := sched.GetJobStats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	out := cmd.OutOrStdout()
	for _, name := range names {
		st := stats[name]
		fmt.Fprintf(out, "  %-16s %-14s", name, st.Schedule)
		if st.NextRun != nil {
			fmt.Fprintf(out, " next %s", st.NextRun.Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintln(out)
	}
}
