package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deusflow/chaindigest/internal/app"
	"github.com/deusflow/chaindigest/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run <news|day-a|day-b|day-c|auto>",
	Short: "Run one job now",
	Long: `Run generates and posts a single digest.

"auto" picks the analytics digest for today's weekday in SCHEDULE_TIMEZONE:
day-a on Sunday, Monday and Wednesday, day-b on Tuesday, Thursday and
Saturday, day-c on Friday.

Examples:
  chaindigest run news
  chaindigest run auto --dry-run`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"news", "day-a", "day-b", "day-c", "auto"},
	RunE:      runJob,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runJob(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	job := app.JobNews
	if args[0] != "auto" {
		var err error
		if job, err = app.ParseJob(args[0]); err != nil {
			return err
		}
	}

	e, err := setup(ctx, args[0] != string(app.JobNews))
	if err != nil {
		return err
	}
	defer e.Close()

	if args[0] == "auto" {
		loc, err := time.LoadLocation(e.cfg.ScheduleTimezone)
		if err != nil {
			return err
		}
		job = app.JobForWeekday(time.Now().In(loc).Weekday())
		logger.Info("Picked job for weekday", "job", string(job), "weekday", time.Now().In(loc).Weekday().String())
	}

	res, err := e.service.Run(ctx, job)
	if err != nil {
		return err
	}

	if res.DryRun {
		fmt.Fprintln(cmd.OutOrStdout(), res.Content)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Posted %s digest: %d message(s) %v\n", res.Job, len(res.MessageIDs), res.MessageIDs)
	return nil
}
