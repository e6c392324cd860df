package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/deusflow/chaindigest/internal/schedule"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the news and digest jobs on their cron schedules",
	Long: `Schedule blocks and runs the news job on NEWS_SCHEDULE and the weekday
analytics digest on DIGEST_SCHEDULE, both in SCHEDULE_TIMEZONE.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := setup(ctx, true)
	if err != nil {
		return err
	}
	defer e.Close()

	loc, err := time.LoadLocation(e.cfg.ScheduleTimezone)
	if err != nil {
		return err
	}

	s := schedule.New(e.service, loc, e.log)
	if err := s.Register(ctx, e.cfg.NewsSchedule, e.cfg.DigestSchedule); err != nil {
		return err
	}
	s.Run(ctx)
	return nil
}
