package commands

import (
	"context"
	"errors"

	"weibolens-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

var daemonSchedule *string

func init() {
	daemonSchedule = daemonCmd.Flags().String(
		"schedule", "@every 6h",
		"Cron schedule for crawls (5-field cron or @every syntax).",
	)
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Crawl on a schedule until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := setupCrawl(ctx)
		if err != nil {
			return err
		}
		defer env.close()
		defer env.persistSeen(context.Background())

		telemetry.InstrumentPerfStats(ctx)
		err = env.service.RunDaemon(ctx, *daemonSchedule)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
