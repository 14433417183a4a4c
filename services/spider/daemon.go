package spider

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// RunDaemon runs the full keyword crawl on a cron schedule (standard
// 5-field cron or @every syntax) until ctx is cancelled. An immediate
// first run happens before the schedule takes over. Overlapping runs
// are skipped rather than stacked.
func (s Service) RunDaemon(ctx context.Context, schedule string) error {
	run := func() {
		if _, err := s.Run(ctx); err != nil {
			slog.ErrorContext(ctx, "scheduled crawl failed", "err", err)
		}
	}
	run()

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, run); err != nil {
		return err
	}
	c.Start()
	slog.InfoContext(ctx, "crawl daemon started", "schedule", schedule)

	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}
