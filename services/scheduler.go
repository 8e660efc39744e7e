// services/scheduler.go
package services

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// StartPromptSweeper expires stale prompts every interval. Shut the returned
// scheduler down on exit.
func StartPromptSweeper(tracker *PromptTracker, interval time.Duration, log *zap.SugaredLogger) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create prompt scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := tracker.Sweep(); n > 0 {
				log.Infow("⏱️ expired pending prompts", "count", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule prompt sweep: %w", err)
	}

	sched.Start()
	return sched, nil
}
