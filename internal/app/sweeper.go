package app

import (
	"context"
	"time"

	"family-album-go/pkg/logger"
)

type orphanSweeper interface {
	SweepOrphans(ctx context.Context, grace time.Duration) (int, error)
}

// sweeper periodically removes objects left behind by uploads that never
// completed or photos whose object deletes failed.
type sweeper struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func startSweeper(target orphanSweeper, every, grace time.Duration, log logger.Logger) *sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	s := &sweeper{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runCtx, runCancel := context.WithTimeout(ctx, every)
				removed, err := target.SweepOrphans(runCtx, grace)
				runCancel()
				if err != nil {
					log.InternalError("media.sweep: sweep failed", err)
					continue
				}
				log.Debug("media.sweep: finished", "removed", removed)
			}
		}
	}()

	log.Info("media.sweep: started", "every", every, "grace", grace)
	return s
}

func (s *sweeper) stop() {
	s.cancel()
	<-s.done
}
