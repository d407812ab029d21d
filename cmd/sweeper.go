package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/victor-lby/sos-cidadao-sub000/configs"
	"github.com/victor-lby/sos-cidadao-sub000/internal/domain"
	notificationModels "github.com/victor-lby/sos-cidadao-sub000/internal/models/notification"
	"github.com/victor-lby/sos-cidadao-sub000/internal/usecase/dispatch"
	"github.com/victor-lby/sos-cidadao-sub000/pkg/logger"
)

var dispatchSweeperCmd = &cobra.Command{
	Use:   "dispatch-sweeper",
	Short: "Re-runs dispatch for approved notifications whose publish never completed",
	Run: func(cmd *cobra.Command, args []string) {
		sweeper := NewDispatchSweeper()

		// Create a cancelable context for graceful shutdown
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		wg := &sync.WaitGroup{}
		go sweeper.Run(ctx, wg)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		sweeper.log.Info("Received shutdown signal, initiating graceful shutdown...")
		cancel()

		// Wait for in-flight dispatch runs to finish
		wg.Wait()
		sweeper.log.Info("Graceful shutdown complete.")
	},
}

// DispatchSweeper is the recovery path for the approved-but-pending-dispatch
// limbo: approval already succeeded, but no endpoint publish did, so the row
// stayed APPROVED. The sweeper periodically re-runs the dispatch pipeline for
// such rows. The compare-and-set inside the pipeline keeps concurrent sweeps
// and in-request dispatches from double-advancing the status.
type DispatchSweeper struct {
	cfg        *configs.AppConfig
	log        logger.Logger
	dom        *domain.Domain
	dispatcher dispatch.DispatcherHandler
	workerPool chan struct{}
}

func (s *DispatchSweeper) Run(ctx context.Context, wg *sync.WaitGroup) {
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Shutting down dispatch sweeper...")
			return
		default:
			s.sweep(ctx, wg)
		}
	}
}

func (s *DispatchSweeper) sweep(ctx context.Context, wg *sync.WaitGroup) {
	delayNextIteration := time.Duration(rand.Intn(s.cfg.Sweeper.DurationIntervalInMs)) * time.Millisecond
	staleBefore := time.Now().Add(-time.Duration(s.cfg.Sweeper.StaleAfterInSec) * time.Second)

	stale, err := s.dom.Notification.FindStaleApproved(ctx, staleBefore, s.cfg.Sweeper.MaxBatchSize)
	if err != nil {
		s.log.Errorf("Error fetching stale approved notifications: %v", err)
		time.Sleep(delayNextIteration)
		return
	}

	if len(stale) == 0 {
		time.Sleep(delayNextIteration)
		return
	}

	s.log.Infof("Found %d approved notifications pending dispatch", len(stale))

	for _, n := range stale {
		wg.Add(1)
		s.workerPool <- struct{}{} // Acquire a worker slot
		go func(n notificationModels.Notification) {
			defer func() {
				<-s.workerPool
				wg.Done()
			}() // Release worker slot after processing

			bgCtx, cancel := context.WithTimeout(context.Background(),
				time.Duration(s.cfg.Dispatch.PipelineTimeoutInSec)*time.Second)
			defer cancel()

			res := s.dispatcher.DispatchApproved(bgCtx, &n)
			if res.Err != nil {
				s.log.ErrorWithContext(bgCtx, "re-dispatch of ", n.ID, " failed: ", res.Err)
				return
			}
			s.log.InfoWithContext(bgCtx, "re-dispatch of ", n.ID, " finished with status ", res.FinalStatus)
		}(n)
	}

	fmt.Printf("Sleeping for %v...\n", delayNextIteration)
	time.Sleep(delayNextIteration)
}

// NewDispatchSweeper initializes and returns the DispatchSweeper
func NewDispatchSweeper() *DispatchSweeper {
	dp := GetAppDependency()

	// Limit concurrent dispatch runs
	workerPool := make(chan struct{}, dp.cfg.Sweeper.MaxConcurrency)

	return &DispatchSweeper{
		cfg:        dp.cfg,
		log:        dp.log,
		dom:        dp.dom,
		dispatcher: dp.usecase.Dispatch,
		workerPool: workerPool,
	}
}
