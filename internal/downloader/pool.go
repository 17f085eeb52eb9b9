package downloader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fifascraper/pkg/logger"
	"fifascraper/pkg/models"
)

// Job is one player whose three images must be fetched
type Job struct {
	Index  int
	Player models.Player
}

// Result reports a finished job. Exactly one Result is produced per Job,
// whatever the number of failed assets.
type Result struct {
	Job      Job
	Failed   []models.Asset
	Duration time.Duration
}

// Succeeded reports whether all three assets were stored
func (r Result) Succeeded() bool {
	return len(r.Failed) == 0
}

// WorkerPool runs player jobs on a fixed number of workers
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	fetcher     AssetFetcher
	store       ImageStorage
	logger      logger.Logger
	stopOnce    sync.Once
}

// NewWorkerPool creates a pool bound to ctx
func NewWorkerPool(
	ctx context.Context,
	numWorkers int,
	fetcher AssetFetcher,
	store ImageStorage,
	log logger.Logger,
) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}
	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2),
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		fetcher:     fetcher,
		store:       store,
		logger:      log.WithField("component", "downloader"),
	}
}

// Start launches the workers
func (wp *WorkerPool) Start() {
	logger.LogComponentStart(wp.logger, "worker_pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop waits for queued jobs to finish and closes Results. No job may be
// submitted after Stop.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.jobQueue)
		wp.wg.Wait()
		close(wp.resultQueue)
		wp.cancel()
		wp.logger.Debug("Worker pool stopped")
	})
}

// Submit queues a job, blocking while the queue is full
func (wp *WorkerPool) Submit(job Job) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the channel of finished jobs
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		result := wp.processJob(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			wp.logger.DebugWithFields("Worker stopping, context cancelled while sending result", map[string]interface{}{
				"worker_id": id,
			})
			return
		}
	}
}

// processJob fetches photo, logo and flag in order. A failed step is
// recorded and the next step runs regardless.
func (wp *WorkerPool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job}

	for _, asset := range PlanAssets(&job.Player, wp.store) {
		if err := wp.fetcher.Fetch(wp.ctx, asset); err != nil {
			logger.LogAssetFailure(wp.logger, string(asset.Kind), asset.PlayerID, asset.URL, err)
			result.Failed = append(result.Failed, asset)
		}
	}

	result.Duration = time.Since(start)
	wp.logger.DebugWithFields("Player assets processed", map[string]interface{}{
		"worker_id":  workerID,
		"player_id":  job.Player.ID,
		"failed":     len(result.Failed),
		"duration":   result.Duration,
		"queue_size": wp.GetQueueSize(),
	})
	return result
}

// GetQueueSize returns the number of jobs waiting for a worker
func (wp *WorkerPool) GetQueueSize() int {
	return len(wp.jobQueue)
}
