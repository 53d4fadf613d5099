package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trident/onboarding-portal/internal/metrics"
	"trident/onboarding-portal/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(checkID uuid.UUID)
}

type WorkerOptions struct {
	Concurrency  int
	QueueSize    int
	PollInterval time.Duration
	PollBatch    int
}

type worker struct {
	checkRepo repositories.CheckRequestRepository
	forwarder CheckForwarder
	opts      WorkerOptions
	jobQueue  chan uuid.UUID
	wg        sync.WaitGroup
	stopChan  chan struct{}
	stopOnce  sync.Once
	log       *zap.Logger
}

func NewWorker(
	checkRepo repositories.CheckRequestRepository,
	forwarder CheckForwarder,
	opts WorkerOptions,
	log *zap.Logger,
) Worker {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 100
	}
	if opts.PollBatch < 1 {
		opts.PollBatch = 10
	}

	return &worker{
		checkRepo: checkRepo,
		forwarder: forwarder,
		opts:      opts,
		jobQueue:  make(chan uuid.UUID, opts.QueueSize),
		stopChan:  make(chan struct{}),
		log:       log.Named("worker"),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.log.Info("🚀 Starting worker", zap.Int("concurrency", w.opts.Concurrency))

	for i := 0; i < w.opts.Concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	if w.opts.PollInterval > 0 {
		w.wg.Add(1)
		go w.pollPendingJobs(ctx)
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		w.log.Info("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(checkID uuid.UUID) {
	select {
	case w.jobQueue <- checkID:
		w.log.Debug("📥 Job enqueued", zap.Stringer("check_id", checkID))
	case <-w.stopChan:
		w.log.Warn("Worker stopped, cannot enqueue job", zap.Stringer("check_id", checkID))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.log.With(zap.Int("worker_id", workerID))

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case checkID := <-w.jobQueue:
			metrics.WorkerJobsActive.Inc()
			if err := w.forwarder.ForwardCheck(ctx, checkID); err != nil {
				log.Error("❌ Failed to forward check request", zap.Stringer("check_id", checkID), zap.Error(err))
			}
			metrics.WorkerJobsActive.Dec()
		}
	}
}

// pollPendingJobs picks up queued requests that never reached the channel,
// e.g. after a restart or a retry.
func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.checkRepo.FindPendingJobs(w.opts.PollBatch)
			if err != nil {
				w.log.Warn("Failed to fetch pending jobs", zap.Error(err))
				continue
			}

			if len(pending) > 0 {
				w.log.Info("📋 Found pending jobs", zap.Int("count", len(pending)))
			}
			for _, check := range pending {
				w.EnqueueJob(check.ID)
			}
		}
	}
}
