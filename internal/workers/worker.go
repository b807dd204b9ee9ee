// Package workers runs the engine's periodic jobs. Each worker's Run is one
// complete tick, callable directly from tests without a scheduler.
package workers

import (
	"context"
	"log"
	"sync"
	"time"
)

// Worker is one periodic background job.
type Worker interface {
	// Name returns the unique identifier for this worker
	Name() string

	// Run executes one iteration of the worker's task
	Run(ctx context.Context) error

	// Interval returns how often this worker should run
	Interval() time.Duration
}

// Scheduler drives registered workers on their own tickers. The two engine
// jobs run independently; neither tick waits on the other.
type Scheduler struct {
	workers []Worker
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Register adds a worker. Must be called before Start.
func (s *Scheduler) Register(w Worker) {
	s.workers = append(s.workers, w)
	log.Printf("Registered worker %s (interval: %s)", w.Name(), w.Interval())
}

// Start launches every registered worker in its own goroutine
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, w := range s.workers {
		s.wg.Add(1)
		go s.runWorker(ctx, w)
	}
	log.Printf("Started %d workers", len(s.workers))
}

// Stop cancels all workers and waits for in-flight ticks to finish
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	log.Println("All workers stopped")
}

// runWorker ticks one worker until the context is cancelled, running the
// first tick immediately.
func (s *Scheduler) runWorker(ctx context.Context, w Worker) {
	defer s.wg.Done()

	ticker := time.NewTicker(w.Interval())
	defer ticker.Stop()

	s.executeTick(ctx, w)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker %s stopping", w.Name())
			return
		case <-ticker.C:
			s.executeTick(ctx, w)
		}
	}
}

// executeTick runs one iteration with panic recovery so a bad tick never
// takes down the process or the other worker.
func (s *Scheduler) executeTick(ctx context.Context, w Worker) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Worker %s panicked: %v", w.Name(), r)
		}
	}()

	if err := w.Run(ctx); err != nil {
		log.Printf("Worker %s tick failed after %s: %v", w.Name(), time.Since(start), err)
		return
	}
	log.Printf("Worker %s tick completed in %s", w.Name(), time.Since(start))
}
