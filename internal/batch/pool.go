// Package batch runs independent collection walks concurrently and exports
// their results.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"igmobile/pkg/logger"
	"igmobile/pkg/pagination"
	"igmobile/pkg/ratelimit"
)

// Job is one collection walk. Name identifies the export.
type Job[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (*pagination.Page[T], error)
}

// Result is the outcome of a job. Skipped jobs were exported by an earlier run.
type Result[T any] struct {
	Job      Job[T]
	Page     *pagination.Page[T]
	Skipped  bool
	Error    error
	Duration time.Duration
}

// Exporter stores finished collections
type Exporter interface {
	IsExported(name string) bool
	Export(name string, data interface{}) error
}

// Pool runs jobs on a fixed number of workers. Each job gets its own page;
// workers share nothing but the limiter and the exporter.
type Pool[T any] struct {
	numWorkers  int
	jobQueue    chan Job[T]
	resultQueue chan Result[T]
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	exporter    Exporter
	rateLimiter ratelimit.Limiter
	logger      logger.Logger
}

// NewPool creates a pool. exporter and rateLimiter may be nil.
func NewPool[T any](numWorkers int, exporter Exporter, rateLimiter ratelimit.Limiter, log logger.Logger) *Pool[T] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Pool[T]{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job[T], numWorkers*2),
		resultQueue: make(chan Result[T], numWorkers),
		exporter:    exporter,
		rateLimiter: rateLimiter,
		logger:      logger.Or(log),
	}
}

// Start launches the workers. Cancelling ctx stops them after their current job.
func (p *Pool[T]) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.logger.InfoWithFields("Starting batch pool", map[string]interface{}{
		"num_workers": p.numWorkers,
	})

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop closes the queue, waits for queued jobs and closes Results
func (p *Pool[T]) Stop() {
	close(p.jobQueue)
	p.wg.Wait()
	close(p.resultQueue)
	p.cancel()

	p.logger.Info("Batch pool stopped")
}

// Submit queues a job. It blocks while the queue is full.
func (p *Pool[T]) Submit(job Job[T]) error {
	select {
	case p.jobQueue <- job:
		p.logger.WithField("job", job.Name).Debug("Job submitted to queue")
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("batch pool is shutting down: %w", p.ctx.Err())
	}
}

// Results streams results in completion order
func (p *Pool[T]) Results() <-chan Result[T] {
	return p.resultQueue
}

func (p *Pool[T]) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobQueue {
		if p.ctx.Err() != nil {
			// Drain so Stop does not wait on jobs nobody will run
			p.deliver(Result[T]{Job: job, Error: p.ctx.Err()})
			continue
		}
		p.deliver(p.run(job, id))
	}
}

func (p *Pool[T]) deliver(r Result[T]) {
	p.resultQueue <- r
}

func (p *Pool[T]) run(job Job[T], workerID int) Result[T] {
	start := time.Now()
	result := Result[T]{Job: job}
	log := p.logger.WithFields(map[string]interface{}{
		"worker_id": workerID,
		"job":       job.Name,
	})

	if p.exporter != nil && p.exporter.IsExported(job.Name) {
		log.Debug("Collection already exported")
		result.Skipped = true
		result.Duration = time.Since(start)
		return result
	}

	if p.rateLimiter != nil {
		if err := p.rateLimiter.Wait(p.ctx); err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			return result
		}
	}

	page, err := job.Fetch(p.ctx)
	if err != nil {
		result.Error = fmt.Errorf("fetch failed: %w", err)
		result.Duration = time.Since(start)
		log.WithError(err).Error("Batch job failed")
		return result
	}
	result.Page = page

	if p.exporter != nil {
		if err := p.exporter.Export(job.Name, page.Items); err != nil {
			result.Error = fmt.Errorf("export failed: %w", err)
			result.Duration = time.Since(start)
			log.WithError(err).Error("Failed to export collection")
			return result
		}
	}

	result.Duration = time.Since(start)
	log.DebugWithFields("Batch job completed", map[string]interface{}{
		"items":    len(page.Items),
		"pages":    page.Pages,
		"partial":  page.Partial(),
		"duration": result.Duration,
	})
	return result
}

// Run submits jobs, waits for all of them and returns results in job order.
// Jobs sharing a name run once and every one of them gets that result.
func Run[T any](ctx context.Context, p *Pool[T], jobs []Job[T]) []Result[T] {
	p.Start(ctx)

	first := make(map[string]int, len(jobs))
	unique := make([]int, 0, len(jobs))
	for i, job := range jobs {
		if _, seen := first[job.Name]; seen {
			p.logger.WithField("job", job.Name).Warn("Duplicate batch job ignored")
			continue
		}
		first[job.Name] = i
		unique = append(unique, i)
	}

	results := make([]Result[T], len(jobs))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range p.Results() {
			results[first[r.Job.Name]] = r
		}
	}()

	var failed []Result[T]
	for _, i := range unique {
		if err := p.Submit(jobs[i]); err != nil {
			failed = append(failed, Result[T]{Job: jobs[i], Error: err})
		}
	}
	p.Stop()
	<-done

	for _, r := range failed {
		results[first[r.Job.Name]] = r
	}
	for i, job := range jobs {
		if j := first[job.Name]; j != i {
			results[i] = results[j]
		}
	}
	return results
}
