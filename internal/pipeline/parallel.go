package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/MeKo-Tech/omr/internal/assemble"
	"github.com/MeKo-Tech/omr/internal/pdf"
)

// ParallelConfig holds configuration for parallel page processing.
type ParallelConfig struct {
	MaxWorkers       int              // Number of parallel workers (0 = runtime.NumCPU(), 1 = sequential)
	ProgressCallback ProgressCallback // Optional progress reporting
}

// DefaultParallelConfig returns sensible defaults for parallel processing.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{MaxWorkers: runtime.NumCPU()}
}

// pageJob is a single page handed to a worker.
type pageJob struct {
	index int
	page  pdf.Page
}

// pageOutcome is the result of processing a single page.
type pageOutcome struct {
	index  int
	result assemble.PageResult
	err    error
}

// ProcessPages processes pages with a worker pool and returns the results in
// input order. Pages are independent; the first error in page order is
// returned and no results are.
func (p *Pipeline) ProcessPages(ctx context.Context, pages []pdf.Page) ([]assemble.PageResult, error) {
	cfg := p.cfg.Parallel
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(pages))

	if cfg.ProgressCallback != nil {
		cfg.ProgressCallback.OnStart(len(pages))
		defer cfg.ProgressCallback.OnComplete()
	}

	if workers <= 1 {
		return p.processSequential(ctx, pages, cfg.ProgressCallback)
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan pageJob, len(pages))
	outcomes := make(chan pageOutcome, len(pages))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go p.worker(ctx, jobs, outcomes, &wg)
	}

	for i, pg := range pages {
		jobs <- pageJob{index: i, page: pg}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]assemble.PageResult, len(pages))
	errs := make([]error, len(pages))
	done := 0
	for o := range outcomes {
		results[o.index] = o.result
		errs[o.index] = o.err
		done++
		if o.err != nil {
			// Pages after a failure are pointless; the document is rejected.
			cancel()
			if cfg.ProgressCallback != nil && !errors.Is(o.err, context.Canceled) {
				cfg.ProgressCallback.OnError(pages[o.index].Index, o.err)
			}
			continue
		}
		if cfg.ProgressCallback != nil {
			cfg.ProgressCallback.OnPage(done, len(pages), o.result)
		}
	}

	if err := parent.Err(); err != nil {
		return nil, err
	}
	for i, err := range errs {
		// Pages cancelled after another page failed do not mask that failure.
		if err != nil && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("page %d: %w", pages[i].Index, err)
		}
	}
	return results, nil
}

func (p *Pipeline) processSequential(ctx context.Context, pages []pdf.Page, cb ProgressCallback) ([]assemble.PageResult, error) {
	results := make([]assemble.PageResult, 0, len(pages))
	for i, pg := range pages {
		res, err := p.ProcessPage(ctx, pg)
		if err != nil {
			if cb != nil {
				cb.OnError(pg.Index, err)
			}
			return nil, fmt.Errorf("page %d: %w", pg.Index, err)
		}
		results = append(results, res)
		if cb != nil {
			cb.OnPage(i+1, len(pages), res)
		}
	}
	return results, nil
}

// worker processes pages from the jobs channel.
func (p *Pipeline) worker(ctx context.Context, jobs <-chan pageJob, outcomes chan<- pageOutcome, wg *sync.WaitGroup) {
	defer wg.Done()
	for job := range jobs {
		res, err := p.ProcessPage(ctx, job.page)
		outcomes <- pageOutcome{index: job.index, result: res, err: err}
	}
}
