package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"golang.org/x/time/rate"

	"github.com/Epistemic-Technology/quizbank/internal/logger"
)

const (
	// Sustained token budget shared by every transcription in the process,
	// kept below the account limit of 2M tokens/min.
	tokensPerSecond = 30000
	burstTokens     = 60000

	defaultMaxWorkers = 8

	// An exam page rendered as PDF input plus its markdown transcription.
	estimatedTokensPerPage = 1500

	maxRetries     = 5
	baseRetryDelay = 1 * time.Second
	maxRetryDelay  = 32 * time.Second
)

var openAIRateLimiter = rate.NewLimiter(rate.Limit(tokensPerSecond), burstTokens)

// RateLimitedCall waits for the shared limiter, then runs fn, retrying with
// exponential backoff while it fails with a rate limit error.
func RateLimitedCall[T any](ctx context.Context, estimatedTokens int, log logger.Logger, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if err := openAIRateLimiter.WaitN(ctx, min(estimatedTokens, burstTokens)); err != nil {
		return zero, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(baseRetryDelay) * math.Pow(2, float64(attempt-1)))
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}
			log.Info("Retry attempt %d/%d after %v delay", attempt, maxRetries, delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				log.Info("Retry succeeded on attempt %d", attempt)
			}
			return result, nil
		}

		lastErr = err
		if !isRateLimitError(err) {
			return zero, err
		}
		log.Warn("Rate limit error (429) on attempt %d/%d: %v", attempt+1, maxRetries+1, err)
	}

	return zero, fmt.Errorf("max retries (%d) exceeded, last error: %w", maxRetries, lastErr)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	msg := err.Error()
	for _, marker := range []string{"429", "rate limit", "rate_limit_exceeded", "Too Many Requests"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// WorkerPool bounds the number of concurrent transcriptions.
type WorkerPool struct {
	semaphore chan struct{}
}

// NewWorkerPool creates a pool; non-positive sizes use the default.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}
	return &WorkerPool{semaphore: make(chan struct{}, maxWorkers)}
}

// Acquire blocks until a slot is free or ctx is done.
func (wp *WorkerPool) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case wp.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot.
func (wp *WorkerPool) Release() {
	<-wp.semaphore
}

// ParallelProcess runs processFn over items on a bounded pool and returns
// the results in input order. The first error wins; items not yet started
// when ctx is cancelled are never processed.
func ParallelProcess[T any, R any](
	ctx context.Context,
	items []T,
	log logger.Logger,
	processFn func(context.Context, int, T) (R, error),
) ([]R, error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	wp := NewWorkerPool(defaultMaxWorkers)
	results := make([]R, len(items))

	type result struct {
		index int
		value R
		err   error
	}
	resultChan := make(chan result, len(items))

	var firstError error
	spawned := 0
	for i, item := range items {
		if err := wp.Acquire(ctx); err != nil {
			log.Debug("Stopped scheduling at item %d: %v", i, err)
			firstError = err
			break
		}
		spawned++

		go func(idx int, itm T) {
			defer wp.Release()
			if err := ctx.Err(); err != nil {
				resultChan <- result{index: idx, err: err}
				return
			}
			val, err := processFn(ctx, idx, itm)
			resultChan <- result{index: idx, value: val, err: err}
		}(i, item)
	}

	for range spawned {
		res := <-resultChan
		if res.err != nil && firstError == nil {
			firstError = res.err
		}
		results[res.index] = res.value
	}

	if firstError != nil {
		return nil, firstError
	}
	return results, nil
}
