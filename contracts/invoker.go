// Package contracts
package contracts

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v3"

	"github.com/M-QiiQ/TMU-AI-DAO/metrics"
)

// invoker runs one remote call with the configured timeout, retry policy and metrics.
type invoker struct {
	service    string
	maxRetries int
	timeout    time.Duration
	metrics    *metrics.Collector
}

func (i invoker) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if i.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, i.timeout)
}

// read retries fn with exponential backoff up to maxRetries extra attempts.
func (i invoker) read(ctx context.Context, method string, fn func(ctx context.Context) error) error {
	start := time.Now()
	op := func() error {
		callCtx, cancel := i.withTimeout(ctx)
		defer cancel()
		return fn(callCtx)
	}

	var err error
	if i.maxRetries > 0 {
		b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(i.maxRetries)), ctx)
		err = backoff.Retry(op, b)
	} else {
		err = op()
	}
	i.metrics.ObserveCall(i.service, method, start, err)
	return err
}
