package ferry

import (
	"context"
	"time"
)

// Option customizes a worker pool.
type Option func(*Pool)

// IdleTimeout changes how long a worker may sit idle before being retired.
func IdleTimeout(idleTimeout time.Duration) Option {
	return func(pool *Pool) {
		pool.idleTimeout = idleTimeout
	}
}

// MinWorkers sets the number of workers that are started immediately and
// never retired.
func MinWorkers(minWorkers int) Option {
	return func(pool *Pool) {
		pool.minWorkers = minWorkers
	}
}

// Strategy changes the strategy used to resize the pool.
func Strategy(strategy ResizingStrategy) Option {
	return func(pool *Pool) {
		pool.strategy = strategy
	}
}

// PoolContext configures a parent context on the pool; all workers stop when
// it is canceled.
func PoolContext(parentCtx context.Context) Option {
	return func(pool *Pool) {
		pool.context, pool.contextCancel = context.WithCancel(parentCtx)
	}
}

// PoolDiagnostics sets the sink that receives reports of tasks that
// panicked inside the pool.
func PoolDiagnostics(diagnostics Diagnostics) Option {
	return func(pool *Pool) {
		pool.diagnostics = diagnostics
	}
}
