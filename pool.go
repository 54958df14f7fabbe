package ferry

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// defaultIdleTimeout defines how long a worker may sit idle before the pool
// considers retiring it, when not set via the IdleTimeout option.
const defaultIdleTimeout = 5 * time.Second

// Pool is a pool of worker goroutines that slots schedule their work and
// classification phases on. Parallelism is bounded by maxWorkers; workers
// are started on demand according to the configured ResizingStrategy and
// retired after sitting idle.
//
// Pool implements Runner.
type Pool struct {
	// Configurable settings
	maxWorkers    int
	maxCapacity   int
	minWorkers    int
	idleTimeout   time.Duration
	strategy      ResizingStrategy
	diagnostics   Diagnostics
	context       context.Context
	contextCancel context.CancelFunc

	// Counters
	workerCount         atomic.Int32
	idleWorkerCount     atomic.Int32
	submittedTaskCount  atomic.Uint64
	waitingTaskCount    atomic.Uint64
	successfulTaskCount atomic.Uint64
	failedTaskCount     atomic.Uint64

	tasks            chan func()
	tasksCloseOnce   sync.Once
	workersWaitGroup sync.WaitGroup
	tasksWaitGroup   sync.WaitGroup
	mutex            sync.Mutex
	stopped          atomic.Bool
}

// NewPool creates a worker pool that can scale up to maxWorkers goroutines.
// maxCapacity determines how many tasks can be queued without blocking the
// submitter.
func NewPool(maxWorkers, maxCapacity int, options ...Option) *Pool {
	pool := &Pool{
		maxWorkers:  maxWorkers,
		maxCapacity: maxCapacity,
		idleTimeout: defaultIdleTimeout,
		strategy:    Eager(),
		diagnostics: defaultDiagnostics,
	}

	for _, option := range options {
		option(pool)
	}

	// Make sure options are consistent
	if pool.maxWorkers <= 0 {
		pool.maxWorkers = 1
	}
	if pool.minWorkers > pool.maxWorkers {
		pool.minWorkers = pool.maxWorkers
	}
	if pool.maxCapacity < 0 {
		pool.maxCapacity = 0
	}
	if pool.idleTimeout < 0 {
		pool.idleTimeout = defaultIdleTimeout
	}

	if pool.context == nil {
		PoolContext(context.Background())(pool)
	}

	pool.tasks = make(chan func(), pool.maxCapacity)

	// Start purger goroutine
	pool.workersWaitGroup.Add(1)
	go pool.purge()

	for i := 0; i < pool.minWorkers; i++ {
		pool.maybeStartWorker(nil)
	}

	return pool
}

// RunningWorkers returns the current number of running workers.
func (p *Pool) RunningWorkers() int {
	return int(p.workerCount.Load())
}

// IdleWorkers returns the current number of idle workers.
func (p *Pool) IdleWorkers() int {
	return int(p.idleWorkerCount.Load())
}

// SubmittedTasks returns the total number of tasks submitted since the pool
// was created.
func (p *Pool) SubmittedTasks() uint64 {
	return p.submittedTaskCount.Load()
}

// WaitingTasks returns the number of tasks currently waiting in the queue.
func (p *Pool) WaitingTasks() uint64 {
	return p.waitingTaskCount.Load()
}

// SuccessfulTasks returns the total number of tasks that ran to completion.
func (p *Pool) SuccessfulTasks() uint64 {
	return p.successfulTaskCount.Load()
}

// FailedTasks returns the total number of tasks that panicked.
func (p *Pool) FailedTasks() uint64 {
	return p.failedTaskCount.Load()
}

// CompletedTasks returns the total number of tasks that finished, either
// successfully or with a panic.
func (p *Pool) CompletedTasks() uint64 {
	return p.SuccessfulTasks() + p.FailedTasks()
}

// Stopped returns true if the pool is no longer accepting tasks.
func (p *Pool) Stopped() bool {
	return p.stopped.Load()
}

// Go sends a task to the pool for execution, implementing Runner. If the
// queue is full it waits until a worker picks the task up. Go panics with
// ErrPoolStopped if the pool has been stopped.
func (p *Pool) Go(task func()) {
	p.submit(task, true)
}

// TryGo attempts to send a task to the pool without waiting when the queue
// is full. It reports whether the task was accepted.
func (p *Pool) TryGo(task func()) bool {
	return p.submit(task, false)
}

func (p *Pool) submit(task func(), mustSubmit bool) (submitted bool) {
	if task == nil {
		return
	}

	if p.Stopped() {
		if mustSubmit {
			panic(ErrPoolStopped)
		}
		return
	}

	p.submittedTaskCount.Add(1)
	p.waitingTaskCount.Add(1)
	p.tasksWaitGroup.Add(1)

	defer func() {
		if !submitted {
			p.submittedTaskCount.Add(^uint64(0))
			p.waitingTaskCount.Add(^uint64(0))
			p.tasksWaitGroup.Done()
		}
	}()

	// Start a worker as long as we haven't reached the limit
	if submitted = p.maybeStartWorker(task); submitted {
		return
	}

	if !mustSubmit {
		// Attempt to dispatch to an idle worker without blocking
		select {
		case p.tasks <- task:
			submitted = true
		default:
		}
		return
	}

	p.tasks <- task
	submitted = true
	return
}

// Stop causes the pool to stop accepting new tasks and signals all workers
// to exit. Tasks being executed by workers continue until completion; tasks
// waiting in the queue are abandoned and will not be executed. Stop returns
// without waiting. Use StopAndWait to let queued tasks finish instead.
func (p *Pool) Stop() {
	go p.stop(false)
}

// StopAndWait stops the pool and waits for all queued tasks to complete.
func (p *Pool) StopAndWait() {
	p.stop(true)
}

func (p *Pool) stop(waitForQueuedTasks bool) {
	p.stopped.Store(true)

	if waitForQueuedTasks {
		p.tasksWaitGroup.Wait()
	}

	// Terminate all workers and the purger goroutine
	p.contextCancel()
	p.workersWaitGroup.Wait()

	p.tasksCloseOnce.Do(func() {
		close(p.tasks)
	})
}

// purge retires one idle worker every idleTimeout.
func (p *Pool) purge() {
	defer p.workersWaitGroup.Done()

	idleTicker := time.NewTicker(p.idleTimeout)
	defer idleTicker.Stop()

	for {
		select {
		case <-idleTicker.C:
			p.stopIdleWorker()
		case <-p.context.Done():
			return
		}
	}
}

// stopIdleWorker attempts to stop an idle worker by sending it a nil task.
func (p *Pool) stopIdleWorker() {
	if p.IdleWorkers() > 0 && p.RunningWorkers() > p.minWorkers && !p.Stopped() {
		p.tasks <- nil
	}
}

// maybeStartWorker starts a new worker goroutine for the given task unless
// the strategy or the worker limit forbids it.
func (p *Pool) maybeStartWorker(firstTask func()) bool {
	if !p.incrementWorkerCount() {
		return false
	}

	if firstTask == nil {
		p.idleWorkerCount.Add(1)
	}

	go worker(p.context, firstTask, p.tasks, &p.idleWorkerCount, p.decrementWorkerCount, p.executeTask, p.abandonTask)

	return true
}

// abandonTask releases the accounting for a queued task that is discarded
// because the pool stopped before it could run. Without this, StopAndWait
// would block forever on tasks that exited workers can no longer execute.
func (p *Pool) abandonTask() {
	p.waitingTaskCount.Add(^uint64(0))
	p.tasksWaitGroup.Done()
}

// executeTask runs the task, recovering panics into the diagnostics sink.
func (p *Pool) executeTask(task func()) {
	defer func() {
		if recovered := recover(); recovered != nil {
			p.failedTaskCount.Add(1)
			p.diagnostics.ReportPanic(uuid.Nil, recovered, debug.Stack())
		}
		p.tasksWaitGroup.Done()
	}()

	p.waitingTaskCount.Add(^uint64(0))

	task()

	p.successfulTaskCount.Add(1)
}

func (p *Pool) incrementWorkerCount() bool {
	runningWorkerCount := p.RunningWorkers()

	if runningWorkerCount >= p.maxWorkers {
		return false
	}

	// Idle workers available, no need for a new one
	if runningWorkerCount >= p.minWorkers && runningWorkerCount > 0 && p.IdleWorkers() > 0 {
		return false
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.strategy.Resize(runningWorkerCount, p.minWorkers, p.maxWorkers) {
		return false
	}

	p.workerCount.Add(1)
	p.workersWaitGroup.Add(1)

	return true
}

func (p *Pool) decrementWorkerCount() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.workerCount.Add(-1)
	p.workersWaitGroup.Done()
}
