package ferry

import (
	"context"
	"sync/atomic"
)

// worker is the body of a pool worker goroutine. It runs its first task, if
// given one, then keeps pulling tasks from the channel until it receives a
// nil task (retirement) or the pool context is canceled. On cancellation it
// abandons whatever is left in the queue so the pool's task accounting
// stays balanced.
func worker(ctx context.Context, firstTask func(), tasks <-chan func(), idleWorkerCount *atomic.Int32, exitHandler func(), taskExecutor func(func()), taskAbandoner func()) {

	defer func() {
		idleWorkerCount.Add(-1)
		exitHandler()
	}()

	if firstTask != nil {
		taskExecutor(firstTask)
		idleWorkerCount.Add(1)
	}

	for {
		select {
		case <-ctx.Done():
			// Pool context was cancelled, abandon queued tasks and exit
			drainTasks(tasks, taskAbandoner)
			return
		case task, ok := <-tasks:
			if task == nil || !ok {
				// We have received a signal to quit
				return
			}

			// Prioritize cancellation over a concurrently received task
			select {
			case <-ctx.Done():
				taskAbandoner()
				continue
			default:
			}

			idleWorkerCount.Add(-1)
			taskExecutor(task)
			idleWorkerCount.Add(1)
		}
	}
}

// drainTasks empties the tasks channel without executing anything,
// releasing the accounting for each abandoned task.
func drainTasks(tasks <-chan func(), taskAbandoner func()) {
	for {
		select {
		case task, ok := <-tasks:
			if !ok {
				return
			}
			if task != nil {
				taskAbandoner()
			}
		default:
			return
		}
	}
}
