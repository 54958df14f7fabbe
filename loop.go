package ferry

import (
	"sync"
	"sync/atomic"

	"github.com/glasskite/ferry/internal/linkedbuffer"
)

const loopBatchSize = 64

// Task is a unit of work that runs on a Loop. The *Turn argument proves the
// task is executing on the loop goroutine: a Turn cannot be constructed
// anywhere else, so any function requiring one can only be reached from
// loop-affine code.
type Task func(*Turn)

// Turn represents one execution turn of a Loop. It is handed to every task
// the loop runs and is only valid for the duration of that task.
type Turn struct {
	loop *Loop
}

// Loop returns the loop this turn belongs to, so loop-side code can post
// follow-up tasks without capturing the loop separately.
func (t *Turn) Loop() *Loop {
	return t.loop
}

// Loop is a single-goroutine execution context: every task posted to it,
// from any goroutine, runs on the loop goroutine. Tasks posted by the same
// producer run in the order they were posted. Posting never blocks the
// producer; the loop buffers tasks in an unbounded queue and drains them
// in batches.
//
// The loop stands in for the interaction thread of the surrounding tool:
// all visible-state mutation and all Slot starts happen here.
type Loop struct {
	queue     *linkedbuffer.LinkedBuffer[Task]
	wake      chan struct{}
	closed    atomic.Bool
	waitGroup sync.WaitGroup

	// Serializes the closed check against the enqueue so that a task
	// accepted by Post is guaranteed to run even when Close races it
	mutex sync.Mutex
}

// NewLoop creates a loop and starts its goroutine.
func NewLoop() *Loop {
	loop := &Loop{
		queue: linkedbuffer.New[Task](loopBatchSize, 10*loopBatchSize),
		wake:  make(chan struct{}, 1),
	}

	loop.waitGroup.Add(1)
	go loop.run()

	return loop
}

// Post enqueues a task and returns immediately. The task will run on the
// loop goroutine after all previously posted tasks from the same producer.
// Returns ErrLoopClosed if the loop has been closed.
func (l *Loop) Post(task Task) error {
	if task == nil {
		return nil
	}
	l.mutex.Lock()
	if l.closed.Load() {
		l.mutex.Unlock()
		return ErrLoopClosed
	}
	l.queue.Write(task)
	l.mutex.Unlock()

	// Wake the loop goroutine if it is parked
	select {
	case l.wake <- struct{}{}:
	default:
	}

	return nil
}

// PostWait posts a task and blocks until it has executed. It must not be
// called from the loop goroutine itself.
func (l *Loop) PostWait(task Task) error {
	done := make(chan struct{})

	err := l.Post(func(turn *Turn) {
		defer close(done)
		task(turn)
	})
	if err != nil {
		return err
	}

	<-done
	return nil
}

// PendingTasks returns the number of tasks waiting to be executed.
func (l *Loop) PendingTasks() uint64 {
	return l.queue.Len()
}

// Close stops the loop after all tasks posted so far have run. Tasks posted
// after Close are rejected with ErrLoopClosed.
func (l *Loop) Close() {
	l.mutex.Lock()
	swapped := l.closed.CompareAndSwap(false, true)
	l.mutex.Unlock()

	if swapped {
		// Wake the loop goroutine so it notices the close
		select {
		case l.wake <- struct{}{}:
		default:
		}
	}
}

// CloseAndWait closes the loop and waits for its goroutine to exit.
func (l *Loop) CloseAndWait() {
	l.Close()
	l.waitGroup.Wait()
}

// run drains the queue in batches on the loop goroutine.
func (l *Loop) run() {
	defer l.waitGroup.Done()

	turn := &Turn{loop: l}
	batch := make([]Task, loopBatchSize)

	for {
		if l.closed.Load() {
			// Loop was closed. Close flips the flag under the same mutex
			// Post writes under, so every accepted task is already in the
			// queue; drain them all and exit
			l.drain(turn, batch)
			return
		}

		<-l.wake

		l.drain(turn, batch)
	}
}

func (l *Loop) drain(turn *Turn, batch []Task) {
	for {
		n := l.queue.Read(batch)
		if n == 0 {
			return
		}
		for _, task := range batch[:n] {
			task(turn)
		}
	}
}
