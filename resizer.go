package ferry

// ResizingStrategy decides whether the pool may start another worker
// goroutine when a task arrives and no idle worker is available.
type ResizingStrategy interface {
	Resize(runningWorkers, minWorkers, maxWorkers int) bool
}

// Eager starts a new worker whenever a task arrives and the worker limit
// allows it. This maximizes responsiveness, which suits pools that sit
// mostly idle and receive bursts of interactive calls. It is the default.
func Eager() ResizingStrategy {
	return eagerStrategy{}
}

// Static never grows the pool beyond its minimum number of workers; excess
// tasks wait in the queue. Use it when a fixed degree of parallelism is
// wanted regardless of load.
func Static() ResizingStrategy {
	return staticStrategy{}
}

type eagerStrategy struct{}

func (eagerStrategy) Resize(runningWorkers, minWorkers, maxWorkers int) bool {
	return runningWorkers < maxWorkers
}

type staticStrategy struct{}

func (staticStrategy) Resize(runningWorkers, minWorkers, maxWorkers int) bool {
	if minWorkers < 1 {
		minWorkers = 1
	}
	return runningWorkers < minWorkers
}
