package ferry

import (
	"sync"
	"sync/atomic"
)

// Registry is an ordered publish/subscribe registry for views listening on
// a shared model. Notify invokes subscribers in subscription order; both
// Subscribe and Subscription.Cancel are safe to call from within a
// notification. A subscriber added during a notification is not invoked
// until the next one.
//
// All methods are safe for concurrent use, though in the surrounding tool
// notifications normally happen on the loop.
type Registry[E any] struct {
	mutex sync.Mutex
	subs  []*Subscription[E]
}

// Subscription is the handle returned by Subscribe, used to stop receiving
// events.
type Subscription[E any] struct {
	registry *Registry[E]
	notify   func(E)
	active   atomic.Bool
}

// Cancel removes the subscription from its registry. A subscription
// canceled during a notification is not invoked again, even within the same
// notification.
func (s *Subscription[E]) Cancel() {
	if !s.active.CompareAndSwap(true, false) {
		return
	}

	registry := s.registry

	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	for i, sub := range registry.subs {
		if sub == s {
			registry.subs = append(registry.subs[:i], registry.subs[i+1:]...)
			break
		}
	}
}

// Subscribe registers a function to be invoked for every published event.
func (r *Registry[E]) Subscribe(notify func(E)) *Subscription[E] {
	sub := &Subscription[E]{
		registry: r,
		notify:   notify,
	}
	sub.active.Store(true)

	r.mutex.Lock()
	r.subs = append(r.subs, sub)
	r.mutex.Unlock()

	return sub
}

// Len returns the number of active subscriptions.
func (r *Registry[E]) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.subs)
}

// Notify delivers the event to every subscriber registered at the time of
// the call, in subscription order.
func (r *Registry[E]) Notify(event E) {
	r.mutex.Lock()
	snapshot := make([]*Subscription[E], len(r.subs))
	copy(snapshot, r.subs)
	r.mutex.Unlock()

	// Invoke without holding the lock so subscribers can (un)subscribe
	for _, sub := range snapshot {
		if sub.active.Load() {
			sub.notify(event)
		}
	}
}
