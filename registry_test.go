package ferry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryNotifiesInSubscriptionOrder(t *testing.T) {
	var registry Registry[string]
	var order []string

	registry.Subscribe(func(e string) {
		order = append(order, "first:"+e)
	})
	registry.Subscribe(func(e string) {
		order = append(order, "second:"+e)
	})

	registry.Notify("changed")

	assert.Equal(t, []string{"first:changed", "second:changed"}, order)
}

func TestRegistryCancelStopsDelivery(t *testing.T) {
	var registry Registry[int]
	var received []int

	sub := registry.Subscribe(func(e int) {
		received = append(received, e)
	})

	registry.Notify(1)
	sub.Cancel()
	registry.Notify(2)

	assert.Equal(t, []int{1}, received)
	assert.Equal(t, 0, registry.Len())
}

func TestRegistryCancelIsIdempotent(t *testing.T) {
	var registry Registry[int]

	sub := registry.Subscribe(func(int) {})
	sub.Cancel()
	sub.Cancel()

	assert.Equal(t, 0, registry.Len())
}

func TestRegistryCancelDuringNotification(t *testing.T) {
	var registry Registry[int]
	var received []string

	var second *Subscription[int]

	registry.Subscribe(func(e int) {
		received = append(received, "first")
		// Cancelling a later subscriber mid-notification suppresses it
		second.Cancel()
	})
	second = registry.Subscribe(func(e int) {
		received = append(received, "second")
	})

	registry.Notify(1)

	assert.Equal(t, []string{"first"}, received)
}

func TestRegistrySubscribeDuringNotification(t *testing.T) {
	var registry Registry[int]
	notified := 0

	var self func(int)
	self = func(e int) {
		notified++
		if notified == 1 {
			// A subscriber added mid-notification only sees later events
			registry.Subscribe(self)
		}
	}
	registry.Subscribe(self)

	registry.Notify(1)
	assert.Equal(t, 1, notified)

	registry.Notify(2)
	assert.Equal(t, 3, notified)
}

func TestRegistryNotifyOnLoop(t *testing.T) {
	loop := NewLoop()
	defer loop.CloseAndWait()

	var registry Registry[string]
	applied := make(chan string, 1)

	registry.Subscribe(func(e string) {
		applied <- e
	})

	_ = loop.Post(func(turn *Turn) {
		registry.Notify("model updated")
	})

	assert.Equal(t, "model updated", <-applied)
}
