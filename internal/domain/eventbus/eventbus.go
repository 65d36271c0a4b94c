package eventbus

import (
	evbus "github.com/asaskevich/EventBus"
)

// Bus couples a synchronous EventBus with an async worker pool so hot paths
// (session issue/validate) never block on subscribers.
type Bus struct {
	sync  evbus.Bus
	async *AsyncEventBus
}

// New creates a Bus with the given number of async workers.
func New(workers int) *Bus {
	async := NewAsyncEventBus(workers)
	async.Start()
	return &Bus{
		sync:  evbus.New(),
		async: async,
	}
}

// Publish delivers an event synchronously to all subscribers.
func (b *Bus) Publish(topic string, args ...interface{}) {
	b.sync.Publish(topic, args...)
}

// PublishAsync queues an event for the worker pool; full queues drop.
func (b *Bus) PublishAsync(topic string, args ...interface{}) {
	b.async.PublishAsync(topic, args...)
}

// Subscribe registers a synchronous handler.
func (b *Bus) Subscribe(topic string, fn interface{}) error {
	return b.sync.Subscribe(topic, fn)
}

// SubscribeAsync registers a handler for events published asynchronously.
func (b *Bus) SubscribeAsync(topic string, fn interface{}) error {
	return b.async.Subscribe(topic, fn)
}

// Shutdown drains the async workers.
func (b *Bus) Shutdown() {
	b.async.Stop()
}
