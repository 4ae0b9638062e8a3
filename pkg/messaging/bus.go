// Package messaging fans lifecycle events (topology started/completed,
// node entered/exited) out to whoever wants them — a websocket handler
// streaming to a browser, a metrics collector, a log sink — over an
// in-process Watermill pub/sub.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Bus is a topic-per-EventType event bus backed by an in-memory
// Watermill gochannel. Every topic is durable only for the lifetime of
// the process; there is no persistence or redelivery.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBus creates a Bus. bufferSize bounds how many unconsumed messages
// each subscriber's channel holds before Publish starts blocking.
func NewBus(bufferSize int, debug bool) *Bus {
	logger := watermill.NewStdLogger(debug, false)
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            int64(bufferSize),
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		}, logger),
		logger: logger,
	}
}

// Publish serializes event and publishes it to the topic named by its
// Type. Publish never blocks past OutputChannelBuffer messages of
// backlog per subscriber.
func (b *Bus) Publish(event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("messaging: marshal event: %w", err)
	}
	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("graph_name", event.GraphName)
	msg.Metadata.Set("node_id", event.NodeID)

	if err := b.pubsub.Publish(string(event.Type), msg); err != nil {
		return fmt.Errorf("messaging: publish %s: %w", event.Type, err)
	}
	return nil
}

// Subscribe returns a channel of raw messages for eventType. Callers
// unmarshal msg.Payload into an Event and must call msg.Ack() (or
// msg.Nack()) — gochannel redelivers unacked messages to the next
// subscriber otherwise.
func (b *Bus) Subscribe(ctx context.Context, eventType EventType) (<-chan *message.Message, error) {
	ch, err := b.pubsub.Subscribe(ctx, string(eventType))
	if err != nil {
		return nil, fmt.Errorf("messaging: subscribe %s: %w", eventType, err)
	}
	return ch, nil
}

// SubscribeAll returns a fan-in channel over every EventType. The
// channel closes once ctx is done and every per-topic subscription has
// drained, so forwarding goroutines never send on a closed channel.
func (b *Bus) SubscribeAll(ctx context.Context) (<-chan *message.Message, error) {
	out := make(chan *message.Message)
	types := []EventType{
		EventTopologyStarted, EventTopologyCompleted, EventTopologyFailed,
		EventNodeEntered, EventNodeExited,
	}

	var wg sync.WaitGroup
	for _, t := range types {
		ch, err := b.Subscribe(ctx, t)
		if err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(ch <-chan *message.Message) {
			defer wg.Done()
			for msg := range ch {
				out <- msg
			}
		}(ch)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out, nil
}

// Close releases the underlying pub/sub. Any in-flight Subscribe
// channels are closed.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
