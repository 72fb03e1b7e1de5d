package analytics

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// event names published on the analytics topic
const (
	EventGameStart = "game.start"
	EventMove      = "move"
	EventGameEnd   = "game.end"
)

// Producer publishes game events to Kafka. A nil *Producer is valid and drops
// everything, so callers never need to check whether analytics is enabled.
type Producer struct {
	writer  *kafka.Writer
	timeout time.Duration
}

func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 {
		return nil
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		// writes are queued and flushed in the background; game moves never
		// wait on the broker
		Async: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Printf("[KAFKA] dropped %d analytics messages: %v", len(messages), err)
			}
		},
	}
	log.Printf("[KAFKA] Publishing analytics to %s on %v", topic, brokers)
	return &Producer{writer: w, timeout: 2 * time.Second}
}

// Emit adds the event name and a UTC timestamp to payload and queues it.
// Failures are logged, never returned.
func (p *Producer) Emit(event string, payload map[string]any) {
	if p == nil || p.writer == nil {
		return
	}
	msg := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		msg[k] = v
	}
	msg["event"] = event
	msg["ts"] = time.Now().UTC()

	b, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[KAFKA] marshal %s: %v", event, err)
		return
	}

	key := ""
	if id, ok := payload["gameId"].(string); ok {
		key = id
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b}); err != nil {
		log.Printf("[KAFKA] emit %s: %v", event, err)
	}
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
