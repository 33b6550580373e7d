package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Producer streams order lifecycle events. Publish failures are reported to
// callers, which log and continue; event streaming never fails a request.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer}
}

func (p *Producer) Publish(topic string, key string, value []byte) error {
	return p.writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
