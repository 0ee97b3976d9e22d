package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/letservice/internal/logger"
	"github.com/segmentio/kafka-go"
)

type Producer struct {
	brokers    []string
	writer     *kafka.Writer
	logger     logger.Logger
	maxRetries int
	backoff    time.Duration
}

type ProducerOption func(*Producer)

func WithRetries(maxRetries int, backoff time.Duration) ProducerOption {
	return func(p *Producer) {
		if maxRetries > 0 {
			p.maxRetries = maxRetries
		}
		p.backoff = backoff
	}
}

func NewProducer(brokers []string, log logger.Logger, opts ...ProducerOption) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	p := &Producer{
		brokers:    brokers,
		writer:     writer,
		logger:     log,
		maxRetries: 1,
		backoff:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish writes payload as JSON, retrying with a linear backoff.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	var lastErr error
	for i := 0; i < p.maxRetries; i++ {
		if lastErr = p.writer.WriteMessages(ctx, message); lastErr == nil {
			p.logger.Debug("published event", logger.F("topic", topic), logger.F("key", key))
			return nil
		}
		p.logger.Warn("publish attempt failed", logger.F("topic", topic), logger.F("attempt", i+1), logger.F("error", lastErr))

		if i < p.maxRetries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * p.backoff):
			}
		}
	}
	return fmt.Errorf("failed to write message to Kafka after %d attempts: %w", p.maxRetries, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and reads its partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	p.logger.Info("connected to kafka", logger.F("broker", p.brokers[0]), logger.F("partitions", len(partitions)))
	return nil
}
