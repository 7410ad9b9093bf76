package kafka

import (
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/identra/identity-service/internal/infra/config"
)

// Producer wraps a Sarama async producer with error draining and lifecycle
// management.
type Producer struct {
	producer sarama.AsyncProducer
	logger   *zap.Logger
	cfg      config.KafkaSettings
	errChan  chan error
	done     chan struct{}
}

func producerConfig() *sarama.Config {
	sc := sarama.NewConfig()
	sc.Version = sarama.V3_5_0_0

	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Compression = sarama.CompressionSnappy
	sc.Producer.Flush.Frequency = 100 * time.Millisecond
	sc.Producer.Flush.Messages = 100
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = false
	sc.Producer.Return.Errors = true

	sc.Metadata.Retry.Max = 3
	sc.Metadata.Retry.Backoff = 250 * time.Millisecond

	return sc
}

// NewProducer connects an async producer to the configured brokers and starts
// draining its error channel.
func NewProducer(cfg config.KafkaSettings, logger *zap.Logger) (*Producer, error) {
	producer, err := sarama.NewAsyncProducer(cfg.Brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	p := &Producer{
		producer: producer,
		logger:   logger,
		cfg:      cfg,
		errChan:  make(chan error, 256),
		done:     make(chan struct{}),
	}
	go p.drainErrors()

	logger.Info("kafka producer ready",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic_prefix", cfg.TopicPrefix),
	)
	return p, nil
}

// drainErrors logs delivery failures and forwards them to the error channel
// without ever blocking the producer.
func (p *Producer) drainErrors() {
	for {
		select {
		case perr := <-p.producer.Errors():
			if perr == nil {
				continue
			}
			p.logger.Error("kafka delivery failed",
				zap.Error(perr.Err),
				zap.String("topic", perr.Msg.Topic),
				zap.Int32("partition", perr.Msg.Partition),
			)
			select {
			case p.errChan <- perr.Err:
			default:
			}
		case <-p.done:
			return
		}
	}
}

// Producer returns the underlying Sarama async producer.
func (p *Producer) Producer() sarama.AsyncProducer {
	return p.producer
}

// Errors returns the error channel for external monitoring.
func (p *Producer) Errors() <-chan error {
	return p.errChan
}

// Close stops the drain loop and flushes pending messages.
func (p *Producer) Close() error {
	p.logger.Info("closing kafka producer")
	close(p.done)

	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	close(p.errChan)
	return nil
}

// TopicName prepends the configured prefix unless the event type already
// carries it.
func (p *Producer) TopicName(eventType string) string {
	if p.cfg.TopicPrefix == "" {
		return eventType
	}
	prefix := p.cfg.TopicPrefix + "."
	if strings.HasPrefix(eventType, prefix) {
		return eventType
	}
	return prefix + eventType
}
