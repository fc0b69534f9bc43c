package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/colonyops/toaster/internal/core/config"
	"github.com/colonyops/toaster/internal/core/logging"
	"github.com/colonyops/toaster/internal/core/toast"
)

const maxBackoff = 30 * time.Second

// Consumer applies commands from a Kafka topic to a toast store using a
// consumer group.
type Consumer struct {
	topic string
	group sarama.ConsumerGroup
	store *toast.Store
	log   zerolog.Logger
}

// Dial creates the consumer group described by cfg.
func Dial(cfg config.KafkaConfig) (sarama.ConsumerGroup, error) {
	sc := sarama.NewConfig()
	sc.Version = sarama.V2_1_0_0
	sc.Consumer.Return.Errors = true
	sc.Consumer.Offsets.Initial = sarama.OffsetNewest

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.Group, sc)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer group: %w", err)
	}
	return group, nil
}

// NewConsumer returns a consumer reading topic through group.
func NewConsumer(topic string, group sarama.ConsumerGroup, store *toast.Store) *Consumer {
	return &Consumer{
		topic: topic,
		group: group,
		store: store,
		log:   logging.Component("ingest").With().Str("topic", topic).Logger(),
	}
}

// Start consumes until ctx is cancelled or the group is closed. The group is
// closed on return.
func (c *Consumer) Start(ctx context.Context) error {
	defer func() {
		if err := c.group.Close(); err != nil {
			c.log.Warn().Err(err).Msg("close consumer group")
		}
	}()

	go c.logErrors(ctx)

	c.log.Info().Msg("kafka consumer started")

	backoff := time.Second
	for {
		err := c.group.Consume(ctx, []string{c.topic}, c)
		if ctx.Err() != nil {
			c.log.Info().Msg("kafka consumer stopped")
			return nil
		}
		if err == nil {
			// rebalance
			backoff = time.Second
			continue
		}
		if errors.Is(err, sarama.ErrClosedConsumerGroup) {
			return err
		}

		c.log.Error().Err(err).Dur("backoff", backoff).Msg("consume failed")
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

func (c *Consumer) logErrors(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-c.group.Errors():
			if !ok {
				return
			}
			c.log.Warn().Err(err).Msg("kafka consumer error")
		}
	}
}

// Setup implements sarama.ConsumerGroupHandler.
func (c *Consumer) Setup(session sarama.ConsumerGroupSession) error {
	for topic, partitions := range session.Claims() {
		c.log.Info().Str("claim", topic).Ints32("partitions", partitions).Msg("partition assignment")
	}
	return nil
}

// Cleanup implements sarama.ConsumerGroupHandler.
func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim implements sarama.ConsumerGroupHandler. Every message is
// marked, including ones that fail to decode or apply, so a bad message is
// never redelivered.
func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case <-session.Context().Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			c.handle(msg)
			session.MarkMessage(msg, "")
		}
	}
}

func (c *Consumer) handle(msg *sarama.ConsumerMessage) {
	log := c.log.With().
		Int32("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Logger()

	var cmd Command
	if err := json.Unmarshal(msg.Value, &cmd); err != nil {
		log.Warn().Err(err).Msg("skip undecodable message")
		return
	}

	id, err := Apply(c.store, cmd)
	if err != nil {
		log.Warn().Err(err).Str("type", cmd.Type).Msg("skip invalid command")
		return
	}

	log.Debug().Str("type", cmd.Type).Str("toast_id", id).Msg("command applied")
}
