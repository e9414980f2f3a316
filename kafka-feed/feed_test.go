package kafkafeed

import (
	"context"
	"io"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/assert"
)

func defaultConfig() *Config {
	return &Config{
		Topic:       "frames",
		Partition:   0,
		Offset:      -1,
		FromOldest:  true,
		MaxMessages: 3,
	}
}

func TestFeed(t *testing.T) {
	cfg := defaultConfig()
	consumer := mocks.NewConsumer(t, NewConfig(cfg))
	pc := consumer.ExpectConsumePartition(cfg.Topic, cfg.Partition, sarama.OffsetOldest)
	for _, v := range []string{"one\n", "", "two\n", "three\n"} {
		pc.YieldMessage(&sarama.ConsumerMessage{Value: []byte(v)})
	}

	feed, err := OpenFromConsumer(context.Background(), cfg, consumer)
	assert.Empty(t, err)

	out, err := io.ReadAll(feed.Reader())
	assert.Empty(t, err)
	// the empty message counts towards MaxMessages
	assert.Equal(t, "one\ntwo\n", string(out))

	feed.Close()
}

func TestFeedConsumerError(t *testing.T) {
	cfg := defaultConfig()
	consumer := mocks.NewConsumer(t, NewConfig(cfg))
	pc := consumer.ExpectConsumePartition(cfg.Topic, cfg.Partition, sarama.OffsetOldest)
	pc.YieldError(sarama.ErrOutOfBrokers)

	feed, err := OpenFromConsumer(context.Background(), cfg, consumer)
	assert.Empty(t, err)

	n, err := feed.Reader().Read(make([]byte, 16))
	assert.Equal(t, 0, n)
	cerr, ok := err.(*sarama.ConsumerError)
	assert.True(t, ok)
	if ok {
		assert.Equal(t, sarama.ErrOutOfBrokers, cerr.Err)
	}

	feed.Close()
}

func TestProducerCanceled(t *testing.T) {
	cfg := defaultConfig()
	consumer := mocks.NewConsumer(t, NewConfig(cfg))
	consumer.ExpectConsumePartition(cfg.Topic, cfg.Partition, sarama.OffsetOldest)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	feed, err := OpenFromConsumer(ctx, cfg, consumer)
	assert.Empty(t, err)

	_, err = io.ReadAll(feed.Reader())
	assert.Equal(t, context.Canceled, err)

	feed.Close()
}

func TestStartOffset(t *testing.T) {
	cfg := &Config{Offset: -1}
	assert.Equal(t, sarama.OffsetNewest, cfg.startOffset())
	cfg.FromOldest = true
	assert.Equal(t, sarama.OffsetOldest, cfg.startOffset())
	cfg.Offset = 42
	assert.Equal(t, int64(42), cfg.startOffset())
}
