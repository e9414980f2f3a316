package kafkafeed

import (
	"context"
	"fmt"
	"io"

	"github.com/Shopify/sarama"
	"github.com/rs/zerolog/log"

	streamio "github.com/usherasnick/feed-reader/stream-io"
)

// NewProducer 将分区消息的value作为数据块.
// 消息通道关闭或已产出maxMessages条消息 (maxMessages > 0) 时结束,
// 消费出错或ctx结束时返回错误.
func NewProducer(ctx context.Context, pc sarama.PartitionConsumer, maxMessages int) streamio.FallibleProducer[[]byte] {
	yielded := 0
	errs := pc.Errors()
	return streamio.FallibleFunc[[]byte](func() ([]byte, error) {
		if maxMessages > 0 && yielded >= maxMessages {
			return nil, io.EOF
		}
		for {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case msg, ok := <-pc.Messages():
				if !ok {
					return nil, io.EOF
				}
				yielded++
				return msg.Value, nil
			case cerr, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				return nil, cerr
			}
		}
	})
}

// Feed 一个分区的消费者, 以字节流的形式读取消息.
type Feed struct {
	conf     *Config
	consumer sarama.Consumer
	pc       sarama.PartitionConsumer
	reader   *streamio.ChunkFeedReader[[]byte]
}

// Open 连接kafka并开始消费cfg指定的分区.
func Open(ctx context.Context, cfg *Config) (*Feed, error) {
	consumer, err := sarama.NewConsumer(cfg.Brokers, NewConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}
	return OpenFromConsumer(ctx, cfg, consumer)
}

// OpenFromConsumer 使用已有的consumer消费cfg指定的分区, Feed关闭时会一并关闭consumer.
func OpenFromConsumer(ctx context.Context, cfg *Config, consumer sarama.Consumer) (*Feed, error) {
	offset := cfg.startOffset()
	pc, err := consumer.ConsumePartition(cfg.Topic, cfg.Partition, offset)
	if err != nil {
		consumer.Close() // nolint
		return nil, fmt.Errorf("failed to consume partition %d of %s from offset %d: %w", cfg.Partition, cfg.Topic, offset, err)
	}
	log.Info().Msgf("create kafka feed, topic: %s, partition: %v, offset: %v", cfg.Topic, cfg.Partition, offset)

	name := fmt.Sprintf("kafka/%s/%d", cfg.Topic, cfg.Partition)
	return &Feed{
		conf:     cfg,
		consumer: consumer,
		pc:       pc,
		reader:   streamio.NewFallible(streamio.WithLogging(name, NewProducer(ctx, pc, cfg.MaxMessages))),
	}, nil
}

// Reader 返回分区消息拼接而成的字节流.
func (f *Feed) Reader() io.Reader {
	return f.reader
}

// Close 关闭分区消费者和consumer.
func (f *Feed) Close() {
	if err := f.pc.Close(); err != nil {
		log.Warn().Err(err).Msgf("failed to close partition consumer, partition: %v", f.conf.Partition)
	}
	if err := f.consumer.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close consumer")
	}
}
