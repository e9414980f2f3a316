package tpsctrl

import (
	"time"

	"github.com/juju/ratelimit"
	"github.com/rs/zerolog/log"

	streamio "github.com/usherasnick/feed-reader/stream-io"
)

// Throttle 用于限制生产者产出数据的速率 (字节/秒)
type Throttle struct {
	quota  int64
	bucket *ratelimit.Bucket
}

// NewThrottle 返回Throttle实例.
// Max(bytes per second) == quota
func NewThrottle(quota int64) *Throttle {
	if quota <= 0 {
		return nil
	}
	return &Throttle{
		quota:  quota,
		bucket: ratelimit.NewBucketWithRate(float64(quota), quota),
	}
}

// TakeX 从令牌桶中取x个令牌, 如果当前无可用令牌, 等待直到出现可用令牌.
func (t *Throttle) TakeX(x int64) {
	if t == nil || t.bucket == nil || x <= 0 {
		return
	}
	waitUntilAvailable := t.bucket.Take(x)
	if waitUntilAvailable != 0 {
		log.Warn().Msgf("byte quota %d/s exceeds, wait %s until resource turns to be available", t.quota, waitUntilAvailable.String())
		time.Sleep(waitUntilAvailable)
	}
}

// Wrap 返回限速后的生产者, 每个数据块消耗len(chunk)个令牌.
func (t *Throttle) Wrap(p streamio.FallibleProducer[[]byte]) streamio.FallibleProducer[[]byte] {
	if t == nil {
		return p
	}
	return streamio.FallibleFunc[[]byte](func() ([]byte, error) {
		chunk, err := p.NextChunk()
		if err != nil {
			return chunk, err
		}
		t.TakeX(int64(len(chunk)))
		return chunk, nil
	})
}
