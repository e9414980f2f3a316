package streamio

import (
	"context"
	"io"
)

// FromChannel 从ch中读取数据块, ch关闭时结束, ctx结束时返回ctx.Err().
// 读取会一直阻塞到ch中有数据为止.
func FromChannel[C Chunk](ctx context.Context, ch <-chan C) FallibleProducer[C] {
	return FallibleFunc[C](func() (C, error) {
		var empty C
		select {
		case <-ctx.Done():
			return empty, ctx.Err()
		case chunk, ok := <-ch:
			if !ok {
				return empty, io.EOF
			}
			return chunk, nil
		}
	})
}
