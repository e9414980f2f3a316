package streamio

import (
	"io"
)

// Producer 数据块生产者, Next返回false代表没有更多数据.
// 返回false之后, ChunkFeedReader不会再调用Next.
type Producer[C Chunk] interface {
	Next() (C, bool)
}

// ProducerFunc 将普通函数适配为Producer.
type ProducerFunc[C Chunk] func() (C, bool)

// Next 调用f.
func (f ProducerFunc[C]) Next() (C, bool) {
	return f()
}

// FallibleProducer 可能出错的数据块生产者.
// NextChunk返回io.EOF代表没有更多数据, 返回其他错误代表数据源故障.
type FallibleProducer[C Chunk] interface {
	NextChunk() (C, error)
}

// FallibleFunc 将普通函数适配为FallibleProducer.
type FallibleFunc[C Chunk] func() (C, error)

// NextChunk 调用f.
func (f FallibleFunc[C]) NextChunk() (C, error) {
	return f()
}

type infallible[C Chunk] struct {
	p Producer[C]
}

func (i infallible[C]) NextChunk() (C, error) {
	chunk, ok := i.p.Next()
	if !ok {
		return chunk, io.EOF
	}
	return chunk, nil
}

// FromSlice 依次返回chunks中的数据块, 然后结束.
func FromSlice[C Chunk](chunks ...C) Producer[C] {
	pos := 0
	return ProducerFunc[C](func() (C, bool) {
		if pos == len(chunks) {
			var empty C
			return empty, false
		}
		chunk := chunks[pos]
		pos++
		return chunk, true
	})
}

// Lines 依次返回items中的每一项并附加换行符.
func Lines(items ...string) Producer[string] {
	pos := 0
	return ProducerFunc[string](func() (string, bool) {
		if pos == len(items) {
			return "", false
		}
		line := items[pos] + "\n"
		pos++
		return line, true
	})
}
