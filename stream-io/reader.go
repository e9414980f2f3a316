package streamio

/* Reading Rules

type Reader interface {
    Read(p []byte) (n int, err error)
}

1. A Read() call will read up to len(p) into p, when possible.
2. After a Read() call, n may be less then len(p).
3. Upon error, a Read() call may still return n bytes in transfer buffer p.
   For instance, reading from a TCP socket that is abruptly closed.
   Depending on your own use, you may choose to keep the bytes in p or just retry.
4. When a Read() call exhausts available data, a reader may return a non-zero n and err=io.EOF.
   However, depending on implementation, a reader may choose to return a non-zero n and err=nil at the end of stream.
   In that case, any subsequent read ops must return n=0, err=io.EOF.
5. A Read() call that returns n=0 and err=nil does not mean EOF as the next call to Read() may return more data.

ChunkFeedReader follows rule 4 the second way: bytes copied before the producer ends are
returned with err=nil, and n=0 is only ever returned together with a non-nil error (or for an
empty p).

*/

import (
	"io"
)

// Chunk 生产者每次返回的数据块类型, 可以零拷贝地视为字节序列.
type Chunk interface {
	~[]byte | ~string
}

// ChunkFeedReader 从生产者函数中按需拉取数据块的io.Reader (非线程安全).
type ChunkFeedReader[C Chunk] struct {
	producer FallibleProducer[C]
	current  C
	offset   int
	finished bool
	err      error
}

// New 返回ChunkFeedReader实例, 数据来自p, 直到p报告没有更多数据.
func New[C Chunk](p Producer[C]) *ChunkFeedReader[C] {
	return NewFallible[C](infallible[C]{p})
}

// NewFunc 返回ChunkFeedReader实例, 数据来自函数f.
func NewFunc[C Chunk](f func() (C, bool)) *ChunkFeedReader[C] {
	return New[C](ProducerFunc[C](f))
}

// NewFallible 返回ChunkFeedReader实例, p返回io.EOF代表数据结束, 返回其他错误代表数据源故障.
func NewFallible[C Chunk](p FallibleProducer[C]) *ChunkFeedReader[C] {
	return &ChunkFeedReader[C]{
		producer: p,
	}
}

// Read 实现io.Reader接口.
func (r *ChunkFeedReader[C]) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	written := 0
	for !r.finished && written < len(p) {
		n := copy(p[written:], r.current[r.offset:])
		written += n
		r.offset += n

		if r.offset == len(r.current) {
			r.offset = 0
			r.advance()
		}
	}

	if written == 0 && r.finished {
		return 0, r.err
	}
	return written, nil
}

// advance pulls the next chunk. A zero-length chunk is kept as current and the
// caller's loop asks again.
func (r *ChunkFeedReader[C]) advance() {
	chunk, err := r.producer.NextChunk()
	if err != nil {
		var empty C
		r.current = empty
		r.finished = true
		r.err = err
		return
	}
	r.current = chunk
}

// Exhausted 判断生产者是否已经结束 (正常结束或出错).
func (r *ChunkFeedReader[C]) Exhausted() bool {
	return r.finished
}

// Buffered 返回当前数据块中尚未被读取的字节数.
func (r *ChunkFeedReader[C]) Buffered() int {
	return len(r.current) - r.offset
}

// Err 返回终止读取的错误, 数据源未结束时为nil, 正常结束时为io.EOF.
func (r *ChunkFeedReader[C]) Err() error {
	return r.err
}

var _ io.Reader = (*ChunkFeedReader[[]byte])(nil)
