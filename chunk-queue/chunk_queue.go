package chunkqueue

import (
	"errors"
	"io"
	"sync"

	"github.com/gammazero/deque"
)

const __DefaultCapacity = 128

// ErrClosed 向已关闭的队列写入数据.
var ErrClosed = errors.New("chunk queue has been closed")

// Queue 有界阻塞队列, 写端Push数据块, 读端作为ChunkFeedReader的生产者.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	q      deque.Deque
	cap    int
	closed bool
}

// New 返回Queue实例, capacity为0时使用默认容量.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = __DefaultCapacity
	}
	q := Queue{
		cap: capacity,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return &q
}

// Push 写入数据块, 队列满时阻塞.
func (q *Queue) Push(chunk []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for !q.closed && q.q.Len() >= q.cap {
		q.notFull.Wait()
	}
	if q.closed {
		return ErrClosed
	}

	q.q.PushBack(chunk)
	q.notEmpty.Signal()
	return nil
}

// NextChunk 取出最早写入的数据块, 队列空时阻塞; 队列关闭且已取空时返回io.EOF.
func (q *Queue) NextChunk() ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for !q.closed && q.q.Len() == 0 {
		q.notEmpty.Wait()
	}
	if q.q.Len() == 0 {
		return nil, io.EOF
	}

	chunk := q.q.PopFront().([]byte)
	q.notFull.Signal()
	return chunk, nil
}

// Close 关闭队列, 已写入的数据块仍然可以被读取.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Len 返回队列中的数据块数量.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.q.Len()
}
