package streamio

import (
	"io"
	"sync"
)

// LockedReader 为任意io.Reader加上互斥锁, 使其可以被多个协程共享.
// ChunkFeedReader本身不加锁.
type LockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

// Locked 返回LockedReader实例.
func Locked(r io.Reader) *LockedReader {
	return &LockedReader{r: r}
}

// Read 实现io.Reader接口.
func (l *LockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.r.Read(p)
}
