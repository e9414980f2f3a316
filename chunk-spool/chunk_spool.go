package chunkspool

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/allegro/bigcache"

	streamio "github.com/usherasnick/feed-reader/stream-io"
)

const (
	__DefaultEvictionTime = 100 * 365 * 24 * time.Hour
	__DefaultShardsFactor = 100
	__DefaultMaxShards    = 128
	__DefaultMaxChunks    = 1024
	__DefaultMaxChunkSize = 64 * 1024
	__OneMB               = 1024 * 1024
)

// Config Spool配置
type Config struct {
	MaxChunks    uint64 `json:"max_chunks"`     // 最多可缓存的数据块数量
	MaxChunkSize uint64 `json:"max_chunk_size"` // 数据块大小, unit is byte
}

// bigCacheConfig fills defaults on a copy, cfg itself is left untouched.
func (cfg Config) bigCacheConfig() bigcache.Config {
	if cfg.MaxChunks == 0 {
		cfg.MaxChunks = __DefaultMaxChunks
	}
	if cfg.MaxChunkSize == 0 {
		cfg.MaxChunkSize = __DefaultMaxChunkSize
	}

	bcCfg := bigcache.DefaultConfig(__DefaultEvictionTime)
	bcCfg.Verbose = false

	shardsUpLimit := uint(cfg.MaxChunks/__DefaultShardsFactor) + 1
	bcCfg.Shards = int(nearestPowerOf2(shardsUpLimit))
	if bcCfg.Shards > __DefaultMaxShards {
		bcCfg.Shards = __DefaultMaxShards
	}

	bcCfg.MaxEntriesInWindow = 10 * bcCfg.Shards
	bcCfg.MaxEntrySize = int(cfg.MaxChunkSize)
	bcCfg.HardMaxCacheSize = int((cfg.MaxChunks*cfg.MaxChunkSize)/__OneMB) + 1
	return bcCfg
}

// Spool 在内存中按序号暂存数据流的数据块, 之后可以作为生产者完整回放.
// Chunks are stored as []byte in bigcache shards to keep them off the GC's scan path.
type Spool struct {
	mu    sync.Mutex
	cache *bigcache.BigCache
	next  map[string]int
}

// New 返回Spool实例.
func New(cfg *Config) (*Spool, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cache, err := bigcache.NewBigCache(cfg.bigCacheConfig())
	if err != nil {
		return nil, err
	}
	return &Spool{
		cache: cache,
		next:  make(map[string]int),
	}, nil
}

// Append 将数据块追加到stream末尾, 返回其序号.
func (s *Spool) Append(stream string, chunk []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.next[stream]
	if err := s.cache.Set(chunkKey(stream, seq), chunk); err != nil {
		return -1, fmt.Errorf("failed to spool chunk-%d of stream %s: %w", seq, stream, err)
	}
	s.next[stream] = seq + 1
	return seq, nil
}

// ErrEvicted 数据块在回放前已被bigcache淘汰.
var ErrEvicted = errors.New("chunk has been evicted")

// Producer 从序号0开始回放stream中此刻已追加的数据块.
// 回放到末尾时返回io.EOF; 中途发现数据块已被淘汰时返回ErrEvicted.
func (s *Spool) Producer(stream string) streamio.FallibleProducer[[]byte] {
	s.mu.Lock()
	count := s.next[stream]
	s.mu.Unlock()

	seq := 0
	return streamio.FallibleFunc[[]byte](func() ([]byte, error) {
		if seq >= count {
			return nil, io.EOF
		}
		chunk, err := s.cache.Get(chunkKey(stream, seq))
		if err == bigcache.ErrEntryNotFound {
			return nil, fmt.Errorf("chunk-%d of stream %s: %w", seq, stream, ErrEvicted)
		}
		if err != nil {
			return nil, err
		}
		seq++
		return chunk, nil
	})
}

// Len 返回Spool当前缓存的数据块数量.
func (s *Spool) Len() int {
	return s.cache.Len()
}

// Reset 清空所有数据流.
func (s *Spool) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next = make(map[string]int)
	return s.cache.Reset()
}

func chunkKey(stream string, seq int) string {
	return fmt.Sprintf("%s/%08d", stream, seq)
}

func nearestPowerOf2(n uint) uint {
	if (n & (n - 1)) == 0 {
		return n
	}
	k := uint(1)
	for (k << 1) < n {
		k <<= 1
	}
	return k
}
