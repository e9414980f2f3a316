package tpsctrl

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	streamio "github.com/usherasnick/feed-reader/stream-io"
)

func bytesProducer(chunks ...string) streamio.FallibleProducer[[]byte] {
	pos := 0
	return streamio.FallibleFunc[[]byte](func() ([]byte, error) {
		if pos == len(chunks) {
			return nil, io.EOF
		}
		chunk := chunks[pos]
		pos++
		return []byte(chunk), nil
	})
}

func TestThrottle(t *testing.T) {
	th := NewThrottle(8)

	start := time.Now()
	// 8 tokens are available up front, the next 8 take about one second
	out, err := io.ReadAll(streamio.NewFallible(th.Wrap(bytesProducer("abcd", "efgh", "ijkl", "mnop"))))
	assert.Empty(t, err)
	assert.Equal(t, "abcdefghijklmnop", string(out))
	assert.True(t, time.Since(start) >= 500*time.Millisecond)
}

func TestNilThrottle(t *testing.T) {
	th := NewThrottle(0)
	assert.Nil(t, th)

	out, err := io.ReadAll(streamio.NewFallible(th.Wrap(bytesProducer("a", "", "b"))))
	assert.Empty(t, err)
	assert.Equal(t, "ab", string(out))
}
