package zkfeed

import (
	"errors"
	"io"
	"testing"

	"github.com/samuel/go-zookeeper/zk"
	"github.com/stretchr/testify/assert"

	streamio "github.com/usherasnick/feed-reader/stream-io"
)

type fakeConn struct {
	nodes map[string][]byte
	names []string
	gets  int
}

func (c *fakeConn) Children(path string) ([]string, *zk.Stat, error) {
	if path != "/feed" {
		return nil, nil, zk.ErrNoNode
	}
	return c.names, &zk.Stat{}, nil
}

func (c *fakeConn) Get(path string) ([]byte, *zk.Stat, error) {
	c.gets++
	data, ok := c.nodes[path]
	if !ok {
		return nil, nil, zk.ErrNoNode
	}
	return data, &zk.Stat{}, nil
}

var _ Conn = (*zk.Conn)(nil)

func TestSequentialChildren(t *testing.T) {
	conn := &fakeConn{
		names: []string{"chunk-0000000002", "chunk-0000000000", "chunk-0000000003", "chunk-0000000001"},
		nodes: map[string][]byte{
			"/feed/chunk-0000000000": []byte("one"),
			"/feed/chunk-0000000001": []byte(""),
			"/feed/chunk-0000000002": []byte("two"),
		},
	}

	out, err := io.ReadAll(streamio.NewFallible(NewProducer(conn, "/feed")))
	assert.Empty(t, err)
	assert.Equal(t, "onetwo", string(out))
	assert.Equal(t, 4, conn.gets)
}

func TestMissingRoot(t *testing.T) {
	r := streamio.NewFallible(NewProducer(&fakeConn{}, "/nowhere"))
	_, err := io.ReadAll(r)
	assert.True(t, errors.Is(err, zk.ErrNoNode))
}
