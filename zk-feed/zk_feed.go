package zkfeed

import (
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samuel/go-zookeeper/zk"

	streamio "github.com/usherasnick/feed-reader/stream-io"
)

// Conn zookeeper连接, *zk.Conn实现了该接口.
type Conn interface {
	Children(path string) ([]string, *zk.Stat, error)
	Get(path string) ([]byte, *zk.Stat, error)
}

// NewProducer 依次返回root下各个子节点的数据.
// 子节点在第一次调用时列出并按名字排序, 适用于zk.FlagSequence创建的顺序节点.
func NewProducer(conn Conn, root string) streamio.FallibleProducer[[]byte] {
	var children []string
	listed := false
	pos := 0
	return streamio.FallibleFunc[[]byte](func() ([]byte, error) {
		if !listed {
			names, _, err := conn.Children(root)
			if err != nil {
				return nil, fmt.Errorf("failed to list znode (%s): %w", root, err)
			}
			sort.Strings(names)
			children = names
			listed = true
			log.Debug().Msgf("znode (%s) has %d children", root, len(children))
		}
		for pos < len(children) {
			p := path.Join(root, children[pos])
			pos++
			data, _, err := conn.Get(p)
			if err == zk.ErrNoNode {
				// deleted after listing
				log.Warn().Msgf("znode (%s) disappeared, skip it", p)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to get value from znode (%s): %w", p, err)
			}
			return data, nil
		}
		return nil, io.EOF
	})
}
