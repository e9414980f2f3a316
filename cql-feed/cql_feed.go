package cqlfeed

import (
	"fmt"
	"io"

	"github.com/gocql/gocql"

	streamio "github.com/usherasnick/feed-reader/stream-io"
)

// Iter 查询结果迭代器, *gocql.Iter实现了该接口.
type Iter interface {
	Scan(dest ...interface{}) bool
	Close() error
}

// NewProducer 将每一行的单个blob列作为数据块.
// 迭代结束时, 如果Close返回错误则作为数据源故障, 否则返回io.EOF.
func NewProducer(it Iter) streamio.FallibleProducer[[]byte] {
	done := false
	return streamio.FallibleFunc[[]byte](func() ([]byte, error) {
		if done {
			return nil, io.EOF
		}
		var blob []byte
		if it.Scan(&blob) {
			return blob, nil
		}
		done = true
		if err := it.Close(); err != nil {
			return nil, fmt.Errorf("failed to iterate rows: %w", err)
		}
		return nil, io.EOF
	})
}

// Query 执行stmt并把结果作为生产者, stmt应当只选择一个blob或text列.
// SELECT data FROM chunks WHERE stream = ? ORDER BY seq
func Query(session *gocql.Session, stmt string, values ...interface{}) streamio.FallibleProducer[[]byte] {
	return NewProducer(session.Query(stmt, values...).Iter())
}
