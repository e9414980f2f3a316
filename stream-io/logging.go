package streamio

import (
	"io"

	"github.com/rs/zerolog/log"
)

type loggedProducer[C Chunk] struct {
	name   string
	p      FallibleProducer[C]
	chunks int
	bytes  int
}

// WithLogging 记录生产者产出的数据块数量和字节数, 以及结束或出错的时刻.
func WithLogging[C Chunk](name string, p FallibleProducer[C]) FallibleProducer[C] {
	return &loggedProducer[C]{name: name, p: p}
}

func (l *loggedProducer[C]) NextChunk() (C, error) {
	chunk, err := l.p.NextChunk()
	switch {
	case err == io.EOF:
		log.Info().Str("[producer]", l.name).Msgf("stream ended after %d chunks, %d bytes", l.chunks, l.bytes)
	case err != nil:
		log.Warn().Err(err).Str("[producer]", l.name).Msgf("stream failed after %d chunks, %d bytes", l.chunks, l.bytes)
	default:
		l.chunks++
		l.bytes += len(chunk)
		log.Debug().Str("[producer]", l.name).Msgf("chunk-%d, %d bytes", l.chunks, len(chunk))
	}
	return chunk, err
}
