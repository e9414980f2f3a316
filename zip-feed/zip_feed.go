package zipfeed

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"

	streamio "github.com/usherasnick/feed-reader/stream-io"
)

const __DefaultMaxMemberSize = 64 * 1024 * 1024

// ErrMemberTooLarge 包内文件解压后超过单个数据块的大小上限.
var ErrMemberTooLarge = errors.New("zip member exceeds max chunk size")

// Archive 以数据块的形式读取zip包内的文件.
// 每个文件作为一个完整的数据块读入内存, 大小受maxMemberSize限制.
type Archive struct {
	zr            *zip.ReadCloser
	maxMemberSize int64
}

// Open 打开src指向的zip包, 单个文件上限为64MB.
func Open(src string) (*Archive, error) {
	return OpenWithLimit(src, __DefaultMaxMemberSize)
}

// OpenWithLimit 打开src指向的zip包, 单个文件解压后不得超过limit字节.
func OpenWithLimit(src string, limit int64) (*Archive, error) {
	if limit <= 0 {
		limit = __DefaultMaxMemberSize
	}
	zr, err := zip.OpenReader(src)
	if err != nil {
		return nil, err
	}
	return &Archive{zr: zr, maxMemberSize: limit}, nil
}

// Names 返回包内普通文件的名字, 顺序与Producer一致.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.zr.File))
	for _, f := range a.zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}
	return names
}

// Producer 按包内顺序依次返回每个普通文件的完整内容, 跳过目录.
func (a *Archive) Producer() streamio.FallibleProducer[[]byte] {
	pos := 0
	files := a.zr.File
	return streamio.FallibleFunc[[]byte](func() ([]byte, error) {
		for pos < len(files) {
			f := files[pos]
			pos++
			if f.FileInfo().IsDir() {
				continue
			}
			return readMember(f, a.maxMemberSize)
		}
		return nil, io.EOF
	})
}

func readMember(file *zip.File, limit int64) ([]byte, error) {
	if file.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("%s: %w", file.Name, ErrMemberTooLarge)
	}
	fr, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	// the declared size is not trusted, read at most one byte past the limit
	data, err := io.ReadAll(io.LimitReader(fr, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w", file.Name, ErrMemberTooLarge)
	}
	return data, nil
}

// Close 关闭zip包.
func (a *Archive) Close() error {
	return a.zr.Close()
}
