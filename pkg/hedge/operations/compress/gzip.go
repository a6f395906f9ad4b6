package compress

import (
	"compress/gzip"
	"io"

	"github.com/hedge-dev/hedgearc/pkg/hedge/operations"
)

func init() {
	operations.Register(NewGzipOperation())
}

// NewGzipOperation creates the GZIP operation.
func NewGzipOperation() operations.Operation {
	return &streamCodec{
		BaseOperation: operations.BaseOperation{
			OpID:   operations.OP_GZIP,
			OpName: "GZIP",
		},
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriterLevel(w, gzip.BestCompression)
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		},
	}
}
