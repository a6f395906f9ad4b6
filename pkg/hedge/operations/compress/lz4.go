package compress

import (
	"io"

	"github.com/hedge-dev/hedgearc/pkg/hedge/operations"
	"github.com/pierrec/lz4/v4"
)

func init() {
	operations.Register(NewLz4Operation())
}

// NewLz4Operation creates the LZ4 frame operation.
func NewLz4Operation() operations.Operation {
	return &streamCodec{
		BaseOperation: operations.BaseOperation{
			OpID:   operations.OP_LZ4,
			OpName: "LZ4",
		},
		newWriter: func(w io.Writer) (io.WriteCloser, error) {
			return lz4.NewWriter(w), nil
		},
		newReader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(lz4.NewReader(r)), nil
		},
	}
}
