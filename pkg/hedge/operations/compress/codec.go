// Package compress registers the compression operations. Importing it for
// side effects makes them available through operations.Get.
package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hedge-dev/hedgearc/pkg/hedge/operations"
)

// streamCodec adapts a writer/reader pair to operations.Operation.
type streamCodec struct {
	operations.BaseOperation
	newWriter func(io.Writer) (io.WriteCloser, error)
	newReader func(io.Reader) (io.ReadCloser, error)
}

// Apply compresses input.
func (c *streamCodec) Apply(input []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.ApplyStream(bytes.NewReader(input), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ApplyStream compresses a stream.
func (c *streamCodec) ApplyStream(input io.Reader, output io.Writer) error {
	w, err := c.newWriter(output)
	if err != nil {
		return fmt.Errorf("creating %s writer: %w", c.OpName, err)
	}

	if _, err := io.Copy(w, input); err != nil {
		w.Close()
		return fmt.Errorf("compressing stream: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("closing %s writer: %w", c.OpName, err)
	}
	return nil
}

// Reverse decompresses input.
func (c *streamCodec) Reverse(input []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.ReverseStream(bytes.NewReader(input), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReverseStream decompresses a stream.
func (c *streamCodec) ReverseStream(input io.Reader, output io.Writer) error {
	r, err := c.newReader(input)
	if err != nil {
		return fmt.Errorf("creating %s reader: %w", c.OpName, err)
	}
	defer r.Close()

	if _, err := io.Copy(output, r); err != nil {
		return fmt.Errorf("decompressing stream: %w", err)
	}
	return nil
}
