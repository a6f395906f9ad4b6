package operations

import (
	"fmt"
	"strings"
)

// Named chains for parsing
var namedChains = map[string][]uint8{
	"raw":   {},
	"gzip":  {OP_GZIP},
	"gz":    {OP_GZIP},
	"bzip2": {OP_BZIP2},
	"bz2":   {OP_BZIP2},
	"lz4":   {OP_LZ4},
}

// Named operations for parsing
var namedOperations = map[string]uint8{
	"GZIP":  OP_GZIP,
	"BZIP2": OP_BZIP2,
	"LZ4":   OP_LZ4,
}

// ParseChain parses "gzip", "bz2" or a pipe-separated list like
// "gzip|lz4". An empty string or "raw" is the empty chain.
func ParseChain(s string) ([]uint8, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}

	if ops, ok := namedChains[s]; ok {
		return append([]uint8(nil), ops...), nil
	}

	if !strings.Contains(s, "|") {
		return nil, fmt.Errorf("unknown operation string: %s", s)
	}

	var ops []uint8
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(strings.ToUpper(part))
		if part == "" {
			continue
		}
		op, ok := namedOperations[part]
		if !ok {
			return nil, fmt.Errorf("unsupported operation: %s", part)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// ChainString converts a chain to its human-readable form.
func ChainString(ops []uint8) string {
	if len(ops) == 0 {
		return "raw"
	}
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = strings.ToLower(GetName(op))
	}
	return strings.Join(names, "|")
}

// ApplyChain applies a chain of operations to data
func ApplyChain(data []byte, ops []uint8) ([]byte, error) {
	current := data

	for _, opID := range ops {
		op, err := Get(opID)
		if err != nil {
			return nil, fmt.Errorf("operation 0x%02x: %w", opID, err)
		}

		result, err := op.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("applying %s: %w", op.Name(), err)
		}

		current = result
	}

	return current, nil
}

// ReverseChain reverses a chain of operations on data
func ReverseChain(data []byte, ops []uint8) ([]byte, error) {
	current := data

	// Apply operations in reverse order
	for i := len(ops) - 1; i >= 0; i-- {
		opID := ops[i]
		op, err := Get(opID)
		if err != nil {
			return nil, fmt.Errorf("operation 0x%02x: %w", opID, err)
		}

		result, err := op.Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("reversing %s: %w", op.Name(), err)
		}

		current = result
	}

	return current, nil
}
