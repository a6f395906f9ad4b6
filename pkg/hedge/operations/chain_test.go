package operations

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseChain(t *testing.T) {
	testCases := []struct {
		input string
		want  []uint8
	}{
		{input: "", want: nil},
		{input: "raw", want: nil},
		{input: "GZIP", want: []uint8{OP_GZIP}},
		{input: "bz2", want: []uint8{OP_BZIP2}},
		{input: "lz4", want: []uint8{OP_LZ4}},
		{input: "gzip | lz4", want: []uint8{OP_GZIP, OP_LZ4}},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseChain(tc.input)
			if err != nil {
				t.Fatalf("ParseChain(%q) failed: %v", tc.input, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseChain(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestParseChainUnknown(t *testing.T) {
	for _, input := range []string{"zstd", "gzip|zstd", "tar"} {
		if _, err := ParseChain(input); err == nil {
			t.Errorf("ParseChain(%q) succeeded, want error", input)
		}
	}
}

func TestChainString(t *testing.T) {
	if got := ChainString(nil); got != "raw" {
		t.Errorf("ChainString(nil) = %q", got)
	}
	if got := ChainString([]uint8{OP_GZIP, OP_LZ4}); got != "gzip|lz4" {
		t.Errorf("ChainString = %q", got)
	}
	if got := ChainString([]uint8{0x7F}); got != "unknown_7f" {
		t.Errorf("ChainString(unknown) = %q", got)
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get(0x7F); err == nil {
		t.Errorf("Get(0x7F) succeeded")
	}
}
