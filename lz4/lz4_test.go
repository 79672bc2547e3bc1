package lz4

import (
	"bytes"
	"io"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/retrodev/pack"
	"github.com/retrodev/pack/internal/corpus"
)

var testInputs = []struct {
	name string
	data []byte
}{
	{"tiles", corpus.Tiles(65536, 1)},
	{"commands", corpus.Commands(50000, 2)},
	{"random", corpus.Random(10000, 3)},
	{"zeros", make([]byte, 100000)},
	{"short", []byte("abcdabcdabcdabcd")},
	{"empty", nil},
}

func TestBlockEncode(t *testing.T) {
	for _, tc := range testInputs {
		t.Run(tc.name, func(t *testing.T) {
			if len(tc.data) == 0 {
				t.Skip("UncompressBlock needs a non-empty destination")
			}
			var stats pack.Stats
			compressed, err := Compress(tc.data, &stats)
			if err != nil {
				t.Fatal(err)
			}

			decompressed := make([]byte, len(tc.data))
			n, err := lz4.UncompressBlock(compressed, decompressed)
			if err != nil {
				t.Fatal(err)
			}
			if n != len(tc.data) {
				t.Fatalf("Got %d bytes, wanted %d", n, len(tc.data))
			}
			if !bytes.Equal(decompressed, tc.data) {
				t.Fatal("Decompressed output does not match")
			}
			if stats.Literals+stats.MatchedSymbols != len(tc.data) {
				t.Fatalf("stats cover %d bytes, want %d", stats.Literals+stats.MatchedSymbols, len(tc.data))
			}
		})
	}
}

func TestFrameEncode(t *testing.T) {
	for _, tc := range testInputs {
		t.Run(tc.name, func(t *testing.T) {
			compressed, err := CompressFrame(tc.data, nil)
			if err != nil {
				t.Fatal(err)
			}

			decompressed, err := io.ReadAll(lz4.NewReader(bytes.NewReader(compressed)))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(decompressed, tc.data) {
				t.Fatal("Decompressed output does not match")
			}
		})
	}
}

// The optimal parse should never lose to the reference compressor's
// fastest mode.
func TestBeatsReference(t *testing.T) {
	data := corpus.Tiles(65536, 4)
	ours, err := Compress(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	ref := make([]byte, lz4.CompressBlockBound(len(data)))
	var c lz4.Compressor
	n, err := c.CompressBlock(data, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(ours) > n {
		t.Fatalf("%d bytes, reference compressor %d", len(ours), n)
	}
}

func BenchmarkBlockEncode(b *testing.B) {
	data := corpus.Tiles(65536, 1)
	b.StopTimer()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	out, err := Compress(data, nil)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportMetric(float64(len(data))/float64(len(out)), "ratio")
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		Compress(data, nil)
	}
}
