package snappy

import (
	"bytes"
	"io"
	"testing"

	"github.com/golang/snappy"
	"github.com/retrodev/pack"
	"github.com/retrodev/pack/internal/corpus"
)

var testInputs = []struct {
	name string
	data []byte
}{
	{"tiles", corpus.Tiles(80000, 1)},
	{"commands", corpus.Commands(50000, 2)},
	{"random", corpus.Random(10000, 3)},
	{"zeros", make([]byte, 100000)},
	{"long literal", corpus.Random(70000, 4)},
	{"empty", nil},
}

func TestEncode(t *testing.T) {
	for _, tc := range testInputs {
		t.Run(tc.name, func(t *testing.T) {
			var stats pack.Stats
			compressed, err := Encode(tc.data, &stats)
			if err != nil {
				t.Fatal(err)
			}
			decompressed, err := snappy.Decode(nil, compressed)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(decompressed, tc.data) {
				t.Fatal("decompressed output doesn't match")
			}
			if stats.Literals+stats.MatchedSymbols != len(tc.data) {
				t.Fatalf("stats cover %d bytes, want %d", stats.Literals+stats.MatchedSymbols, len(tc.data))
			}
		})
	}
}

func TestEncodeStream(t *testing.T) {
	for _, tc := range testInputs {
		t.Run(tc.name, func(t *testing.T) {
			compressed, err := EncodeStream(tc.data, nil)
			if err != nil {
				t.Fatal(err)
			}
			decompressed, err := io.ReadAll(snappy.NewReader(bytes.NewReader(compressed)))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(decompressed, tc.data) {
				t.Fatal("decompressed output doesn't match")
			}
		})
	}
}

func TestBeatsReference(t *testing.T) {
	data := corpus.Tiles(65536, 5)
	ours, err := Encode(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ref := snappy.Encode(nil, data); len(ours) > len(ref) {
		t.Fatalf("%d bytes, reference encoder %d", len(ours), len(ref))
	}
}

func benchmark(b *testing.B, data []byte) {
	b.StopTimer()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	out, err := EncodeStream(data, nil)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportMetric(float64(len(data))/float64(len(out)), "ratio")
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		EncodeStream(data, nil)
	}
}

func BenchmarkEncode(b *testing.B) {
	benchmark(b, corpus.Tiles(262144, 1))
}

func BenchmarkReference(b *testing.B) {
	data := corpus.Tiles(262144, 1)
	b.StopTimer()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	buf := new(bytes.Buffer)
	w := snappy.NewBufferedWriter(buf)
	w.Write(data)
	w.Close()
	b.ReportMetric(float64(len(data))/float64(buf.Len()), "ratio")
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		w.Reset(io.Discard)
		w.Write(data)
		w.Close()
	}
}
