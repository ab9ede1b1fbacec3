package codec

import (
	"testing"
)

type benchDescriptor struct {
	Codec     string            `json:"codec"`
	FixedSize int               `json:"fixed_size"`
	SlotCount int               `json:"slot_count"`
	Size      int64             `json:"size"`
	HasHeap   bool              `json:"has_heap"`
	Checksum  string            `json:"checksum"`
	Labels    map[string]string `json:"labels"`
}

var benchValue = benchDescriptor{
	Codec:     "go-json",
	FixedSize: 48,
	SlotCount: 6,
	Size:      4096,
	HasHeap:   true,
	Checksum:  "ipE2qg==",
	Labels: map[string]string{
		"table": "users",
		"shard": "0007",
	},
}

func benchmarkCodecMarshal(b *testing.B, c Codec, v any) {
	b.Helper()
	b.ReportAllocs()

	warm, err := c.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(warm)))

	var sink []byte
	for b.Loop() {
		out, err := c.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkCodecUnmarshal[T any](b *testing.B, c Codec, data []byte, dst *T) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	var v T
	for b.Loop() {
		if err := c.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
	if dst != nil {
		*dst = v
	}
}

func BenchmarkCodec_Marshal_Descriptor(b *testing.B) {
	b.Run("stdlib", func(b *testing.B) { benchmarkCodecMarshal(b, JSON{}, benchValue) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecMarshal(b, GoJSON{}, benchValue) })
}

func BenchmarkCodec_Unmarshal_Descriptor(b *testing.B) {
	jsonData, err := JSON{}.Marshal(benchValue)
	if err != nil {
		b.Fatal(err)
	}

	b.Run("stdlib", func(b *testing.B) {
		var sink benchDescriptor
		benchmarkCodecUnmarshal(b, JSON{}, jsonData, &sink)
		_ = sink
	})
	b.Run("go-json", func(b *testing.B) {
		var sink benchDescriptor
		benchmarkCodecUnmarshal(b, GoJSON{}, jsonData, &sink)
		_ = sink
	})
}
