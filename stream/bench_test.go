package stream

import (
	"testing"

	"github.com/rawbytedev/capsule"
)

type benchEvent struct {
	A, B uint64
}

func (benchEvent) Tag() capsule.Tag { return capsule.T16(0x77) }

func BenchmarkAppend(b *testing.B) {
	s := New(capsule.W16)
	v := benchEvent{A: 1, B: 2}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if i%1024 == 0 {
			s.Reset()
		}
		_ = Append(s, v)
	}
}

func BenchmarkTryRead(b *testing.B) {
	s := New(capsule.W16)
	for i := 0; i < 1024; i++ {
		_ = Append(s, benchEvent{A: uint64(i)})
	}
	data := s.Bytes()
	b.ReportAllocs()
	b.ResetTimer()
	r := NewFrom(capsule.W16, data)
	for i := 0; i < b.N; i++ {
		if r.Remaining() == 0 {
			r = NewFrom(capsule.W16, data)
		}
		_, _, _ = TryRead[benchEvent](r)
	}
}

func BenchmarkSnapshot(b *testing.B) {
	s := New(capsule.W16)
	for i := 0; i < 1024; i++ {
		_ = Append(s, benchEvent{A: uint64(i), B: uint64(i * 3)})
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Snapshot()
	}
}
