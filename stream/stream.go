// Package stream appends discriminant-prefixed values to a byte sequence
// and scans them back type by type. Every entry is the little-endian
// discriminant at the stream's fixed width followed by the value's raw
// bytes; TryRead peeks the next discriminant and only consumes the entry
// when the caller's type matches, so several candidate types can be tried
// against the same position.
//
// Like the core codec the stream is opt-in unsafe byte reinterpretation
// behind a typed API; it is kept out of the root package so the capsule
// surface stays allocation-free and stateless.
package stream

import (
	"encoding/binary"
	"errors"
	"reflect"
	"unsafe"

	"github.com/rawbytedev/capsule"
)

var ErrShortStream = errors.New("stream: truncated entry")

// Stream is an append-only byte sequence with a sequential read cursor.
// All entries share one discriminant width, fixed at construction. A
// Stream is not safe for concurrent use; callers own the synchronization.
type Stream struct {
	width capsule.Width
	buf   []byte
	pos   int
}

// New returns an empty stream whose discriminants are stored at width w.
func New(w capsule.Width) *Stream {
	return &Stream{width: w}
}

// NewFrom wraps existing stream bytes for reading. The slice is aliased,
// not copied.
func NewFrom(w capsule.Width, data []byte) *Stream {
	return &Stream{width: w, buf: data}
}

func (s *Stream) Width() capsule.Width { return s.width }

// Len is the total number of bytes written, read or not.
func (s *Stream) Len() int { return len(s.buf) }

// Remaining is the number of unread bytes.
func (s *Stream) Remaining() int { return len(s.buf) - s.pos }

// Bytes returns the full backing buffer, including already-read entries.
func (s *Stream) Bytes() []byte { return s.buf }

// Reset drops all contents and rewinds the cursor, keeping the buffer.
func (s *Stream) Reset() {
	s.buf = s.buf[:0]
	s.pos = 0
}

func rawBytes[V any](v *V, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), n)
}

// Append writes v's discriminant followed by v's raw bytes. The order is
// fixed; peek-based dispatch depends on it. With checks enabled the
// value's declared tag width must equal the stream width and the value
// type must be plain data.
func Append[V capsule.Value](s *Stream, v V) error {
	t := v.Tag()
	if capsule.ChecksEnabled {
		if t.Width() != s.width {
			return &capsule.WidthMismatchError{Expected: s.width, Actual: t.Width()}
		}
		if err := capsule.Register[V](); err != nil {
			return err
		}
	}
	s.buf = appendRawTag(s.buf, t.Raw(), s.width)
	n := int(reflect.TypeFor[V]().Size())
	s.buf = append(s.buf, rawBytes(&v, n)...)
	return nil
}

// PeekTag returns the next discriminant without advancing the cursor. An
// exhausted stream returns a zero tag and false; a partial discriminant is
// ErrShortStream.
func (s *Stream) PeekTag() (capsule.Tag, bool, error) {
	if s.Remaining() == 0 {
		return capsule.Tag{}, false, nil
	}
	if s.Remaining() < int(s.width) {
		return capsule.Tag{}, false, ErrShortStream
	}
	return capsule.TagOf(readRawTag(s.buf[s.pos:], s.width), s.width), true, nil
}

// TryRead probes the next entry for a value of type T. On a discriminant
// match it consumes the discriminant and the payload and returns the
// value; otherwise the cursor is left exactly where it was, so a failed
// attempt is side-effect-free and another candidate type can be tried. An
// exhausted stream is (zero, false, nil).
func TryRead[T capsule.Value](s *Stream) (T, bool, error) {
	var out T
	want := out.Tag()
	if capsule.ChecksEnabled {
		if want.Width() != s.width {
			return out, false, &capsule.WidthMismatchError{Expected: s.width, Actual: want.Width()}
		}
		if err := capsule.Register[T](); err != nil {
			return out, false, err
		}
	}
	next, ok, err := s.PeekTag()
	if err != nil || !ok {
		return out, false, err
	}
	if !want.Equal(next) {
		return out, false, nil
	}
	n := int(reflect.TypeFor[T]().Size())
	body := s.pos + int(s.width)
	if body+n > len(s.buf) {
		return out, false, ErrShortStream
	}
	copy(rawBytes(&out, n), s.buf[body:body+n])
	s.pos = body + n
	return out, true, nil
}

// Discard advances the cursor past the next discriminant and n payload
// bytes. It is for callers that learned the payload size out of band (a
// schema, a registry) and want to skip an entry without reconstructing it.
func (s *Stream) Discard(n int) error {
	// compare against the remainder so int(s.width)+n cannot overflow
	if n < 0 || n > s.Remaining()-int(s.width) {
		return ErrShortStream
	}
	s.pos += int(s.width) + n
	return nil
}

func appendRawTag(dst []byte, v uint32, w capsule.Width) []byte {
	switch w {
	case capsule.W8:
		return append(dst, byte(v))
	case capsule.W16:
		return binary.LittleEndian.AppendUint16(dst, uint16(v))
	default:
		return binary.LittleEndian.AppendUint32(dst, v)
	}
}

func readRawTag(b []byte, w capsule.Width) uint32 {
	switch w {
	case capsule.W8:
		return uint32(b[0])
	case capsule.W16:
		return uint32(binary.LittleEndian.Uint16(b))
	default:
		return binary.LittleEndian.Uint32(b)
	}
}
