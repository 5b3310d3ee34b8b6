package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/klauspost/compress/zstd"

	"github.com/rawbytedev/capsule"
	"github.com/rawbytedev/capsule/internal/common"
)

// Snapshot framing: magic, version, flags, width, varint raw length, body,
// CRC32 trailer. The body is the unread portion of the stream, zstd-
// compressed unless it is small enough that compression is pure overhead.
const (
	snapMagic   = 0x43415053 // "CAPS"
	snapVersion = 1

	flagRawBody = 0x0001

	// bodies under this size ship uncompressed
	rawBodyLimit = 64
)

var (
	ErrBadSnapshot     = errors.New("stream: malformed snapshot")
	ErrSnapshotVersion = errors.New("stream: unsupported snapshot version")
)

// Snapshot serializes the unread portion of the stream, including its
// discriminant width, into a self-describing checksummed frame. The stream
// itself is not modified.
func (s *Stream) Snapshot() ([]byte, error) {
	body := s.buf[s.pos:]

	var flags uint16
	enc := body
	if len(body) < rawBodyLimit {
		flags |= flagRawBody
	} else {
		w, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, err
		}
		enc = w.EncodeAll(body, nil)
		w.Close()
	}

	out := make([]byte, 0, len(enc)+16)
	out = binary.LittleEndian.AppendUint32(out, snapMagic)
	out = binary.LittleEndian.AppendUint16(out, snapVersion)
	out = binary.LittleEndian.AppendUint16(out, flags)
	out = append(out, byte(s.width))
	out = common.WriteVarUintTo(out, uint64(len(body)))
	out = append(out, enc...)

	// CRC over everything after the magic
	crc := crc32.ChecksumIEEE(out[4:])
	out = binary.LittleEndian.AppendUint32(out, crc)
	return out, nil
}

// Restore rebuilds a stream from a Snapshot frame. The returned stream
// holds the snapshot's unread bytes with the cursor rewound to the start.
func Restore(data []byte) (*Stream, error) {
	if len(data) < 14 {
		return nil, ErrBadSnapshot
	}
	if binary.LittleEndian.Uint32(data) != snapMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrBadSnapshot)
	}
	if v := binary.LittleEndian.Uint16(data[4:]); v != snapVersion {
		return nil, fmt.Errorf("%w: version %d", ErrSnapshotVersion, v)
	}
	flags := binary.LittleEndian.Uint16(data[6:])
	width := capsule.Width(data[8])
	switch width {
	case capsule.W8, capsule.W16, capsule.W32:
	default:
		return nil, fmt.Errorf("%w: width byte %d", ErrBadSnapshot, data[8])
	}

	crcWant := binary.LittleEndian.Uint32(data[len(data)-4:])
	if crc32.ChecksumIEEE(data[4:len(data)-4]) != crcWant {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrBadSnapshot)
	}

	rawLen, n := common.ReadVarUint(data[9 : len(data)-4])
	if n == 0 {
		return nil, fmt.Errorf("%w: length varint", ErrBadSnapshot)
	}
	enc := data[9+n : len(data)-4]

	var body []byte
	if flags&flagRawBody != 0 {
		body = append([]byte(nil), enc...)
	} else {
		r, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		body, err = r.DecodeAll(enc, nil)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
		}
	}
	if uint64(len(body)) != rawLen {
		return nil, fmt.Errorf("%w: body is %d bytes, header says %d", ErrBadSnapshot, len(body), rawLen)
	}
	return &Stream{width: width, buf: body}, nil
}
