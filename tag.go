package capsule

import "fmt"

// Width is the storage width of a discriminant, in bytes.
type Width uint8

const (
	W8  Width = 1
	W16 Width = 2
	W32 Width = 4
)

func (w Width) Bits() int { return int(w) * 8 }

func (w Width) String() string {
	switch w {
	case W8:
		return "u8"
	case W16:
		return "u16"
	case W32:
		return "u32"
	default:
		return fmt.Sprintf("Width(%d)", uint8(w))
	}
}

// mask returns the low-bit mask for w. Unknown widths (including the zero
// Width of a never-packed capsule) compare over the full 32 bits.
func (w Width) mask() uint32 {
	switch w {
	case W8:
		return 0xFF
	case W16:
		return 0xFFFF
	default:
		return 0xFFFFFFFF
	}
}

// Tag is a discriminant: a raw integer plus the width it is stored at.
// All comparisons happen on the raw integer masked to a width, never on
// any enum-like wrapper type, so equality is byte-exact regardless of how
// wide the caller's own constant type happens to be.
//
// The zero Tag is not a valid discriminant; build tags with T8/T16/T32 or
// TagOf.
type Tag struct {
	v uint32
	w Width
}

func T8(v uint8) Tag   { return Tag{v: uint32(v), w: W8} }
func T16(v uint16) Tag { return Tag{v: uint32(v), w: W16} }
func T32(v uint32) Tag { return Tag{v: v, w: W32} }

// TagOf builds a tag without narrowing the raw value to the width first.
// Bits above the width are preserved in the raw value and ignored by
// comparisons at that width.
func TagOf(v uint32, w Width) Tag { return Tag{v: v, w: w} }

// Raw returns the unmasked raw integer.
func (t Tag) Raw() uint32 { return t.v }

func (t Tag) Width() Width { return t.w }

func (t Tag) String() string {
	return fmt.Sprintf("%s:%#x", t.w, t.v&t.w.mask())
}

// Equal reports whether o carries the same discriminant as t, comparing
// the raw integers masked to t's declared width.
func (t Tag) Equal(o Tag) bool {
	m := t.w.mask()
	return t.v&m == o.v&m
}

// EqualU8 compares two discriminants at 8-bit width. Both raw values are
// masked to their low byte before comparing, so values differing only in
// higher bits are equal. With checks enabled, operands not declared at W8
// fail with a WidthMismatchError.
func EqualU8(a, b Tag) (bool, error) { return equalAt(W8, a, b) }

// EqualU16 is EqualU8 at 16-bit width.
func EqualU16(a, b Tag) (bool, error) { return equalAt(W16, a, b) }

// EqualU32 is EqualU8 at 32-bit width.
func EqualU32(a, b Tag) (bool, error) { return equalAt(W32, a, b) }

func equalAt(w Width, a, b Tag) (bool, error) {
	if ChecksEnabled {
		if a.w != w {
			return false, &WidthMismatchError{Expected: w, Actual: a.w}
		}
		if b.w != w {
			return false, &WidthMismatchError{Expected: w, Actual: b.w}
		}
	}
	m := w.mask()
	return a.v&m == b.v&m, nil
}
