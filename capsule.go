// Package capsule stores heterogeneous fixed-size values inside a single
// fixed-layout container and recovers them by discriminant. A capsule is a
// plain value: a Tag plus an opaque byte-array payload sized by the
// application. Packing copies a value's raw byte image into the payload;
// unpacking probes the discriminant and reconstructs the value on a match.
// No allocation, no runtime type metadata, no state between calls.
//
// Participating value types must be fixed-size plain data (see Register)
// and expose their discriminant via a Tag method that works on the zero
// value.
package capsule

import (
	"reflect"
	"unsafe"
)

// Value is the contract for types stored in capsules: fixed-size plain
// data whose Tag method is a pure function of the type. The method must
// return the same tag for every instance, including the zero value, since
// Unpack derives the target discriminant from a zero-initialized instance.
type Value interface {
	Tag() Tag
}

// Capsule pairs a discriminant with an opaque fixed-size payload region.
// P is the application's payload array type, e.g. [64]byte, chosen at
// least as large as the largest participating value type. Capsules are
// plain copyable values; unused trailing payload bytes are always zero
// after a pack, so equal values pack to comparable capsules.
type Capsule[P any] struct {
	Tag     Tag
	Payload P
}

// Capacity returns the payload size in bytes of capsule payload type P.
func Capacity[P any]() int {
	return int(reflect.TypeFor[P]().Size())
}

// sizeOf is the byte size of V's instances.
func sizeOf[V any]() int {
	return int(reflect.TypeFor[V]().Size())
}

// rawBytes aliases the memory of *v as a byte slice. Callers must keep v
// alive for the duration of the slice's use; every use in this package
// copies immediately.
func rawBytes[V any](v *V, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), n)
}

// Pack copies v's raw byte image into a fresh zero-initialized capsule and
// stamps v's discriminant. With checks enabled, a value bigger than the
// payload region fails with TooLargeError and no capsule is produced; with
// checks disabled the copy silently truncates at the payload size.
func Pack[P any, V Value](v V) (Capsule[P], error) {
	var c Capsule[P]
	if err := PackInto(&c, v); err != nil {
		return Capsule[P]{}, err
	}
	return c, nil
}

// PackInto packs v into an existing capsule, overwriting it. The capsule
// payload is zeroed before the copy so unused trailing bytes are
// deterministic. On failure the capsule is left untouched.
func PackInto[V Value, P any](c *Capsule[P], v V) error {
	n := sizeOf[V]()
	if ChecksEnabled {
		if err := validatePayload(reflect.TypeFor[P]()); err != nil {
			return err
		}
		if err := validateValue(reflect.TypeFor[V]()); err != nil {
			return err
		}
		if cp := Capacity[P](); n > cp {
			return &TooLargeError{
				ValueType:   reflect.TypeFor[V]().String(),
				PayloadType: reflect.TypeFor[P]().String(),
				ValueSize:   n,
				Capacity:    cp,
			}
		}
	}
	c.Tag = v.Tag()
	var zero P
	c.Payload = zero
	copy(rawBytes(&c.Payload, Capacity[P]()), rawBytes(&v, n))
	return nil
}

// Unpack probes c for a value of type T. It returns the reconstructed
// value and true when c's discriminant equals T's at T's declared width,
// and the zero value and false otherwise; a mismatch is the expected
// outcome when probing, not an error. The capsule is never mutated, so
// repeated probes against the same capsule are idempotent.
func Unpack[T Value, P any](c Capsule[P]) (T, bool, error) {
	var out T
	want := out.Tag()
	if ChecksEnabled {
		if err := precheck[T, P](); err != nil {
			return out, false, err
		}
		// A width recorded in the capsule that differs from the target's
		// means the two sides disagree about the discriminant family.
		if c.Tag.w != 0 && c.Tag.w != want.w {
			return out, false, &WidthMismatchError{Expected: want.w, Actual: c.Tag.w}
		}
	}
	if !want.Equal(c.Tag) {
		return out, false, nil
	}
	copy(rawBytes(&out, sizeOf[T]()), rawBytes(&c.Payload, Capacity[P]()))
	return out, true, nil
}

// UnpackU8 is Unpack restricted to 8-bit discriminants: the comparison is
// masked to the low byte, and with checks enabled both the target's and
// the capsule's declared widths must be W8.
func UnpackU8[T Value, P any](c Capsule[P]) (T, bool, error) {
	return unpackAt[T](W8, c)
}

// UnpackU16 is UnpackU8 at 16-bit width.
func UnpackU16[T Value, P any](c Capsule[P]) (T, bool, error) {
	return unpackAt[T](W16, c)
}

// UnpackU32 is UnpackU8 at 32-bit width.
func UnpackU32[T Value, P any](c Capsule[P]) (T, bool, error) {
	return unpackAt[T](W32, c)
}

func unpackAt[T Value, P any](w Width, c Capsule[P]) (T, bool, error) {
	var out T
	if ChecksEnabled {
		if err := precheck[T, P](); err != nil {
			return out, false, err
		}
	}
	ok, err := equalAt(w, out.Tag(), c.Tag)
	if err != nil || !ok {
		return out, false, err
	}
	copy(rawBytes(&out, sizeOf[T]()), rawBytes(&c.Payload, Capacity[P]()))
	return out, true, nil
}

// precheck runs the registration-time validations shared by the unpack
// entry points. A target bigger than the payload can never have been
// packed, so probing with it is a contract violation rather than a
// mismatch.
func precheck[T Value, P any]() error {
	if err := validatePayload(reflect.TypeFor[P]()); err != nil {
		return err
	}
	if err := validateValue(reflect.TypeFor[T]()); err != nil {
		return err
	}
	if n, cp := sizeOf[T](), Capacity[P](); n > cp {
		return &TooLargeError{
			ValueType:   reflect.TypeFor[T]().String(),
			PayloadType: reflect.TypeFor[P]().String(),
			ValueSize:   n,
			Capacity:    cp,
		}
	}
	return nil
}
