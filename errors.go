package capsule

import (
	"errors"
	"fmt"
)

var (
	ErrTooLarge       = errors.New("value exceeds capsule payload capacity")
	ErrWidthMismatch  = errors.New("discriminant width mismatch")
	ErrNotPlainData   = errors.New("value type is not fixed-size plain data")
	ErrBadPayloadType = errors.New("capsule payload type is not a byte array")
)

// TooLargeError reports a value type that does not fit a capsule's payload
// region. It carries both type identities and both sizes; pack never
// truncates silently while checks are enabled.
type TooLargeError struct {
	ValueType   string
	PayloadType string
	ValueSize   int
	Capacity    int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("capsule: %s (%d bytes) exceeds %s capacity (%d bytes)",
		e.ValueType, e.ValueSize, e.PayloadType, e.Capacity)
}

func (e *TooLargeError) Unwrap() error { return ErrTooLarge }

// WidthMismatchError reports a width-specialized entry point invoked on a
// discriminant declared at a different width.
type WidthMismatchError struct {
	Expected Width
	Actual   Width
}

func (e *WidthMismatchError) Error() string {
	return fmt.Sprintf("capsule: discriminant declared %s, compared as %s", e.Actual, e.Expected)
}

func (e *WidthMismatchError) Unwrap() error { return ErrWidthMismatch }
