package common

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarUintRoundTrip(t *testing.T) {
	for _, x := range []uint64{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 1<<32 - 1, 1<<64 - 1} {
		buf := WriteVarUintTo(nil, x)
		got, n := ReadVarUint(buf)
		require.Equal(t, len(buf), n)
		assert.Equal(t, x, got, "value %#x", x)
	}
}

func TestReadVarUintTruncated(t *testing.T) {
	buf := WriteVarUintTo(nil, 1<<40)
	_, n := ReadVarUint(buf[:2])
	assert.Equal(t, 0, n)
}

func TestFixedKinds(t *testing.T) {
	assert.True(t, IsFixedKind(reflect.Uint16))
	assert.True(t, IsFixedKind(reflect.Float64))
	assert.False(t, IsFixedKind(reflect.String))
	assert.False(t, IsFixedKind(reflect.Int)) // platform-dependent size
	assert.False(t, IsFixedKind(reflect.Uintptr))
}
