//go:build !capsule_unchecked

package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/capsule"
)

func TestSnapshotRoundTripRawBody(t *testing.T) {
	s := New(capsule.W16)
	require.NoError(t, Append(s, moveEvent{X: 7, Y: 8, Speed: 9}))

	snap, err := s.Snapshot()
	require.NoError(t, err)

	r, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, capsule.W16, r.Width())
	assert.Equal(t, s.Remaining(), r.Remaining())

	mv, ok, err := TryRead[moveEvent](r)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, moveEvent{X: 7, Y: 8, Speed: 9}, mv)
}

func TestSnapshotRoundTripCompressed(t *testing.T) {
	s := New(capsule.W16)
	// enough entries to cross the raw-body limit
	for i := 0; i < 32; i++ {
		require.NoError(t, Append(s, hitEvent{Target: uint64(i), Damage: uint16(i)}))
	}
	require.Greater(t, s.Remaining(), rawBodyLimit)

	snap, err := s.Snapshot()
	require.NoError(t, err)

	r, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, s.Remaining(), r.Remaining())
	for i := 0; i < 32; i++ {
		hv, ok, err := TryRead[hitEvent](r)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, hitEvent{Target: uint64(i), Damage: uint16(i)}, hv)
	}
}

func TestSnapshotCapturesOnlyUnread(t *testing.T) {
	s := New(capsule.W16)
	require.NoError(t, Append(s, moveEvent{X: 1}))
	require.NoError(t, Append(s, hitEvent{Target: 2}))

	_, ok, err := TryRead[moveEvent](s)
	require.NoError(t, err)
	require.True(t, ok)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	r, err := Restore(snap)
	require.NoError(t, err)

	// the consumed move entry is gone; the hit entry survives
	_, ok, err = TryRead[moveEvent](r)
	require.NoError(t, err)
	require.False(t, ok)
	hv, ok, err := TryRead[hitEvent](r)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, hitEvent{Target: 2}, hv)
}

func TestRestoreRejectsCorruption(t *testing.T) {
	s := New(capsule.W8)
	require.NoError(t, Append(s, byteEvent{Code: 1}))
	snap, err := s.Snapshot()
	require.NoError(t, err)

	tooShort := snap[:10]
	_, err = Restore(tooShort)
	require.ErrorIs(t, err, ErrBadSnapshot)

	badMagic := append([]byte(nil), snap...)
	badMagic[0] ^= 0xFF
	_, err = Restore(badMagic)
	require.ErrorIs(t, err, ErrBadSnapshot)

	badVersion := append([]byte(nil), snap...)
	badVersion[4] = 0xEE
	_, err = Restore(badVersion)
	require.ErrorIs(t, err, ErrSnapshotVersion)

	flipped := append([]byte(nil), snap...)
	flipped[len(flipped)-5] ^= 0x01
	_, err = Restore(flipped)
	require.ErrorIs(t, err, ErrBadSnapshot, "checksum must catch body corruption")
}

func TestSnapshotEmptyStream(t *testing.T) {
	s := New(capsule.W32)
	snap, err := s.Snapshot()
	require.NoError(t, err)
	r, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, capsule.W32, r.Width())
	assert.Equal(t, 0, r.Remaining())
}
