package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/datapipe/internal/serialization"
)

func TestTape_RecordRead(t *testing.T) {
	tape := NewTape()
	tape.RecordInt64(-3)
	tape.RecordBool(true)
	tape.RecordFloat64(0.5)
	tape.RecordString("shard")
	tape.RecordBytes([]byte{1, 2})

	assert.Equal(t, 5, tape.Len())
	assert.Equal(t, 5, tape.Remaining())

	i, err := tape.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-3), i)

	b, err := tape.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	f, err := tape.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	s, err := tape.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "shard", s)

	raw, err := tape.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, raw)

	assert.Equal(t, 0, tape.Remaining())
}

func TestTape_ReadPastEnd(t *testing.T) {
	tape := NewTape()
	tape.RecordInt64(1)

	_, err := tape.ReadInt64()
	require.NoError(t, err)

	_, err = tape.ReadInt64()
	assert.ErrorIs(t, err, ErrCorruptTape)
}

func TestTape_TypeMismatch(t *testing.T) {
	tape := NewTape()
	tape.RecordString("not a counter")

	_, err := tape.ReadInt64()
	require.ErrorIs(t, err, ErrCorruptTape)

	// A failed read does not consume the value.
	s, err := tape.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "not a counter", s)
}

func TestTape_Rewind(t *testing.T) {
	tape := NewTape()
	tape.RecordInt64(9)

	v, err := tape.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(9), v)

	tape.Rewind()
	v, err = tape.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(9), v)
}

func TestTape_RecordBytesCopies(t *testing.T) {
	buf := []byte{7, 7}
	tape := NewTape()
	tape.RecordBytes(buf)
	buf[0] = 0

	got, err := tape.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 7}, got)
}

func TestTape_BinaryRoundtrip(t *testing.T) {
	tape := NewTape()
	tape.RecordInt64(123)
	tape.RecordString("epoch-2")
	tape.RecordBool(false)

	// Partially read before marshaling; the cursor is not persisted.
	_, err := tape.ReadInt64()
	require.NoError(t, err)

	blob, err := tape.MarshalBinary()
	require.NoError(t, err)

	restored := NewTape()
	require.NoError(t, restored.UnmarshalBinary(blob))
	assert.Equal(t, 3, restored.Remaining())

	v, err := restored.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(123), v)

	s, err := restored.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "epoch-2", s)

	b, err := restored.ReadBool()
	require.NoError(t, err)
	assert.False(t, b)
}

func TestTape_UnmarshalBinaryInvalid(t *testing.T) {
	tape := NewTape()
	err := tape.UnmarshalBinary([]byte("garbage"))
	assert.Error(t, err)
}

func TestTape_UnmarshalBinaryTampered(t *testing.T) {
	tape := NewTape()
	tape.RecordInt64(41)
	tape.RecordString("shard-0")
	blob, err := tape.MarshalBinary()
	require.NoError(t, err)

	require.Greater(t, len(blob), serialization.FixedHeaderSize)
	blob[serialization.FixedHeaderSize] ^= 0x01

	restored := NewTape()
	restored.RecordBool(true)
	err = restored.UnmarshalBinary(blob)
	require.ErrorIs(t, err, serialization.ErrChecksumMismatch)
	assert.Equal(t, 1, restored.Len())
}
