package gdsii

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLengthIsEven(t *testing.T) {
	var buf bytes.Buffer
	rw := newRecordWriter(&buf)
	_, err := rw.WriteASCII(LIBNAME, "ODD")
	require.NoError(t, err)
	assert.Equal(t, 0, buf.Len()%2, "record length must be even")
}

func TestRecordRoundTripInt16(t *testing.T) {
	var buf bytes.Buffer
	rw := newRecordWriter(&buf)
	_, err := rw.WriteInt16(LAYER, []int16{7})
	require.NoError(t, err)

	rr := newRecordReader(&buf)
	tok, payload, err := rr.next()
	require.NoError(t, err)
	assert.Equal(t, LAYER, tok)
	assert.Equal(t, []int16{7}, decodeInt16(payload))
}

func TestRecordWrongPayloadType(t *testing.T) {
	var buf bytes.Buffer
	rw := newRecordWriter(&buf)
	_, err := rw.WriteInt32(LAYER, []int32{1}) // LAYER is int16
	assert.Error(t, err)
}

func TestRecordReaderEOFBetweenRecords(t *testing.T) {
	rr := newRecordReader(bytes.NewReader(nil))
	_, _, err := rr.next()
	assert.ErrorIs(t, err, io.EOF)
}
