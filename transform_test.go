package gdsii

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityTransformNotEmitted(t *testing.T) {
	var buf bytes.Buffer
	rw := newRecordWriter(&buf)
	require.NoError(t, writeTransform(rw, IdentityTransform()))
	assert.Equal(t, 0, buf.Len())
}

func TestTransformRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rw := newRecordWriter(&buf)
	in := Transform{Reflect: true, Mag: 2, Rotation: 90}
	require.NoError(t, writeTransform(rw, in))

	rr := newRecordReader(&buf)
	var out Transform
	for {
		tok, payload, err := rr.next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		switch tok {
		case STRANS:
			reflect, _, _ := decodeSTRANS(decodeBitArray(payload))
			out.Reflect = reflect
		case MAG:
			out.Mag = decodeReal64(payload)[0]
		case ANGLE:
			out.Rotation = decodeReal64(payload)[0]
		}
	}
	assert.Equal(t, in, out)
}

func TestDecodeSTRANSBits(t *testing.T) {
	reflect, absMag, absAngle := decodeSTRANS(stransReflectBit | stransAbsMagBit | stransAbsAngleBit)
	assert.True(t, reflect)
	assert.True(t, absMag)
	assert.True(t, absAngle)
}
