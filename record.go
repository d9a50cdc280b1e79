/*
	Record-level I/O primitives (spec.md §4.2): a GDSII record is a
	2-byte big-endian length (including itself), a 2-byte token, and a
	payload of (length-4) bytes.  This generalizes the teacher's
	data.go Pack() methods -- which build one bytes.Buffer per record
	type and binary.Write each field in order -- to the handful of
	payload shapes GDSII actually has, and the teacher's fileops.go
	Gofile.ReadRecord loop to a pure sequential io.Reader instead of a
	random-access *os.File, since spec.md §5 rules out concurrent or
	repositionable access within one read or write call.
*/
package gdsii

import (
	"bufio"
	"encoding/binary"
	"io"
)

// recordWriter emits length-prefixed records onto one io.Writer for
// the duration of one Write call (spec.md §5 "acquired scoped around
// one encode... call").
type recordWriter struct {
	w       io.Writer
	written int64
}

func newRecordWriter(w io.Writer) *recordWriter {
	return &recordWriter{w: w}
}

// writeBytes writes a fully assembled record (length+token+payload)
// and returns the number of bytes written.
func (rw *recordWriter) writeBytes(buf []byte) (int, error) {
	if len(buf) > maxRecordLength {
		return 0, errRecordTooLarge(Token(binary.BigEndian.Uint16(buf[2:4])), len(buf)-minRecordLength)
	}
	n, err := rw.w.Write(buf)
	rw.written += int64(n)
	return n, err
}

func recordHeader(tok Token, payloadLen int) []byte {
	buf := make([]byte, minRecordLength)
	binary.BigEndian.PutUint16(buf[0:2], uint16(minRecordLength+payloadLen))
	binary.BigEndian.PutUint16(buf[2:4], uint16(tok))
	return buf
}

// WriteEmpty writes a tokens-only record (payload type 0x00).
func (rw *recordWriter) WriteEmpty(tok Token) (int, error) {
	if tok.PayloadType() != PayloadNone {
		return 0, errWrongPayloadType(tok, PayloadNone)
	}
	return rw.writeBytes(recordHeader(tok, 0))
}

// WriteInt16 writes a fixed payload of int16 values for tok.
func (rw *recordWriter) WriteInt16(tok Token, vals []int16) (int, error) {
	if tok.PayloadType() != PayloadInt16 {
		return 0, errWrongPayloadType(tok, PayloadInt16)
	}
	payload := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint16(payload[2*i:], uint16(v))
	}
	return rw.writeBytes(append(recordHeader(tok, len(payload)), payload...))
}

// WriteInt32 writes a fixed payload of int32 values for tok (also used
// for XY coordinate arrays).
func (rw *recordWriter) WriteInt32(tok Token, vals []int32) (int, error) {
	if tok.PayloadType() != PayloadInt32 {
		return 0, errWrongPayloadType(tok, PayloadInt32)
	}
	payload := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(payload[4*i:], uint32(v))
	}
	return rw.writeBytes(append(recordHeader(tok, len(payload)), payload...))
}

// WriteReal64 writes a fixed payload of GDS64 values for tok.
func (rw *recordWriter) WriteReal64(tok Token, vals []float64) (int, error) {
	if tok.PayloadType() != PayloadReal64 {
		return 0, errWrongPayloadType(tok, PayloadReal64)
	}
	payload := make([]byte, 8*len(vals))
	for i, v := range vals {
		bits, err := ToGDS64(v)
		if err != nil {
			return 0, err
		}
		binary.BigEndian.PutUint64(payload[8*i:], bits)
	}
	return rw.writeBytes(append(recordHeader(tok, len(payload)), payload...))
}

// WriteASCII writes a zero-padded ASCII payload, padded to even length
// with a NUL when the source length is odd.
func (rw *recordWriter) WriteASCII(tok Token, s string) (int, error) {
	if tok.PayloadType() != PayloadASCII {
		return 0, errWrongPayloadType(tok, PayloadASCII)
	}
	payload := []byte(s)
	if len(payload)%2 != 0 {
		payload = append(payload, 0)
	}
	return rw.writeBytes(append(recordHeader(tok, len(payload)), payload...))
}

// WriteBitArray writes a single 16-bit bit-array payload (used for
// STRANS).
func (rw *recordWriter) WriteBitArray(tok Token, bits uint16) (int, error) {
	if tok.PayloadType() != PayloadBitArray {
		return 0, errWrongPayloadType(tok, PayloadBitArray)
	}
	payload := make([]byte, 2)
	binary.BigEndian.PutUint16(payload, bits)
	return rw.writeBytes(append(recordHeader(tok, len(payload)), payload...))
}

// recordReader reads length-prefixed records from one io.Reader for
// the duration of one Read call.
type recordReader struct {
	r      *bufio.Reader
	offset int64
}

func newRecordReader(r io.Reader) *recordReader {
	return &recordReader{r: bufio.NewReader(r)}
}

// next reads the next record's header and raw payload.  Returns
// io.EOF (unwrapped) when the stream ends cleanly between records.
func (rr *recordReader) next() (Token, []byte, error) {
	startOffset := rr.offset
	var header [4]byte
	n, err := io.ReadFull(rr.r, header[:])
	rr.offset += int64(n)
	if err == io.EOF {
		return 0, nil, io.EOF
	}
	if err != nil {
		return 0, nil, err
	}

	length := int(binary.BigEndian.Uint16(header[0:2]))
	tok := Token(binary.BigEndian.Uint16(header[2:4]))
	payloadLen := length - minRecordLength
	if payloadLen < 0 {
		return tok, nil, errNegativeLength(payloadLen).At(startOffset, tok)
	}
	if payloadLen == 0 {
		return tok, nil, nil
	}

	payload := make([]byte, payloadLen)
	n, err = io.ReadFull(rr.r, payload)
	rr.offset += int64(n)
	if err != nil {
		return tok, nil, err
	}
	return tok, payload, nil
}

// decodeInt16 parses a fixed payload of big-endian int16 values.
func decodeInt16(payload []byte) []int16 {
	out := make([]int16, len(payload)/2)
	for i := range out {
		out[i] = int16(binary.BigEndian.Uint16(payload[2*i:]))
	}
	return out
}

// decodeInt32 parses a fixed payload of big-endian int32 values.
func decodeInt32(payload []byte) []int32 {
	out := make([]int32, len(payload)/4)
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint32(payload[4*i:]))
	}
	return out
}

// decodeReal64 parses a fixed payload of GDS64 values.
func decodeReal64(payload []byte) []float64 {
	out := make([]float64, len(payload)/8)
	for i := range out {
		out[i] = FromGDS64(binary.BigEndian.Uint64(payload[8*i:]))
	}
	return out
}

// decodeASCII strips at most one trailing NUL padding byte.
func decodeASCII(payload []byte) string {
	if n := len(payload); n > 0 && payload[n-1] == 0 {
		payload = payload[:n-1]
	}
	return string(payload)
}

// decodeBitArray parses a single 16-bit bit-array payload.
func decodeBitArray(payload []byte) uint16 {
	if len(payload) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(payload)
}
