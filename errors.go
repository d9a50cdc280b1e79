/*
	Typed errors for the GDSII codec.  Spec.md §7 splits failures into
	three categories: warnings (delivered through the Logger, never
	returned), fatal parse errors, and fatal encode errors.  Both fatal
	kinds carry a short tag and a message, the way the teacher's
	AppError captures a caller and a short tag -- but as plain error
	values, since a library has no business calling os.Exit on a
	caller's behalf.  ParseError can also carry a byte offset, token,
	and enclosing element name; the record reader sets offset and token
	only for a negative-length record, and the reader sets the
	enclosing structure name only for an unexpected token at structure
	scope and for an unresolved reference.  EncodeError carries no
	offset, token, or element.
*/
package gdsii

import "fmt"

// ParseError is a fatal error raised while decoding a record stream
// (spec.md §7 category 2).
type ParseError struct {
	tag     string
	msg     string
	offset  int64
	token   Token
	haveTok bool
	element string
}

func newParseError(tag, format string, a ...interface{}) *ParseError {
	return &ParseError{tag: tag, msg: fmt.Sprintf(format, a...)}
}

// At attaches the byte offset and token of the offending record.
func (e *ParseError) At(offset int64, tok Token) *ParseError {
	e.offset = offset
	e.token = tok
	e.haveTok = true
	return e
}

// In attaches the name of the enclosing structure or element.
func (e *ParseError) In(element string) *ParseError {
	e.element = element
	return e
}

func (e *ParseError) Error() string {
	s := fmt.Sprintf("gdsii: parse error (%s): %s", e.tag, e.msg)
	if e.haveTok {
		s += fmt.Sprintf(" [token=%s offset=%d]", e.token, e.offset)
	}
	if e.element != "" {
		s += fmt.Sprintf(" [in %s]", e.element)
	}
	return s
}

// EncodeError is a fatal error raised while writing a record stream
// (spec.md §7 category 3).
type EncodeError struct {
	tag string
	msg string
}

func newEncodeError(tag, format string, a ...interface{}) *EncodeError {
	return &EncodeError{tag: tag, msg: fmt.Sprintf(format, a...)}
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("gdsii: encode error (%s): %s", e.tag, e.msg)
}

// Parse error constructors, one per spec.md §7 category-2 scenario.

func errNegativeLength(length int) *ParseError {
	return newParseError("malformed_record",
		"record payload length %d is negative", length)
}

func errShortPayload(tok Token, have, want int) *ParseError {
	return newParseError("malformed_record",
		"token %s payload is %d bytes, need at least %d", tok, have, want)
}

func errDuplicateSubRecord(tok Token) *ParseError {
	return newParseError("duplicate_subrecord",
		"token %s appears more than once within this element", tok)
}

func errMissingSubRecord(tok Token) *ParseError {
	return newParseError("missing_subrecord",
		"required sub-record %s was not present before ENDEL", tok)
}

func errUnexpectedToken(tok Token) *ParseError {
	return newParseError("unexpected_token",
		"token %s is not valid at this point in the stream", tok)
}

func errPolygonTooFewVerticesParse(n int) *ParseError {
	return newParseError("polygon_too_small",
		"boundary polygon has %d distinct vertices, need at least 3", n)
}

func errUnresolvedReference(name string) *ParseError {
	return newParseError("unresolved_reference",
		"structure %q referenced but never defined in this library", name)
}

// Encode error constructors, one per spec.md §7 category-3 scenario.

func errRecordTooLarge(tok Token, n int) *EncodeError {
	return newEncodeError("record_too_large",
		"record %s payload of %d bytes exceeds the %d byte payload limit", tok, n, maxRecordLength-minRecordLength)
}

func errWrongPayloadType(tok Token, got byte) *EncodeError {
	return newEncodeError("wrong_data_type",
		"token %s expects payload type 0x%02X, got 0x%02X", tok, tok.PayloadType(), got)
}

func errNoAgreedScale() *EncodeError {
	return newEncodeError("no_scale",
		"no single database scale: none was supplied, or the supplied scales disagree")
}

func errTopologicalCycle(name string) *EncodeError {
	return newEncodeError("cycle",
		"structure %q participates in a reference cycle", name)
}

func errPolygonTooFewVertices(n int) *EncodeError {
	return newEncodeError("polygon_too_small",
		"boundary polygon has %d distinct vertices, need at least 3", n)
}
