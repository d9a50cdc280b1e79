/*
	Defines constants whose specs are effectively frozen in the binary data of
	GDSII streams.  Changes to these values are not backward compatible.
*/
package gdsii

// Token is the 16-bit record identifier: high byte is the record kind,
// low byte is the payload type.
type Token uint16

// Payload type, the low byte of a Token.
const (
	PayloadNone     byte = 0x00
	PayloadBitArray byte = 0x01
	PayloadInt16    byte = 0x02
	PayloadInt32    byte = 0x03
	PayloadReal64   byte = 0x05
	PayloadASCII    byte = 0x06
)

// Recognized record tokens (spec.md §6), plus the three "accepted but
// unimplemented" sub-record tokens spec.md §4.5 requires element
// subparsers to recognize and skip (ELFLAGS/PLEX/PATHTYPE).
const (
	HEADER       Token = 0x0002
	BGNLIB       Token = 0x0102
	LIBNAME      Token = 0x0206
	UNITS        Token = 0x0305
	ENDLIB       Token = 0x0400
	BGNSTR       Token = 0x0502
	STRNAME      Token = 0x0606
	ENDSTR       Token = 0x0700
	BOUNDARY     Token = 0x0800
	PATH         Token = 0x0900
	SREF         Token = 0x0A00
	AREF         Token = 0x0B00
	TEXT         Token = 0x0C00
	LAYER        Token = 0x0D02
	DATATYPE     Token = 0x0E02
	WIDTH        Token = 0x0F03
	XY           Token = 0x1003
	ENDEL        Token = 0x1100
	SNAME        Token = 0x1206
	COLROW       Token = 0x1302
	NODE         Token = 0x1500
	TEXTTYPE     Token = 0x1602
	PRESENTATION Token = 0x1701
	STRING       Token = 0x1906
	STRANS       Token = 0x1A01
	MAG          Token = 0x1B05
	ANGLE        Token = 0x1C05
	PATHTYPE     Token = 0x2102
	EFLAGS       Token = 0x2601 // ELFLAGS in the wider GDSII literature
	PROPATTR     Token = 0x2B02
	PROPVALUE    Token = 0x2C06
	BOX          Token = 0x2D00
	BOXTYPE      Token = 0x2E02
	PLEX         Token = 0x2F03
)

// Kind returns the record-kind byte (high byte of the token).
func (t Token) Kind() byte { return byte(t >> 8) }

// PayloadType returns the payload-type byte (low byte of the token).
func (t Token) PayloadType() byte { return byte(t) }

// tokenNames is the global record-token table: human-readable names used
// only for warning/error messages (spec.md §4.6, §4.9).
var tokenNames = map[Token]string{
	HEADER:       "HEADER",
	BGNLIB:       "BGNLIB",
	LIBNAME:      "LIBNAME",
	UNITS:        "UNITS",
	ENDLIB:       "ENDLIB",
	BGNSTR:       "BGNSTR",
	STRNAME:      "STRNAME",
	ENDSTR:       "ENDSTR",
	BOUNDARY:     "BOUNDARY",
	PATH:         "PATH",
	SREF:         "SREF",
	AREF:         "AREF",
	TEXT:         "TEXT",
	LAYER:        "LAYER",
	DATATYPE:     "DATATYPE",
	WIDTH:        "WIDTH",
	XY:           "XY",
	ENDEL:        "ENDEL",
	SNAME:        "SNAME",
	COLROW:       "COLROW",
	NODE:         "NODE",
	TEXTTYPE:     "TEXTTYPE",
	PRESENTATION: "PRESENTATION",
	STRING:       "STRING",
	STRANS:       "STRANS",
	MAG:          "MAG",
	ANGLE:        "ANGLE",
	PATHTYPE:     "PATHTYPE",
	EFLAGS:       "EFLAGS",
	PROPATTR:     "PROPATTR",
	PROPVALUE:    "PROPVALUE",
	BOX:          "BOX",
	BOXTYPE:      "BOXTYPE",
	PLEX:         "PLEX",
}

// String names a token for warning/error messages, falling back to its
// hex code if unknown (spec.md §4.5 "warn (named token if known, hex
// code otherwise)").
func (t Token) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return formatHexToken(t)
}

func formatHexToken(t Token) string {
	const hexDigits = "0123456789ABCDEF"
	b := [6]byte{'0', 'x', 0, 0, 0, 0}
	v := uint16(t)
	for i := 5; i >= 2; i-- {
		b[i] = hexDigits[v&0xF]
		v >>= 4
	}
	return string(b[:])
}

const (
	minRecordLength = 4      // length field + token, no payload
	maxRecordLength = 0xFFFF // spec.md §3: total length must be even and <= 0xFFFF
	streamVersion   = 600    // spec.md §4.4: HEADER version written on save
)

// Alignment sentinels matching the PRESENTATION bit encoding (spec.md §6).
type HAlign uint8
type VAlign uint8

const (
	LeftEdge  HAlign = 0b00
	XCenter   HAlign = 0b01
	RightEdge HAlign = 0b10

	TopEdge    VAlign = 0b00
	YCenter    VAlign = 0b01
	BottomEdge VAlign = 0b10
)

// isNameChar reports whether c is a legal library/structure name
// character per spec.md §3: [A-Za-z0-9_?$].
func isNameChar(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_' || c == '?' || c == '$':
		return true
	}
	return false
}

const maxNameLength = 32
