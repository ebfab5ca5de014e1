package detect

import (
	"encoding/binary"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// errUndecodable is returned by a candidate whose strict decode failed.
var errUndecodable = errors.New("undecodable prefix")

// Candidate is an encoding the prober may try.
type Candidate struct {
	// Name is the label reported when this candidate wins.
	Name string

	// Decode strictly converts b to a string. atEOF is false when b was cut
	// by the read window, so an incomplete trailing sequence is not an error.
	Decode func(b []byte, atEOF bool) (string, error)

	// Span returns the leading bytes of b holding its first n characters.
	// Nil means the whole of b.
	Span func(b []byte, n int) []byte
}

// prefix returns the bytes Decode judges for the first n characters of b,
// and whether they reach the end of the document.
func (c Candidate) prefix(b []byte, atEOF bool, n int) ([]byte, bool) {
	if c.Span == nil {
		return b, atEOF
	}
	span := c.Span(b, n)
	return span, atEOF && len(span) == len(b)
}

// Candidate names, in priority order.
const (
	UTF8        = "utf-8"
	UTF16       = "utf-16"
	Windows1252 = "windows-1252"
	Latin1      = "latin-1"
)

// DefaultCandidates returns the fixed candidate list in priority order.
func DefaultCandidates() []Candidate {
	return []Candidate{
		{Name: UTF8, Decode: decodeUTF8, Span: spanUTF8},
		{Name: UTF16, Decode: decodeUTF16, Span: spanUTF16},
		{Name: Windows1252, Decode: decodeWindows1252, Span: spanSingleByte},
		{Name: Latin1, Decode: decodeLatin1, Span: spanSingleByte},
	}
}

// spanUTF8 counts an invalid byte as one character so that it stays inside
// the span and fails Decode.
func spanUTF8(b []byte, n int) []byte {
	i := 0
	for k := 0; k < n && i < len(b); k++ {
		if !utf8.FullRune(b[i:]) {
			return b
		}
		_, size := utf8.DecodeRune(b[i:])
		i += size
	}
	return b[:i]
}

func decodeUTF8(b []byte, atEOF bool) (string, error) {
	if !atEOF {
		b = trimIncompleteUTF8(b)
	}
	if !utf8.Valid(b) {
		return "", errUndecodable
	}
	return string(b), nil
}

// trimIncompleteUTF8 drops a multi-byte sequence cut at the end of b.
func trimIncompleteUTF8(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}

// utf16Order reads a byte order mark, defaulting to little endian, and
// returns the length of the mark.
func utf16Order(b []byte) (binary.ByteOrder, unicode.Endianness, int) {
	if len(b) >= 2 {
		switch {
		case b[0] == 0xFE && b[1] == 0xFF:
			return binary.BigEndian, unicode.BigEndian, 2
		case b[0] == 0xFF && b[1] == 0xFE:
			return binary.LittleEndian, unicode.LittleEndian, 2
		}
	}
	return binary.LittleEndian, unicode.LittleEndian, 0
}

// spanUTF16 takes n code units after the byte order mark, plus the low half
// of a surrogate pair that straddles the boundary.
func spanUTF16(b []byte, n int) []byte {
	order, _, bom := utf16Order(b)
	if n <= 0 {
		return b[:bom]
	}
	end := bom + 2*n
	if end >= len(b) {
		return b
	}
	if last := order.Uint16(b[end-2:]); last >= 0xD800 && last < 0xDC00 {
		end = min(end+2, len(b))
	}
	return b[:end]
}

// decodeUTF16 honours a byte order mark and defaults to little endian.
// Odd lengths and unpaired surrogates are decode errors.
func decodeUTF16(b []byte, atEOF bool) (string, error) {
	order, endianness, bom := utf16Order(b)
	b = b[bom:]

	if len(b)%2 == 1 {
		if atEOF {
			return "", errUndecodable
		}
		b = b[:len(b)-1]
	}

	n := len(b) / 2
	if !atEOF && n > 0 {
		// A high surrogate cut by the window pairs with a unit we did not read.
		if last := order.Uint16(b[2*(n-1):]); last >= 0xD800 && last < 0xDC00 {
			n--
			b = b[:2*n]
		}
	}

	for i := 0; i < n; i++ {
		u := order.Uint16(b[2*i:])
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+1 >= n {
				return "", errUndecodable
			}
			next := order.Uint16(b[2*(i+1):])
			if next < 0xDC00 || next > 0xDFFF {
				return "", errUndecodable
			}
			i++
		case u >= 0xDC00 && u <= 0xDFFF:
			return "", errUndecodable
		}
	}

	out, err := unicode.UTF16(endianness, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", errUndecodable
	}
	return string(out), nil
}

func spanSingleByte(b []byte, n int) []byte {
	return b[:min(n, len(b))]
}

// windows1252Undefined are the bytes code page 1252 leaves unassigned.
var windows1252Undefined = [256]bool{0x81: true, 0x8D: true, 0x8F: true, 0x90: true, 0x9D: true}

func decodeWindows1252(b []byte, _ bool) (string, error) {
	for _, c := range b {
		if windows1252Undefined[c] {
			return "", errUndecodable
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return "", errUndecodable
	}
	return string(out), nil
}

// decodeLatin1 never fails: every byte is a code point.
func decodeLatin1(b []byte, _ bool) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", errUndecodable
	}
	return string(out), nil
}
