package detect

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
)

// Lookup returns the decoder for an encoding label.
// Candidate names are matched first so that "latin-1" stays ISO 8859-1 and
// "utf-16" keeps the prober's little-endian default; other labels are
// resolved as IANA names, then as WHATWG labels.
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return unicode.UTF8, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	}

	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, _ := charset.Lookup(name); enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEncoding, name)
}

// Decoder returns the encoding to read a document with: the resolved name,
// else the trial encoding that decoded the prefix, else UTF-8. The second
// return value is the label actually used.
func Decoder(enc domain.ResolvedEncoding, log *zap.Logger) (encoding.Encoding, string) {
	if e, err := Lookup(enc.Name); err == nil {
		return e, enc.Name
	}
	if enc.Trial != "" && enc.Trial != enc.Name {
		if e, err := Lookup(enc.Trial); err == nil {
			log.Warn("Unknown declared encoding, reading with trial encoding",
				zap.String("declared", enc.Name), zap.String("trial", enc.Trial))
			return e, enc.Trial
		}
	}
	log.Warn("Unknown encoding, reading as UTF-8", zap.String("encoding", enc.Name))
	return unicode.UTF8, UTF8
}
