package detect

import (
	"strings"

	"go.uber.org/zap"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
	"github.com/custodia-labs/bmeconv/internal/core/ports/driven"
)

// Ensure Sniffer implements the interface.
var _ driven.DialectSniffer = (*Sniffer)(nil)

// SniffChars is how many decoded characters the sniffer scans.
const SniffChars = 512

// Markers searched in the prefix.
const (
	DoctypeMarker = "<!DOCTYPE"
	CatalogMarker = "<BMECAT"
)

var catalogVersion2005 = `version="` + domain.CatalogVersion2005 + `"`

// Sniffer judges the dialect of a document by substring search.
type Sniffer struct{}

// NewSniffer creates a new dialect sniffer.
func NewSniffer() *Sniffer {
	return &Sniffer{}
}

// Sniff decodes the first SniffChars characters with the resolved encoding
// and looks for the doctype and catalog markers.
func (s *Sniffer) Sniff(path string, enc domain.ResolvedEncoding, log *zap.Logger) (domain.DialectVerdict, error) {
	raw, _, err := readPrefix(path, SniffChars*maxBytesPerRune)
	if err != nil {
		log.Error("Cannot read document", zap.String("path", path), zap.Error(err))
		return domain.DialectVerdict{}, err
	}

	decoder, _ := Decoder(enc, log)
	text, err := decoder.NewDecoder().Bytes(raw)
	if err != nil {
		// Replacement decoding only fails on pathological transformers;
		// scan the raw bytes rather than give up on the verdict.
		log.Warn("Prefix decode failed, scanning raw bytes", zap.Error(err))
		text = raw
	}
	return SniffText(firstRunes(string(text), SniffChars), log), nil
}

// SniffText computes the verdict for an already decoded prefix.
func SniffText(content string, log *zap.Logger) domain.DialectVerdict {
	var v domain.DialectVerdict

	if tag, ok := extractTag(content, DoctypeMarker); ok {
		log.Debug("DOCTYPE found", zap.String("tag", tag))
		v.HasDoctype, v.DoctypeTag = true, tag
	} else {
		log.Info("DOCTYPE not found")
	}

	tag, ok := extractTag(content, CatalogMarker)
	if !ok {
		log.Info("BMECAT not found")
		return v
	}
	log.Debug("BMECAT found", zap.String("tag", tag))
	v.IsCatalog, v.CatalogTag = true, tag
	if strings.Contains(tag, catalogVersion2005) {
		v.CatalogVersion = domain.CatalogVersion2005
		log.Info("BMEcat version", zap.String("version", v.CatalogVersion))
	}
	return v
}

// extractTag returns the text from marker up to and including the next '>'.
// Without a closing '>' the tag runs to the end of content.
func extractTag(content, marker string) (string, bool) {
	start := strings.Index(content, marker)
	if start < 0 {
		return "", false
	}
	end := strings.IndexByte(content[start:], '>')
	if end < 0 {
		return content[start:], true
	}
	return content[start : start+end+1], true
}
