package detect

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
	"github.com/custodia-labs/bmeconv/internal/core/ports/driven"
)

// Ensure Prober implements the interface.
var _ driven.EncodingProber = (*Prober)(nil)

// PrologChars is how many characters of the decoded prefix are searched
// for an XML declaration.
const PrologChars = 1024

// Prober resolves a document's encoding from a bounded prefix.
type Prober struct {
	candidates []Candidate
}

// NewProber creates a prober over the given candidates, tried in order.
// With no arguments it uses DefaultCandidates.
func NewProber(candidates ...Candidate) *Prober {
	if len(candidates) == 0 {
		candidates = DefaultCandidates()
	}
	return &Prober{candidates: candidates}
}

// Probe returns the first candidate that decodes the first PrologChars
// characters, unless they carry an XML declaration with an encoding
// attribute, in which case the declared name is returned. The trial encoding only serves to
// read the ASCII-compatible declaration.
func (p *Prober) Probe(path string, log *zap.Logger) (domain.ResolvedEncoding, error) {
	raw, atEOF, err := readPrefix(path, PrologChars*maxBytesPerRune)
	if err != nil {
		log.Error("Cannot read document", zap.String("path", path), zap.Error(err))
		return domain.ResolvedEncoding{}, err
	}

	for _, c := range p.candidates {
		log.Info("Trying encoding", zap.String("encoding", c.Name))
		span, spanEOF := c.prefix(raw, atEOF, PrologChars)
		text, err := c.Decode(span, spanEOF)
		if err != nil {
			log.Debug("Prefix does not decode", zap.String("encoding", c.Name), zap.Error(err))
			continue
		}
		return resolve(c.Name, strings.TrimSpace(firstRunes(text, PrologChars)), log), nil
	}

	err = fmt.Errorf("%w: tried %d candidates", domain.ErrEncodingExhausted, len(p.candidates))
	log.Error("No candidate encoding decodes the document", zap.String("path", path), zap.Error(err))
	return domain.ResolvedEncoding{}, err
}

func resolve(trial, prefix string, log *zap.Logger) domain.ResolvedEncoding {
	res := domain.ResolvedEncoding{Name: trial, Trial: trial}

	prolog, ok := ParseProlog(prefix)
	if !ok {
		log.Warn("XML prolog not found, using trial encoding", zap.String("encoding", trial))
		return res
	}
	res.Prolog = prolog

	log.Info("XML prolog is valid", zap.String("declared_encoding", prolog.DeclaredEncoding))
	log.Debug("XML prolog", zap.String("prolog", prolog.Raw))
	if prolog.Standalone != "" {
		log.Debug("Standalone attribute in prolog", zap.String("standalone", string(prolog.Standalone)))
	}

	if !prolog.HasEncoding() {
		log.Warn("Prolog declares no encoding, using trial encoding", zap.String("encoding", trial))
		return res
	}
	res.Name = prolog.DeclaredEncoding
	return res
}
