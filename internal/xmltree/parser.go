// Package xmltree strictly parses a document and normalises it into a
// namespace-free domain.NormalizedTree.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/custodia-labs/bmeconv/internal/core/domain"
	"github.com/custodia-labs/bmeconv/internal/core/ports/driven"
	"github.com/custodia-labs/bmeconv/internal/detect"
)

// Ensure Parser implements the interface.
var _ driven.TreeParser = (*Parser)(nil)

var utf8BOM = []byte("\xef\xbb\xbf")

// Parser reads documents with a resolved encoding and builds normalised trees.
type Parser struct{}

// New creates a new parser.
func New() *Parser {
	return &Parser{}
}

// Parse reads the whole file, transcodes it to UTF-8 and parses it strictly.
func (p *Parser) Parse(path string, enc domain.ResolvedEncoding, log *zap.Logger) (*domain.NormalizedTree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrIO, err)
		log.Error("Cannot read document", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	tree, err := p.ParseBytes(data, enc, log)
	if err != nil {
		log.Error("Error in XML file", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	return tree, nil
}

// ParseBytes parses an in-memory document.
func (p *Parser) ParseBytes(data []byte, enc domain.ResolvedEncoding, log *zap.Logger) (*domain.NormalizedTree, error) {
	text, err := transcode(data, enc, log)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.ReadSettings.ValidateInput = true
	// The input is already UTF-8 whatever the declaration says.
	doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromBytes(text); err != nil {
		return nil, malformed(err)
	}

	root := doc.Root()
	if root == nil {
		return nil, &domain.MalformedXMLError{Err: errors.New("no root element")}
	}
	log.Info("XML file is valid")

	tree := Normalize(root)
	if tree.Namespace != "" {
		log.Info("Namespace", zap.String("uri", tree.Namespace))
		if len(tree.Namespaces) > 1 {
			log.Debug("Multiple namespaces, keeping the last one", zap.Strings("namespaces", tree.Namespaces))
		}
	} else {
		log.Info("Namespace not found")
	}
	return tree, nil
}

func transcode(data []byte, enc domain.ResolvedEncoding, log *zap.Logger) ([]byte, error) {
	decoder, label := detect.Decoder(enc, log)
	if strings.EqualFold(label, detect.UTF8) || strings.EqualFold(label, "utf8") {
		if !utf8.Valid(data) {
			return nil, &domain.MalformedXMLError{Err: errors.New("invalid UTF-8 byte sequence")}
		}
		return bytes.TrimPrefix(data, utf8BOM), nil
	}

	out, err := decoder.NewDecoder().Bytes(data)
	if err != nil {
		return nil, &domain.MalformedXMLError{Err: fmt.Errorf("decode as %s: %w", label, err)}
	}
	return bytes.TrimPrefix(out, utf8BOM), nil
}

// malformed keeps the syntax error's line when the parser reports one.
func malformed(err error) error {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return &domain.MalformedXMLError{Line: syn.Line, Err: err}
	}
	return &domain.MalformedXMLError{Err: err}
}
