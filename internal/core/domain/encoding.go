package domain

// Standalone is the value of the prolog's standalone attribute.
type Standalone string

const (
	// StandaloneYes is standalone="yes".
	StandaloneYes Standalone = "yes"

	// StandaloneNo is standalone="no".
	StandaloneNo Standalone = "no"
)

// PrologInfo describes an XML declaration found at the start of a document.
type PrologInfo struct {
	// Version is the declared XML version, e.g. "1.0".
	Version string

	// DeclaredEncoding is the encoding attribute, empty if absent.
	DeclaredEncoding string

	// Standalone is the standalone attribute, empty if absent.
	Standalone Standalone

	// Raw is the matched declaration text.
	Raw string
}

// HasEncoding reports whether the prolog declares an encoding.
func (p *PrologInfo) HasEncoding() bool {
	return p != nil && p.DeclaredEncoding != ""
}

// ResolvedEncoding is the outcome of probing a document.
type ResolvedEncoding struct {
	// Name is the encoding used downstream: the declared encoding when the
	// prolog has one, otherwise Trial.
	Name string

	// Trial is the candidate that decoded the prefix without error.
	Trial string

	// Prolog is the declaration found under Trial, nil if none.
	Prolog *PrologInfo
}

// Declared reports whether Name came from the document's prolog.
func (r ResolvedEncoding) Declared() bool {
	return r.Prolog.HasEncoding()
}
