package domain

import "time"

// State is a step of the conversion state machine.
type State string

const (
	StateStart            State = "start"
	StateEncodingResolved State = "encoding_resolved"
	StateDialectKnown     State = "dialect_known"
	StateCatalogParsed    State = "catalog_parsed"
	StateGenericFlattened State = "generic_flattened"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// Path is the processing path chosen by the dialect sniff.
type Path string

const (
	PathUnknown Path = ""
	PathCatalog Path = "catalog"
	PathGeneric Path = "generic"
)

// Result is the outcome of converting one document.
type Result struct {
	// RunID identifies this conversion in logs.
	RunID string

	// Source is the input file path.
	Source string

	// BaseName is the input file name without directory and extension.
	BaseName string

	// State is the final state: StateDone or StateFailed.
	State State

	// FailedIn is the last state reached before failing.
	FailedIn State

	// Path is the processing path, PathUnknown if the dialect was not determined.
	Path Path

	// Encoding is the resolved encoding.
	Encoding ResolvedEncoding

	// Verdict is the dialect sniff verdict.
	Verdict DialectVerdict

	// Namespace is the namespace URI recorded by the parser.
	Namespace string

	// Outputs lists the files written.
	Outputs []string

	// Rows is the number of rows written on the generic path.
	Rows int

	// Err is the failure reason. A done result may still carry a non-fatal
	// error: no matching elements, or a catalog extractor failure.
	Err error

	StartedAt  time.Time
	FinishedAt time.Time
}

// OK reports whether the conversion finished successfully.
func (r *Result) OK() bool {
	return r.State == StateDone
}
