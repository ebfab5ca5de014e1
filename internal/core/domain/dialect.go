package domain

// CatalogVersion2005 is the only catalog version recognised by the sniffer.
const CatalogVersion2005 = "2005"

// DialectVerdict is the structural verdict of the loose prefix scan.
// Only IsCatalog selects the processing path.
type DialectVerdict struct {
	// HasDoctype is true if a <!DOCTYPE marker was found.
	HasDoctype bool

	// DoctypeTag is the captured doctype tag text, empty if absent.
	DoctypeTag string

	// IsCatalog is true if a <BMECAT root marker was found.
	IsCatalog bool

	// CatalogTag is the captured catalog opening tag, empty if absent.
	CatalogTag string

	// CatalogVersion is "2005" when recognised, empty otherwise.
	CatalogVersion string
}

// Dialect returns a short name for logging.
func (v DialectVerdict) Dialect() string {
	if v.IsCatalog {
		return "bmecat"
	}
	return "generic"
}
