// internal/routines/export.go
package routines

import (
	"errors"
	"fmt"
)

// Exporter serves routine definitions re-delimited for safe reuse.
type Exporter struct {
	store  *Store
	dbName string
}

// NewExporter creates a new Exporter. dbName appears in not-found
// messages so the user knows which catalog was searched.
func NewExporter(store *Store, dbName string) *Exporter {
	return &Exporter{store: store, dbName: dbName}
}

// Export fetches the raw DDL for a routine and wraps it in DELIMITER
// markers. Kinds other than PROCEDURE and FUNCTION are rejected.
// The not-found message deliberately does not distinguish a missing
// routine from a missing privilege; the catalog cannot tell them apart.
func (e *Exporter) Export(name string, kind Kind) (string, ResultMessage) {
	if !kind.Valid() {
		return "", ErrorMessage(fmt.Sprintf("Export of %q is not applicable: unknown routine kind.", name))
	}

	ddl, err := e.store.DDL(name, kind)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrorMessage(fmt.Sprintf(
				"No definition found for %s %q in database %q. The routine may not exist, or you may lack the privilege to view it.",
				kindTitle(kind), name, e.dbName))
		}
		return "", ErrorMessage(err.Error())
	}

	return WrapDelimiters(ddl), SuccessMessage(fmt.Sprintf("Export of %s %q", kindTitle(kind), name))
}

// WrapDelimiters wraps a routine definition in DELIMITER markers.
// Routine bodies legitimately contain the statement terminator, so the
// definition has to be re-delimited before it can be fed back to a
// client.
func WrapDelimiters(ddl string) string {
	return "DELIMITER $$\n" + ddl + "$$\nDELIMITER ;\n"
}
