// internal/routines/handler.go
package routines

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
)

// Handler wires the routines workflow into the router.
type Handler struct {
	workflow *Workflow
}

// NewHandler creates a new Handler over the catalog database.
func NewHandler(db *sql.DB, dbName string, pageSize int) *Handler {
	return &Handler{workflow: NewWorkflow(db, dbName, pageSize)}
}

// Workflow returns the underlying workflow.
func (h *Handler) Workflow() *Workflow {
	return h.workflow
}

// RegisterRoutes registers the routines surface. Both methods land on
// the same entry point; the mode resolver, not the HTTP verb, selects
// the branch.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/routines", h.workflow.Handle)
	r.Post("/routines", h.workflow.Handle)
}
