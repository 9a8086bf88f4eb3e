// internal/routines/store.go
package routines

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no routine matches a name+kind pair.
var ErrNotFound = errors.New("routine not found")

// Store provides CRUD operations for routine definitions.
type Store struct {
	db *sql.DB
}

// NewStore creates a new Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save stores a new routine definition. Fails if a routine with the
// same name and kind already exists.
func (s *Store) Save(rt *Routine) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRoutine(tx, rt); err != nil {
		return err
	}
	return tx.Commit()
}

// Replace swaps the routine identified by originalName+originalKind for
// the given definition. The identity may differ, which is how a rename
// lands. Delete and insert run in one transaction so a failed swap,
// such as a rename onto an existing name, leaves the original in place.
func (s *Store) Replace(originalName string, originalKind Kind, rt *Routine) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM _routines WHERE name = ? AND kind = ?`, originalName, string(originalKind))
	if err != nil {
		return fmt.Errorf("delete original: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("%s %q: %w", originalKind, originalName, ErrNotFound)
	}

	rt.ID = ""
	if err := insertRoutine(tx, rt); err != nil {
		return err
	}
	return tx.Commit()
}

// insertRoutine writes the routine and its parameter child rows inside
// the caller's transaction.
func insertRoutine(tx *sql.Tx, rt *Routine) error {
	if rt.ID == "" {
		rt.ID = uuid.New().String()
	}
	if rt.Source == "" {
		rt.Source = BuildDDL(rt)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := tx.Exec(`
		INSERT INTO _routines (id, name, kind, return_type, body, source, sql_data_access, definer, is_deterministic, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rt.ID, rt.Name, string(rt.Kind), rt.ReturnType, rt.Body, rt.Source, rt.SQLDataAccess, rt.Definer, boolToInt(rt.IsDeterministic), rt.Comment, now, now)
	if err != nil {
		return fmt.Errorf("insert routine: %w", err)
	}

	for i, p := range rt.Params {
		_, err = tx.Exec(`
			INSERT INTO _routine_params (id, routine_id, position, direction, name, type, length, options)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), rt.ID, i, p.Direction, p.Name, p.Type, p.Length, p.Options)
		if err != nil {
			return fmt.Errorf("insert parameter %s: %w", p.Name, err)
		}
	}

	return nil
}

// Get retrieves a routine by name and kind.
func (s *Store) Get(name string, kind Kind) (*Routine, error) {
	var rt Routine
	var kindStr string
	var deterministic int
	var createdAt, updatedAt string

	err := s.db.QueryRow(`
		SELECT id, name, kind, return_type, body, source, sql_data_access, definer, is_deterministic, comment, created_at, updated_at
		FROM _routines WHERE name = ? AND kind = ?
	`, name, string(kind)).Scan(&rt.ID, &rt.Name, &kindStr, &rt.ReturnType, &rt.Body, &rt.Source,
		&rt.SQLDataAccess, &rt.Definer, &deterministic, &rt.Comment, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query routine: %w", err)
	}
	rt.Kind = Kind(kindStr)
	rt.IsDeterministic = deterministic == 1

	rt.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rt.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	rows, err := s.db.Query(`
		SELECT direction, name, type, length, options
		FROM _routine_params WHERE routine_id = ? ORDER BY position
	`, rt.ID)
	if err != nil {
		return nil, fmt.Errorf("query parameters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Parameter
		if err := rows.Scan(&p.Direction, &p.Name, &p.Type, &p.Length, &p.Options); err != nil {
			return nil, fmt.Errorf("scan parameter: %w", err)
		}
		rt.Params = append(rt.Params, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parameters: %w", err)
	}

	return &rt, nil
}

// Count returns the number of routines in the catalog.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM _routines`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count routines: %w", err)
	}
	return n, nil
}

// List returns one page of routines ordered by name then kind.
func (s *Store) List(offset, limit int) ([]*Routine, error) {
	rows, err := s.db.Query(`
		SELECT name, kind FROM _routines ORDER BY name, kind LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query routines: %w", err)
	}

	// Collect identities first, then close rows before calling Get
	// to avoid holding the connection during nested queries
	type ident struct {
		name string
		kind Kind
	}
	var idents []ident
	for rows.Next() {
		var id ident
		var kindStr string
		if err := rows.Scan(&id.name, &kindStr); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan routine: %w", err)
		}
		id.kind = Kind(kindStr)
		idents = append(idents, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routines: %w", err)
	}

	var routines []*Routine
	for _, id := range idents {
		rt, err := s.Get(id.name, id.kind)
		if err != nil {
			return nil, err
		}
		routines = append(routines, rt)
	}
	return routines, nil
}

// Delete removes a routine by name and kind.
func (s *Store) Delete(name string, kind Kind) error {
	result, err := s.db.Exec(`DELETE FROM _routines WHERE name = ? AND kind = ?`, name, string(kind))
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	return nil
}

// Exists checks if a routine exists.
func (s *Store) Exists(name string, kind Kind) bool {
	var count int
	s.db.QueryRow(`SELECT COUNT(*) FROM _routines WHERE name = ? AND kind = ?`, name, string(kind)).Scan(&count)
	return count > 0
}

// DDL returns the raw definition text for export. The empty string with
// a nil error never happens; absence is ErrNotFound.
func (s *Store) DDL(name string, kind Kind) (string, error) {
	var source string
	err := s.db.QueryRow(`SELECT source FROM _routines WHERE name = ? AND kind = ?`, name, string(kind)).Scan(&source)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("query definition: %w", err)
	}
	return source, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
