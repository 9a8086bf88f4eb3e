// internal/routines/executor.go
package routines

import (
	"database/sql"
	"fmt"
	"strings"
)

// Executor runs stored routines against the catalog database.
type Executor struct {
	db    *sql.DB
	store *Store
}

// NewExecutor creates a new Executor.
func NewExecutor(db *sql.DB, store *Store) *Executor {
	return &Executor{db: db, store: store}
}

// Execute locates a routine by name and kind, binds the caller-supplied
// values to its parameters by position, and runs the body statements
// sequentially. The first failing statement halts execution; remaining
// statements are abandoned. A missing routine is reported through the
// returned error (ErrNotFound) without attempting execution; execution
// failure is a normal outcome carried in the ResultMessage.
func (e *Executor) Execute(name string, kind Kind, values []string) (string, ResultMessage, error) {
	rt, err := e.store.Get(name, kind)
	if err != nil {
		return "", ErrorMessage(fmt.Sprintf("No routine with name %q found.", name)), err
	}

	bound, err := bindValues(rt, values)
	if err != nil {
		return "", ErrorMessage(err.Error()), nil
	}

	var out strings.Builder
	statements := SplitStatements(rt.Body)

	for _, stmt := range statements {
		sqlStr, args := substituteParams(stmt, rt.Params, bound)

		if returnsRows(sqlStr) {
			if err := e.runQuery(&out, sqlStr, args); err != nil {
				return out.String(), ErrorMessage(fmt.Sprintf("Execution of %s %q failed: %v", strings.ToLower(string(kind)), name, err)), nil
			}
		} else {
			result, err := e.db.Exec(sqlStr, args...)
			if err != nil {
				return out.String(), ErrorMessage(fmt.Sprintf("Execution of %s %q failed: %v", strings.ToLower(string(kind)), name, err)), nil
			}
			affected, _ := result.RowsAffected()
			fmt.Fprintf(&out, "%d row(s) affected\n", affected)
		}
	}

	msg := SuccessMessage(fmt.Sprintf("%s %q executed: %d statement(s).", kindTitle(kind), name, len(statements)))
	return out.String(), msg, nil
}

// runQuery executes one row-returning statement and appends a text
// rendering of the result set.
func (e *Executor) runQuery(out *strings.Builder, sqlStr string, args []interface{}) error {
	rows, err := e.db.Query(sqlStr, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	out.WriteString(strings.Join(columns, "\t"))
	out.WriteString("\n")

	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		cells := make([]string, len(columns))
		for i, v := range values {
			switch val := v.(type) {
			case nil:
				cells[i] = "NULL"
			case []byte:
				cells[i] = string(val)
			default:
				cells[i] = fmt.Sprint(val)
			}
		}
		out.WriteString(strings.Join(cells, "\t"))
		out.WriteString("\n")
	}
	return rows.Err()
}

// bindValues maps caller-supplied values onto the routine's bindable
// parameters by position. OUT parameters take no caller value.
func bindValues(rt *Routine, values []string) (map[string]string, error) {
	bound := make(map[string]string)
	pos := 0
	for _, p := range rt.Params {
		if p.Direction == "OUT" {
			continue
		}
		if pos >= len(values) {
			return nil, fmt.Errorf("missing value for parameter %q", p.Name)
		}
		bound[p.Name] = values[pos]
		pos++
	}
	return bound, nil
}

// substituteParams replaces :name placeholders with positional markers
// and builds the argument list in placeholder order, so repeated and
// reordered references still bind to the right values.
func substituteParams(stmt string, params []Parameter, bound map[string]string) (string, []interface{}) {
	names := make(map[string]bool, len(params))
	for _, p := range params {
		if p.Name != "" {
			names[p.Name] = true
		}
	}

	var out strings.Builder
	var args []interface{}
	for i := 0; i < len(stmt); {
		if stmt[i] == ':' {
			j := i + 1
			for j < len(stmt) && isIdentChar(stmt[j]) {
				j++
			}
			if name := stmt[i+1 : j]; names[name] {
				out.WriteByte('?')
				args = append(args, bound[name])
				i = j
				continue
			}
		}
		out.WriteByte(stmt[i])
		i++
	}
	return out.String(), args
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// returnsRows reports whether a statement produces a result set.
func returnsRows(stmt string) bool {
	head := strings.ToUpper(strings.TrimSpace(stmt))
	return strings.HasPrefix(head, "SELECT") ||
		strings.HasPrefix(head, "WITH") ||
		strings.HasPrefix(head, "VALUES")
}

// SplitStatements splits a routine body on statement terminators,
// honoring single-quoted, double-quoted and backtick-quoted regions so
// a semicolon inside a literal does not end a statement. Routine bodies
// legitimately contain the terminator, which is also why export
// re-delimits them.
func SplitStatements(body string) []string {
	var statements []string
	var current strings.Builder
	var quote byte

	for i := 0; i < len(body); i++ {
		c := body[i]

		if quote != 0 {
			current.WriteByte(c)
			if c == '\\' && quote != '`' && i+1 < len(body) {
				i++
				current.WriteByte(body[i])
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"', '`':
			quote = c
			current.WriteByte(c)
		case ';':
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}

func kindTitle(kind Kind) string {
	if kind == KindFunction {
		return "Function"
	}
	return "Procedure"
}
